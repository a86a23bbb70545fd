package service

import (
	"encoding/json"
	"fmt"
	"html"
	"log"
	"strings"

	"anoa.com/advisoryhub/internal/entity"
	"anoa.com/advisoryhub/internal/modules/advisory/policy"
	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
)

const advisoriesIndex = "advisories"

// AdvisoryDocument carries the display names alongside the record, since the
// index is queried without touching the directory.
type AdvisoryDocument struct {
	Advisory    *entity.Advisory
	StudentName string
	TeacherName string
}

type MeiliSearchService interface {
	IndexAdvisory(doc AdvisoryDocument) error
	DeleteAdvisory(id uuid.UUID) error
	// SearchAdvisories returns the ids of matching advisories inside scope, best match first.
	SearchAdvisories(query string, scope policy.Scope, limit int) ([]uuid.UUID, error)
}

type meiliSearchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

func NewMeiliSearchService(client meilisearch.ServiceManager) MeiliSearchService {
	s := &meiliSearchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndexes()
	return s
}

func (s *meiliSearchService) initIndexes() {
	filterableAttrs := []string{"student_id", "teacher_id", "status", "advisory_type"}
	filterableInterface := make([]any, len(filterableAttrs))
	for i, v := range filterableAttrs {
		filterableInterface[i] = v
	}
	if _, err := s.client.Index(advisoriesIndex).UpdateFilterableAttributes(&filterableInterface); err != nil {
		log.Printf("Failed to update advisories filterable attributes: %v", err)
	}

	sortableAttrs := []string{"scheduled_at", "created_at"}
	if _, err := s.client.Index(advisoriesIndex).UpdateSortableAttributes(&sortableAttrs); err != nil {
		log.Printf("Failed to update advisories sortable attributes: %v", err)
	}

	log.Println("Meilisearch indexes initialized")
}

type meiliAdvisoryDoc struct {
	ID          string `json:"id"`
	StudentID   string `json:"student_id"`
	TeacherID   string `json:"teacher_id"`
	StudentName string `json:"student_name"`
	TeacherName string `json:"teacher_name"`
	Subject     string `json:"subject"`
	Topic       string `json:"topic"`
	Location    string `json:"location"`
	Notes       string `json:"notes"`
	Status      string `json:"status"`
	Type        string `json:"advisory_type"`
	ScheduledAt int64  `json:"scheduled_at"`
	CreatedAt   int64  `json:"created_at"`
}

func (s *meiliSearchService) cleanText(content string) string {
	content = strings.ReplaceAll(content, "</p>", " ")
	content = strings.ReplaceAll(content, "<br>", " ")
	content = strings.ReplaceAll(content, "</div>", " ")

	cleanText := html.UnescapeString(s.sanitizer.Sanitize(content))
	return strings.Join(strings.Fields(cleanText), " ")
}

func (s *meiliSearchService) toDocument(doc AdvisoryDocument) meiliAdvisoryDoc {
	a := doc.Advisory
	return meiliAdvisoryDoc{
		ID:          a.ID.String(),
		StudentID:   a.StudentID.String(),
		TeacherID:   a.TeacherID.String(),
		StudentName: doc.StudentName,
		TeacherName: doc.TeacherName,
		Subject:     s.cleanText(a.Subject),
		Topic:       s.cleanText(a.Topic),
		Location:    s.cleanText(a.Location),
		Notes:       s.cleanText(a.Notes),
		Status:      string(a.Status),
		Type:        string(a.Type),
		ScheduledAt: a.ScheduledAt.Unix(),
		CreatedAt:   a.CreatedAt.Unix(),
	}
}

func (s *meiliSearchService) IndexAdvisory(doc AdvisoryDocument) error {
	if doc.Advisory == nil {
		return fmt.Errorf("index advisory: nil record")
	}

	task, err := s.client.Index(advisoriesIndex).AddDocuments([]meiliAdvisoryDoc{s.toDocument(doc)}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("Indexed advisory %s, task id: %d", doc.Advisory.ID, task.TaskUID)
	return nil
}

func (s *meiliSearchService) DeleteAdvisory(id uuid.UUID) error {
	_, err := s.client.Index(advisoriesIndex).DeleteDocument(id.String())
	return err
}

// ScopeFilter renders a listing scope as a Meilisearch filter expression.
func ScopeFilter(scope policy.Scope) string {
	var clauses []string
	if scope.StudentID != nil {
		clauses = append(clauses, fmt.Sprintf("student_id = %q", scope.StudentID.String()))
	}
	if scope.TeacherID != nil {
		clauses = append(clauses, fmt.Sprintf("teacher_id = %q", scope.TeacherID.String()))
	}
	return strings.Join(clauses, " AND ")
}

type searchHits struct {
	Hits []struct {
		ID string `json:"id"`
	} `json:"hits"`
}

func (s *meiliSearchService) SearchAdvisories(query string, scope policy.Scope, limit int) ([]uuid.UUID, error) {
	req := &meilisearch.SearchRequest{
		Limit:                int64(limit),
		AttributesToRetrieve: []string{"id"},
	}
	if filter := ScopeFilter(scope); filter != "" {
		req.Filter = filter
	}

	raw, err := s.client.Index(advisoriesIndex).SearchRaw(query, req)
	if err != nil {
		return nil, fmt.Errorf("search advisories: %w", err)
	}
	return parseHitIDs(*raw)
}

func parseHitIDs(raw []byte) ([]uuid.UUID, error) {
	var res searchHits
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(res.Hits))
	for _, hit := range res.Hits {
		id, err := uuid.Parse(hit.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func strPtr(s string) *string {
	return &s
}
