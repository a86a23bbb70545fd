package service

import (
	"testing"
	"time"

	"anoa.com/advisoryhub/internal/entity"
	"anoa.com/advisoryhub/internal/modules/advisory/policy"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeFilter(t *testing.T) {
	id := uuid.MustParse("0190d5a3-7c1e-7b2a-9c4d-1e2f3a4b5c6d")

	assert.Equal(t, "", ScopeFilter(policy.ListScope(entity.Actor{ID: id, Role: entity.RoleAdmin})))
	assert.Equal(t, `student_id = "0190d5a3-7c1e-7b2a-9c4d-1e2f3a4b5c6d"`,
		ScopeFilter(policy.ListScope(entity.Actor{ID: id, Role: entity.RoleStudent})))
	assert.Equal(t, `teacher_id = "0190d5a3-7c1e-7b2a-9c4d-1e2f3a4b5c6d"`,
		ScopeFilter(policy.ListScope(entity.Actor{ID: id, Role: entity.RoleTeacher})))
}

func TestParseHitIDs(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	raw := []byte(`{"hits":[{"id":"` + a.String() + `"},{"id":"not-a-uuid"},{"id":"` + b.String() + `"}],"estimatedTotalHits":3}`)

	ids, err := parseHitIDs(raw)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a, b}, ids)

	_, err = parseHitIDs([]byte(`{`))
	assert.Error(t, err)
}

func TestToDocumentStripsMarkup(t *testing.T) {
	s := &meiliSearchService{sanitizer: bluemonday.StrictPolicy()}
	advisory := &entity.Advisory{
		ID:          uuid.New(),
		StudentID:   uuid.New(),
		TeacherID:   uuid.New(),
		Subject:     "Calculus",
		Topic:       "<b>Derivatives</b>",
		Location:    "Room 201",
		Notes:       "<p>Bring</p><p>exercises &amp; notes</p>",
		Status:      entity.StatusScheduled,
		Type:        entity.AdvisoryIndividual,
		ScheduledAt: time.Date(2024, 12, 15, 14, 0, 0, 0, time.UTC),
	}

	doc := s.toDocument(AdvisoryDocument{Advisory: advisory, StudentName: "Ana García", TeacherName: "Dr. Elena García"})
	assert.Equal(t, "Derivatives", doc.Topic)
	assert.Equal(t, "Bring exercises & notes", doc.Notes)
	assert.Equal(t, advisory.StudentID.String(), doc.StudentID)
	assert.Equal(t, int64(1734271200), doc.ScheduledAt)
	assert.Equal(t, "Ana García", doc.StudentName)
}
