package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"anoa.com/advisoryhub/internal/entity"
	"anoa.com/advisoryhub/internal/metrics"
	"anoa.com/advisoryhub/internal/modules/advisory/dto"
	"anoa.com/advisoryhub/internal/modules/advisory/policy"
	"anoa.com/advisoryhub/internal/modules/advisory/repository"
	search "anoa.com/advisoryhub/internal/modules/search/service"
	"anoa.com/advisoryhub/pkg/apperror"
	commonDto "anoa.com/advisoryhub/pkg/dto"
	"anoa.com/advisoryhub/pkg/ratelimiter"
	"github.com/google/uuid"
)

const (
	unknownName        = "Unknown"
	defaultSearchLimit = 20
)

// Directory resolves the profiles an advisory references.
type Directory interface {
	GetStudent(ctx context.Context, id uuid.UUID) (*entity.StudentProfile, error)
	GetTeacher(ctx context.Context, id uuid.UUID) (*entity.TeacherProfile, error)
}

type AdvisoryService interface {
	BookAdvisory(ctx context.Context, actor entity.Actor, req dto.CreateAdvisoryRequest) (*dto.AdvisoryResponse, error)
	ListMyAdvisories(ctx context.Context, actor entity.Actor, filter dto.AdvisoryFilter) (*dto.PaginatedAdvisoryResponse, error)
	ViewAdvisory(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.AdvisoryResponse, error)
	UpdateAdvisory(ctx context.Context, actor entity.Actor, id uuid.UUID, req dto.UpdateAdvisoryRequest) (*dto.AdvisoryResponse, error)
	CancelAdvisory(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.AdvisoryResponse, error)
	DeleteAdvisory(ctx context.Context, actor entity.Actor, id uuid.UUID) error
	GetStats(ctx context.Context, actor entity.Actor) (*dto.AdvisoryStats, error)
	SearchAdvisories(ctx context.Context, actor entity.Actor, req dto.SearchAdvisoryRequest) ([]dto.AdvisoryResponse, error)
}

type advisoryService struct {
	repo      repository.AdvisoryRepository
	directory Directory
	meili     search.MeiliSearchService
	limiter   *ratelimiter.Limiter
	now       func() time.Time
}

// NewAdvisoryService wires the booking lifecycle. meili and limiter may be nil.
func NewAdvisoryService(repo repository.AdvisoryRepository, directory Directory, meili search.MeiliSearchService, limiter *ratelimiter.Limiter) AdvisoryService {
	return &advisoryService{
		repo:      repo,
		directory: directory,
		meili:     meili,
		limiter:   limiter,
		now:       time.Now,
	}
}

func (s *advisoryService) BookAdvisory(ctx context.Context, actor entity.Actor, req dto.CreateAdvisoryRequest) (res *dto.AdvisoryResponse, err error) {
	defer func() { observe("book", err) }()

	var studentID uuid.UUID
	switch {
	case actor.Role == entity.RoleStudent:
		studentID = actor.ID
	case req.StudentID != nil:
		studentID = *req.StudentID
	}

	advisoryType, err := entity.ParseAdvisoryType(req.Type)
	if err != nil {
		return nil, err
	}

	advisory := &entity.Advisory{
		StudentID:       studentID,
		TeacherID:       req.TeacherID,
		Subject:         req.Subject,
		Topic:           req.Topic,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
		Type:            advisoryType,
		Status:          entity.StatusScheduled,
		Location:        req.Location,
		Notes:           req.Notes,
	}
	if err := advisory.Validate(); err != nil {
		return nil, err
	}

	if !policy.Allowed(actor, advisory, policy.ActionCreate) {
		return nil, fmt.Errorf("%w: %s cannot book advisories for this student", apperror.ErrForbidden, actor.Role)
	}

	if err := s.limiter.Acquire(ctx, actor.ID, ratelimiter.ScopeBooking); err != nil {
		return nil, err
	}
	bookingFailed := true
	defer func() {
		if bookingFailed {
			if err := s.limiter.Release(context.WithoutCancel(ctx), actor.ID, ratelimiter.ScopeBooking); err != nil {
				log.Printf("failed to release booking cooldown for %s: %v", actor.ID, err)
			}
		}
	}()

	student, teacher, err := s.resolveParticipants(ctx, advisory.StudentID, advisory.TeacherID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, advisory); err != nil {
		return nil, err
	}
	bookingFailed = false

	names := participantNames{student: student.FullName, teacher: teacher.FullName}
	s.index(advisory, names)

	out := toResponse(advisory, names)
	return &out, nil
}

// resolveParticipants enforces that both references point at existing profiles.
func (s *advisoryService) resolveParticipants(ctx context.Context, studentID, teacherID uuid.UUID) (*entity.StudentProfile, *entity.TeacherProfile, error) {
	student, err := s.directory.GetStudent(ctx, studentID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, nil, fmt.Errorf("student_id %s does not reference a student: %w", studentID, apperror.ErrNotFound)
		}
		return nil, nil, err
	}
	teacher, err := s.directory.GetTeacher(ctx, teacherID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, nil, fmt.Errorf("teacher_id %s does not reference a teacher: %w", teacherID, apperror.ErrNotFound)
		}
		return nil, nil, err
	}
	return student, teacher, nil
}

func (s *advisoryService) ListMyAdvisories(ctx context.Context, actor entity.Actor, filter dto.AdvisoryFilter) (*dto.PaginatedAdvisoryResponse, error) {
	paged := filter.PageQuery.Requested()
	if paged {
		filter.PageQuery.Normalize()
	}

	repoFilter, err := scopedFilter(actor, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Count(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	meta := commonDto.SinglePageMeta(total)
	if paged {
		repoFilter.Limit = filter.Limit
		repoFilter.Offset = filter.Offset()
		meta = commonDto.NewPaginationMeta(filter.PageQuery, total)
	}
	advisories, err := s.repo.FindAll(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	return &dto.PaginatedAdvisoryResponse{
		Data: s.toResponses(ctx, advisories),
		Meta: meta,
	}, nil
}

// scopedFilter applies the caller's listing scope first; query parameters can only narrow it.
func scopedFilter(actor entity.Actor, filter dto.AdvisoryFilter) (repository.Filter, error) {
	scope := policy.ListScope(actor)
	repoFilter := repository.Filter{
		StudentID: scope.StudentID,
		TeacherID: scope.TeacherID,
		Search:    filter.Search,
		From:      filter.From,
		To:        filter.To,
		OrderBy:   filter.Sort,
		Ascending: filter.Order == "asc",
	}

	if filter.Status != "" {
		status, err := entity.ParseStatus(filter.Status)
		if err != nil {
			return repository.Filter{}, err
		}
		repoFilter.Status = &status
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return repository.Filter{}, apperror.Invalid("to must not be before from")
	}
	return repoFilter, nil
}

func (s *advisoryService) ViewAdvisory(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.AdvisoryResponse, error) {
	advisory, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.Allowed(actor, advisory, policy.ActionView) {
		return nil, fmt.Errorf("%w: not a participant of advisory %s", apperror.ErrForbidden, id)
	}

	out := toResponse(advisory, s.names(ctx, advisory))
	return &out, nil
}

func (s *advisoryService) UpdateAdvisory(ctx context.Context, actor entity.Actor, id uuid.UUID, req dto.UpdateAdvisoryRequest) (res *dto.AdvisoryResponse, err error) {
	defer func() { observe("update", err) }()

	if len(req.ID) > 0 {
		return nil, apperror.Invalid("id cannot be modified")
	}
	if len(req.CreatedAt) > 0 {
		return nil, apperror.Invalid("created_at cannot be modified")
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.Allowed(actor, current, policy.ActionEdit) {
		return nil, fmt.Errorf("%w: not allowed to edit advisory %s", apperror.ErrForbidden, id)
	}
	if req.Version != nil && *req.Version != current.Version {
		return nil, fmt.Errorf("advisory %s is at version %d, not %d: %w", id, current.Version, *req.Version, apperror.ErrConflict)
	}

	merged, changes, err := mergePatch(actor, current, req)
	if err != nil {
		return nil, err
	}
	if len(changes) == 0 {
		out := toResponse(current, s.names(ctx, current))
		return &out, nil
	}

	if err := merged.Validate(); err != nil {
		return nil, err
	}

	_, studentChanged := changes[repository.ColumnStudentID]
	_, teacherChanged := changes[repository.ColumnTeacherID]
	if studentChanged || teacherChanged {
		if _, _, err := s.resolveParticipants(ctx, merged.StudentID, merged.TeacherID); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.Update(ctx, id, current.Version, changes)
	if err != nil {
		return nil, err
	}

	names := s.names(ctx, updated)
	s.index(updated, names)

	out := toResponse(updated, names)
	return &out, nil
}

// mergePatch applies the supplied fields to a copy of current and returns the
// columns whose value actually changed.
func mergePatch(actor entity.Actor, current *entity.Advisory, req dto.UpdateAdvisoryRequest) (*entity.Advisory, repository.Changes, error) {
	merged := *current
	changes := repository.Changes{}

	if req.Status != nil {
		next, err := entity.ParseStatus(*req.Status)
		if err != nil {
			return nil, nil, err
		}
		if err := current.Status.CheckTransition(next); err != nil {
			return nil, nil, err
		}
		if next != current.Status {
			merged.Status = next
			changes[repository.ColumnStatus] = next
		}
	}

	if req.StudentID != nil && *req.StudentID != current.StudentID {
		if !actor.IsAdmin() {
			return nil, nil, fmt.Errorf("%w: only admins can reassign the student", apperror.ErrForbidden)
		}
		merged.StudentID = *req.StudentID
		changes[repository.ColumnStudentID] = *req.StudentID
	}
	if req.TeacherID != nil && *req.TeacherID != current.TeacherID {
		if actor.Role == entity.RoleTeacher {
			return nil, nil, fmt.Errorf("%w: teachers cannot reassign an advisory", apperror.ErrForbidden)
		}
		merged.TeacherID = *req.TeacherID
		changes[repository.ColumnTeacherID] = *req.TeacherID
	}
	if req.Subject != nil && *req.Subject != current.Subject {
		merged.Subject = *req.Subject
		changes[repository.ColumnSubject] = *req.Subject
	}
	if req.Topic != nil && *req.Topic != current.Topic {
		merged.Topic = *req.Topic
		changes[repository.ColumnTopic] = *req.Topic
	}
	if req.ScheduledAt != nil && !req.ScheduledAt.Equal(current.ScheduledAt) {
		merged.ScheduledAt = *req.ScheduledAt
		changes[repository.ColumnScheduledAt] = *req.ScheduledAt
	}
	if req.DurationMinutes != nil && *req.DurationMinutes != current.DurationMinutes {
		merged.DurationMinutes = *req.DurationMinutes
		changes[repository.ColumnDurationMinutes] = *req.DurationMinutes
	}
	if req.Type != nil {
		advisoryType, err := entity.ParseAdvisoryType(*req.Type)
		if err != nil {
			return nil, nil, err
		}
		if advisoryType != current.Type {
			merged.Type = advisoryType
			changes[repository.ColumnType] = advisoryType
		}
	}
	if req.Location != nil && *req.Location != current.Location {
		merged.Location = *req.Location
		changes[repository.ColumnLocation] = *req.Location
	}
	if req.Notes != nil && *req.Notes != current.Notes {
		merged.Notes = *req.Notes
		changes[repository.ColumnNotes] = *req.Notes
	}

	if current.Status.IsTerminal() {
		for col := range changes {
			if col != repository.ColumnNotes {
				return nil, nil, fmt.Errorf("%w: a %s advisory only accepts notes, got %s", apperror.ErrIllegalTransition, current.Status, col)
			}
		}
	}

	return &merged, changes, nil
}

func (s *advisoryService) CancelAdvisory(ctx context.Context, actor entity.Actor, id uuid.UUID) (res *dto.AdvisoryResponse, err error) {
	defer func() { observe("cancel", err) }()

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.Allowed(actor, current, policy.CancelAction(actor.Role)) {
		return nil, fmt.Errorf("%w: not allowed to cancel advisory %s", apperror.ErrForbidden, id)
	}
	if err := current.Status.CheckTransition(entity.StatusCancelled); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, current.Version, repository.Changes{
		repository.ColumnStatus: entity.StatusCancelled,
	})
	if err != nil {
		return nil, err
	}

	names := s.names(ctx, updated)
	s.index(updated, names)

	out := toResponse(updated, names)
	return &out, nil
}

func (s *advisoryService) DeleteAdvisory(ctx context.Context, actor entity.Actor, id uuid.UUID) (err error) {
	defer func() { observe("delete", err) }()

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !policy.Allowed(actor, current, policy.ActionDelete) {
		return fmt.Errorf("%w: not allowed to delete advisory %s", apperror.ErrForbidden, id)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.meili != nil {
		if err := s.meili.DeleteAdvisory(id); err != nil {
			log.Printf("Failed to remove advisory %s from index: %v", id, err)
		}
	}
	return nil
}

func (s *advisoryService) GetStats(ctx context.Context, actor entity.Actor) (*dto.AdvisoryStats, error) {
	scope := policy.ListScope(actor)
	filter := repository.Filter{StudentID: scope.StudentID, TeacherID: scope.TeacherID}

	counts, err := s.repo.CountByStatus(ctx, filter)
	if err != nil {
		return nil, err
	}

	scheduled := entity.StatusScheduled
	now := s.now()
	filter.Status = &scheduled
	filter.From = &now
	upcoming, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	stats := &dto.AdvisoryStats{
		Scheduled: counts[entity.StatusScheduled],
		Completed: counts[entity.StatusCompleted],
		Cancelled: counts[entity.StatusCancelled],
		Upcoming:  upcoming,
	}
	stats.Total = stats.Scheduled + stats.Completed + stats.Cancelled
	return stats, nil
}

func (s *advisoryService) SearchAdvisories(ctx context.Context, actor entity.Actor, req dto.SearchAdvisoryRequest) ([]dto.AdvisoryResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	scope := policy.ListScope(actor)

	if s.meili == nil {
		advisories, err := s.repo.FindAll(ctx, repository.Filter{
			StudentID: scope.StudentID,
			TeacherID: scope.TeacherID,
			Search:    req.Query,
			Limit:     limit,
		})
		if err != nil {
			return nil, err
		}
		return s.toResponses(ctx, advisories), nil
	}

	ids, err := s.meili.SearchAdvisories(req.Query, scope, limit)
	if err != nil {
		return nil, err
	}

	advisories := make([]*entity.Advisory, 0, len(ids))
	for _, id := range ids {
		advisory, err := s.repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, apperror.ErrNotFound) {
				continue
			}
			return nil, err
		}
		// The index can lag behind reassignments.
		if !policy.Allowed(actor, advisory, policy.ActionView) {
			continue
		}
		advisories = append(advisories, advisory)
	}
	return s.toResponses(ctx, advisories), nil
}

func (s *advisoryService) index(advisory *entity.Advisory, names participantNames) {
	if s.meili == nil {
		return
	}
	if err := s.meili.IndexAdvisory(search.AdvisoryDocument{
		Advisory:    advisory,
		StudentName: names.student,
		TeacherName: names.teacher,
	}); err != nil {
		log.Printf("Failed to index advisory %s: %v", advisory.ID, err)
	}
}

func observe(operation string, err error) {
	metrics.ObserveOperation(operation, outcome(err))
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, apperror.ErrInvalidInput):
		return "invalid"
	case errors.Is(err, apperror.ErrForbidden):
		return "forbidden"
	case errors.Is(err, apperror.ErrNotFound):
		return "not_found"
	case errors.Is(err, apperror.ErrIllegalTransition):
		return "illegal_transition"
	case errors.Is(err, apperror.ErrConflict):
		return "conflict"
	case errors.Is(err, apperror.ErrRateLimitExceeded):
		return "rate_limited"
	case errors.Is(err, apperror.ErrStorageUnavailable):
		return "unavailable"
	}
	return "error"
}
