// Package testutil provides in-memory fakes of the storage interfaces for tests.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"anoa.com/advisoryhub/internal/entity"
	"anoa.com/advisoryhub/internal/modules/advisory/repository"
	"anoa.com/advisoryhub/pkg/apperror"
	"github.com/google/uuid"
)

// FakeAdvisoryRepository mirrors the gorm repository's semantics in memory:
// version checks, rejected identity columns, filters and default ordering.
type FakeAdvisoryRepository struct {
	mu      sync.Mutex
	records map[uuid.UUID]entity.Advisory
	now     func() time.Time

	// Err, when set, is returned by every call.
	Err error
}

var _ repository.AdvisoryRepository = (*FakeAdvisoryRepository)(nil)

func NewFakeAdvisoryRepository() *FakeAdvisoryRepository {
	return &FakeAdvisoryRepository{
		records: make(map[uuid.UUID]entity.Advisory),
		now:     time.Now,
	}
}

func (f *FakeAdvisoryRepository) Create(_ context.Context, advisory *entity.Advisory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	if err := advisory.Validate(); err != nil {
		return err
	}
	if err := advisory.BeforeCreate(nil); err != nil {
		return err
	}
	if _, exists := f.records[advisory.ID]; exists {
		return fmt.Errorf("create advisory: %w", apperror.ErrConflict)
	}
	now := f.now()
	advisory.CreatedAt = now
	advisory.UpdatedAt = now
	f.records[advisory.ID] = *advisory
	return nil
}

func (f *FakeAdvisoryRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Advisory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	a, ok := f.records[id]
	if !ok {
		return nil, fmt.Errorf("find advisory %s: %w", id, apperror.ErrNotFound)
	}
	return &a, nil
}

func matches(a entity.Advisory, filter repository.Filter) bool {
	if filter.StudentID != nil && a.StudentID != *filter.StudentID {
		return false
	}
	if filter.TeacherID != nil && a.TeacherID != *filter.TeacherID {
		return false
	}
	if filter.Status != nil && a.Status != *filter.Status {
		return false
	}
	if filter.Search != "" {
		q := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(a.Subject), q) &&
			!strings.Contains(strings.ToLower(a.Topic), q) &&
			!strings.Contains(strings.ToLower(a.Location), q) {
			return false
		}
	}
	if filter.From != nil && a.ScheduledAt.Before(*filter.From) {
		return false
	}
	if filter.To != nil && !a.ScheduledAt.Before(*filter.To) {
		return false
	}
	return true
}

func (f *FakeAdvisoryRepository) selectLocked(filter repository.Filter) []entity.Advisory {
	var out []entity.Advisory
	for _, a := range f.records {
		if matches(a, filter) {
			out = append(out, a)
		}
	}
	return out
}

func (f *FakeAdvisoryRepository) FindAll(_ context.Context, filter repository.Filter) ([]*entity.Advisory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}

	rows := f.selectLocked(filter)
	key := func(a entity.Advisory) time.Time {
		switch filter.OrderBy {
		case "created_at":
			return a.CreatedAt
		case "updated_at":
			return a.UpdatedAt
		}
		return a.ScheduledAt
	}
	sort.Slice(rows, func(i, j int) bool {
		ki, kj := key(rows[i]), key(rows[j])
		if !ki.Equal(kj) {
			if filter.Ascending {
				return ki.Before(kj)
			}
			return ki.After(kj)
		}
		if filter.Ascending {
			return rows[i].ID.String() < rows[j].ID.String()
		}
		return rows[i].ID.String() > rows[j].ID.String()
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(rows) {
			rows = nil
		} else {
			rows = rows[filter.Offset:]
		}
	}
	if filter.Limit > 0 && len(rows) > filter.Limit {
		rows = rows[:filter.Limit]
	}

	out := make([]*entity.Advisory, 0, len(rows))
	for i := range rows {
		a := rows[i]
		out = append(out, &a)
	}
	return out, nil
}

func (f *FakeAdvisoryRepository) Count(_ context.Context, filter repository.Filter) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return 0, f.Err
	}
	return int64(len(f.selectLocked(filter))), nil
}

func (f *FakeAdvisoryRepository) CountByStatus(_ context.Context, filter repository.Filter) (map[entity.Status]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	counts := make(map[entity.Status]int64)
	for _, a := range f.selectLocked(filter) {
		counts[a.Status]++
	}
	return counts, nil
}

func (f *FakeAdvisoryRepository) Update(_ context.Context, id uuid.UUID, expectedVersion int, changes repository.Changes) (*entity.Advisory, error) {
	if err := repository.CheckChanges(changes); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}

	a, ok := f.records[id]
	if !ok {
		return nil, fmt.Errorf("update advisory %s: %w", id, apperror.ErrNotFound)
	}
	if a.Version != expectedVersion {
		return nil, fmt.Errorf("update advisory %s: version %d is stale: %w", id, expectedVersion, apperror.ErrConflict)
	}

	for col, val := range changes {
		if err := apply(&a, col, val); err != nil {
			return nil, err
		}
	}
	a.Version++
	a.UpdatedAt = f.now()
	f.records[id] = a
	return &a, nil
}

func apply(a *entity.Advisory, col string, val any) error {
	var ok bool
	switch col {
	case repository.ColumnStudentID:
		a.StudentID, ok = val.(uuid.UUID)
	case repository.ColumnTeacherID:
		a.TeacherID, ok = val.(uuid.UUID)
	case repository.ColumnSubject:
		a.Subject, ok = val.(string)
	case repository.ColumnTopic:
		a.Topic, ok = val.(string)
	case repository.ColumnScheduledAt:
		a.ScheduledAt, ok = val.(time.Time)
	case repository.ColumnDurationMinutes:
		a.DurationMinutes, ok = val.(int)
	case repository.ColumnType:
		a.Type, ok = val.(entity.AdvisoryType)
	case repository.ColumnStatus:
		a.Status, ok = val.(entity.Status)
	case repository.ColumnLocation:
		a.Location, ok = val.(string)
	case repository.ColumnNotes:
		a.Notes, ok = val.(string)
	}
	if !ok {
		return apperror.Invalid("unexpected value %T for %s", val, col)
	}
	return nil
}

func (f *FakeAdvisoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	if _, ok := f.records[id]; !ok {
		return fmt.Errorf("delete advisory %s: %w", id, apperror.ErrNotFound)
	}
	delete(f.records, id)
	return nil
}

// Len returns the number of stored advisories.
func (f *FakeAdvisoryRepository) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}
