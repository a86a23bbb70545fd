package repository

import (
	"context"
	"fmt"
	"time"

	"anoa.com/advisoryhub/internal/entity"
	"anoa.com/advisoryhub/pkg/apperror"
	"anoa.com/advisoryhub/pkg/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Filter narrows FindAll and CountByStatus. Nil and zero fields do not filter.
type Filter struct {
	StudentID *uuid.UUID
	TeacherID *uuid.UUID
	Status    *entity.Status
	Search    string
	From      *time.Time
	To        *time.Time

	OrderBy   string
	Ascending bool
	Limit     int
	Offset    int
}

// Changes maps column names to their new values for a partial update.
type Changes map[string]any

// Column names accepted by Update.
const (
	ColumnStudentID       = "student_id"
	ColumnTeacherID       = "teacher_id"
	ColumnSubject         = "subject"
	ColumnTopic           = "topic"
	ColumnScheduledAt     = "scheduled_at"
	ColumnDurationMinutes = "duration_minutes"
	ColumnType            = "advisory_type"
	ColumnStatus          = "status"
	ColumnLocation        = "location"
	ColumnNotes           = "notes"
)

var mutableColumns = map[string]bool{
	ColumnStudentID:       true,
	ColumnTeacherID:       true,
	ColumnSubject:         true,
	ColumnTopic:           true,
	ColumnScheduledAt:     true,
	ColumnDurationMinutes: true,
	ColumnType:            true,
	ColumnStatus:          true,
	ColumnLocation:        true,
	ColumnNotes:           true,
}

var orderColumns = map[string]bool{
	"scheduled_at": true,
	"created_at":   true,
	"updated_at":   true,
}

// CheckChanges rejects identity columns and anything not in the mutable set.
func CheckChanges(changes Changes) error {
	for col := range changes {
		switch col {
		case "id", "created_at", "version":
			return apperror.Invalid("%s cannot be modified", col)
		}
		if !mutableColumns[col] {
			return apperror.Invalid("unknown field %q", col)
		}
	}
	return nil
}

type AdvisoryRepository interface {
	Create(ctx context.Context, advisory *entity.Advisory) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Advisory, error)
	FindAll(ctx context.Context, filter Filter) ([]*entity.Advisory, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	CountByStatus(ctx context.Context, filter Filter) (map[entity.Status]int64, error)
	// Update applies changes only if the stored version equals expectedVersion,
	// bumping the version. A mismatch yields apperror.ErrConflict.
	Update(ctx context.Context, id uuid.UUID, expectedVersion int, changes Changes) (*entity.Advisory, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type advisoryRepository struct {
	db *gorm.DB
}

func NewAdvisoryRepository(db *gorm.DB) AdvisoryRepository {
	return &advisoryRepository{db: db}
}

func (r *advisoryRepository) Create(ctx context.Context, advisory *entity.Advisory) error {
	if err := advisory.Validate(); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(advisory).Error; err != nil {
		return fmt.Errorf("create advisory: %w", database.Classify(err))
	}
	return nil
}

func (r *advisoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Advisory, error) {
	var advisory entity.Advisory
	if err := r.db.WithContext(ctx).First(&advisory, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("find advisory %s: %w", id, database.Classify(err))
	}
	return &advisory, nil
}

func (r *advisoryRepository) applyFilter(query *gorm.DB, filter Filter) *gorm.DB {
	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}
	if filter.TeacherID != nil {
		query = query.Where("teacher_id = ?", *filter.TeacherID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Search != "" {
		like := database.ContainsPattern(filter.Search)
		query = query.Where("(subject ILIKE ? OR topic ILIKE ? OR location ILIKE ?)", like, like, like)
	}
	if filter.From != nil {
		query = query.Where("scheduled_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("scheduled_at < ?", *filter.To)
	}
	return query
}

func (r *advisoryRepository) FindAll(ctx context.Context, filter Filter) ([]*entity.Advisory, error) {
	var advisories []*entity.Advisory
	query := r.applyFilter(r.db.WithContext(ctx).Model(&entity.Advisory{}), filter)

	orderBy := "scheduled_at"
	if orderColumns[filter.OrderBy] {
		orderBy = filter.OrderBy
	}
	direction := "DESC"
	if filter.Ascending {
		direction = "ASC"
	}
	query = query.Order(orderBy + " " + direction).Order("id " + direction)

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	if err := query.Find(&advisories).Error; err != nil {
		return nil, fmt.Errorf("list advisories: %w", database.Classify(err))
	}
	return advisories, nil
}

func (r *advisoryRepository) Count(ctx context.Context, filter Filter) (int64, error) {
	var total int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&entity.Advisory{}), filter)
	if err := query.Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count advisories: %w", database.Classify(err))
	}
	return total, nil
}

func (r *advisoryRepository) CountByStatus(ctx context.Context, filter Filter) (map[entity.Status]int64, error) {
	var rows []struct {
		Status entity.Status
		Total  int64
	}
	query := r.applyFilter(r.db.WithContext(ctx).Model(&entity.Advisory{}), filter)
	if err := query.Select("status, COUNT(*) AS total").Group("status").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("count advisories by status: %w", database.Classify(err))
	}

	counts := make(map[entity.Status]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

func (r *advisoryRepository) Update(ctx context.Context, id uuid.UUID, expectedVersion int, changes Changes) (*entity.Advisory, error) {
	if err := CheckChanges(changes); err != nil {
		return nil, err
	}

	updates := make(map[string]any, len(changes)+2)
	for col, val := range changes {
		updates[col] = val
	}
	updates["version"] = gorm.Expr("version + 1")
	updates["updated_at"] = time.Now()

	result := r.db.WithContext(ctx).
		Model(&entity.Advisory{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("update advisory %s: %w", id, database.Classify(result.Error))
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&entity.Advisory{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("update advisory %s: %w", id, database.Classify(err))
		}
		if count == 0 {
			return nil, fmt.Errorf("update advisory %s: %w", id, apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("update advisory %s: version %d is stale: %w", id, expectedVersion, apperror.ErrConflict)
	}

	return r.FindByID(ctx, id)
}

func (r *advisoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&entity.Advisory{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete advisory %s: %w", id, database.Classify(result.Error))
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete advisory %s: %w", id, apperror.ErrNotFound)
	}
	return nil
}
