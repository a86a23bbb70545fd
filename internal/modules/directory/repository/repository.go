package repository

import (
	"context"
	"fmt"

	"anoa.com/advisoryhub/internal/entity"
	"anoa.com/advisoryhub/pkg/database"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type StudentFilter struct {
	Search   string
	Career   string
	Semester int
}

type TeacherFilter struct {
	Search     string
	Department string
	Specialty  string
}

// DirectoryRepository reads student and teacher profiles. The directory is
// read-only for this service; profiles are written by the seed only.
type DirectoryRepository interface {
	FindStudentByID(ctx context.Context, id uuid.UUID) (*entity.StudentProfile, error)
	FindTeacherByID(ctx context.Context, id uuid.UUID) (*entity.TeacherProfile, error)
	FindAllStudents(ctx context.Context, filter StudentFilter) ([]*entity.StudentProfile, error)
	FindAllTeachers(ctx context.Context, filter TeacherFilter) ([]*entity.TeacherProfile, error)
}

type directoryRepository struct {
	db *gorm.DB
}

func NewDirectoryRepository(db *gorm.DB) DirectoryRepository {
	return &directoryRepository{db: db}
}

func (r *directoryRepository) FindStudentByID(ctx context.Context, id uuid.UUID) (*entity.StudentProfile, error) {
	var student entity.StudentProfile
	if err := r.db.WithContext(ctx).First(&student, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("find student %s: %w", id, database.Classify(err))
	}
	return &student, nil
}

func (r *directoryRepository) FindTeacherByID(ctx context.Context, id uuid.UUID) (*entity.TeacherProfile, error) {
	var teacher entity.TeacherProfile
	if err := r.db.WithContext(ctx).First(&teacher, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("find teacher %s: %w", id, database.Classify(err))
	}
	return &teacher, nil
}

func (r *directoryRepository) FindAllStudents(ctx context.Context, filter StudentFilter) ([]*entity.StudentProfile, error) {
	var students []*entity.StudentProfile
	query := r.db.WithContext(ctx)

	if filter.Search != "" {
		like := database.ContainsPattern(filter.Search)
		query = query.Where("(full_name ILIKE ? OR enrollment_number ILIKE ?)", like, like)
	}
	if filter.Career != "" {
		query = query.Where("career = ?", filter.Career)
	}
	if filter.Semester > 0 {
		query = query.Where("semester = ?", filter.Semester)
	}

	if err := query.Order("full_name ASC").Find(&students).Error; err != nil {
		return nil, fmt.Errorf("list students: %w", database.Classify(err))
	}
	return students, nil
}

func (r *directoryRepository) FindAllTeachers(ctx context.Context, filter TeacherFilter) ([]*entity.TeacherProfile, error) {
	var teachers []*entity.TeacherProfile
	query := r.db.WithContext(ctx)

	if filter.Search != "" {
		like := database.ContainsPattern(filter.Search)
		query = query.Where("(full_name ILIKE ? OR department ILIKE ?)", like, like)
	}
	if filter.Department != "" {
		query = query.Where("department = ?", filter.Department)
	}
	if filter.Specialty != "" {
		query = query.Where("specialties @> ?", datatypes.JSONSlice[string]{filter.Specialty})
	}

	if err := query.Order("full_name ASC").Find(&teachers).Error; err != nil {
		return nil, fmt.Errorf("list teachers: %w", database.Classify(err))
	}
	return teachers, nil
}
