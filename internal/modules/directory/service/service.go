package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"anoa.com/advisoryhub/internal/entity"
	"anoa.com/advisoryhub/internal/modules/directory/dto"
	"anoa.com/advisoryhub/internal/modules/directory/repository"
	"anoa.com/advisoryhub/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type DirectoryService interface {
	// GetStudent and GetTeacher resolve profiles for referential checks and display.
	GetStudent(ctx context.Context, id uuid.UUID) (*entity.StudentProfile, error)
	GetTeacher(ctx context.Context, id uuid.UUID) (*entity.TeacherProfile, error)

	ListStudents(ctx context.Context, actor entity.Actor, filter dto.StudentFilter) ([]dto.StudentResponse, error)
	ViewStudent(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.StudentResponse, error)
	ListTeachers(ctx context.Context, filter dto.TeacherFilter) ([]dto.TeacherResponse, error)
	ViewTeacher(ctx context.Context, id uuid.UUID) (*dto.TeacherResponse, error)
}

type directoryService struct {
	repo        repository.DirectoryRepository
	redisClient *redis.Client
	cacheTTL    time.Duration
}

// NewDirectoryService caches single-profile lookups in redis when a client is
// given and cacheTTL is positive.
func NewDirectoryService(repo repository.DirectoryRepository, redisClient *redis.Client, cacheTTL time.Duration) DirectoryService {
	return &directoryService{repo: repo, redisClient: redisClient, cacheTTL: cacheTTL}
}

func (s *directoryService) cacheEnabled() bool {
	return s.redisClient != nil && s.cacheTTL > 0
}

func studentKey(id uuid.UUID) string { return fmt.Sprintf("directory:student:%s", id) }
func teacherKey(id uuid.UUID) string { return fmt.Sprintf("directory:teacher:%s", id) }

// fromCache reports whether dst was filled from redis. Cache failures count as misses.
func (s *directoryService) fromCache(ctx context.Context, key string, dst any) bool {
	if !s.cacheEnabled() {
		return false
	}
	raw, err := s.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("directory cache get %s: %v", key, err)
		}
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

func (s *directoryService) toCache(ctx context.Context, key string, v any) {
	if !s.cacheEnabled() {
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.redisClient.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
		log.Printf("directory cache set %s: %v", key, err)
	}
}

func (s *directoryService) GetStudent(ctx context.Context, id uuid.UUID) (*entity.StudentProfile, error) {
	var cached entity.StudentProfile
	if s.fromCache(ctx, studentKey(id), &cached) {
		return &cached, nil
	}

	student, err := s.repo.FindStudentByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, fmt.Errorf("student %s: %w", id, apperror.ErrNotFound)
		}
		return nil, err
	}
	s.toCache(ctx, studentKey(id), student)
	return student, nil
}

func (s *directoryService) GetTeacher(ctx context.Context, id uuid.UUID) (*entity.TeacherProfile, error) {
	var cached entity.TeacherProfile
	if s.fromCache(ctx, teacherKey(id), &cached) {
		return &cached, nil
	}

	teacher, err := s.repo.FindTeacherByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, fmt.Errorf("teacher %s: %w", id, apperror.ErrNotFound)
		}
		return nil, err
	}
	s.toCache(ctx, teacherKey(id), teacher)
	return teacher, nil
}

func (s *directoryService) ListStudents(ctx context.Context, actor entity.Actor, filter dto.StudentFilter) ([]dto.StudentResponse, error) {
	if actor.Role != entity.RoleTeacher && actor.Role != entity.RoleAdmin {
		return nil, fmt.Errorf("%w: only teachers and admins can list students", apperror.ErrForbidden)
	}

	students, err := s.repo.FindAllStudents(ctx, repository.StudentFilter{
		Search:   filter.Search,
		Career:   filter.Career,
		Semester: filter.Semester,
	})
	if err != nil {
		return nil, err
	}

	responses := make([]dto.StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, toStudentResponse(student))
	}
	return responses, nil
}

func (s *directoryService) ViewStudent(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.StudentResponse, error) {
	if actor.Role == entity.RoleStudent && actor.ID != id {
		return nil, fmt.Errorf("%w: students can only view their own profile", apperror.ErrForbidden)
	}

	student, err := s.GetStudent(ctx, id)
	if err != nil {
		return nil, err
	}
	res := toStudentResponse(student)
	return &res, nil
}

func (s *directoryService) ListTeachers(ctx context.Context, filter dto.TeacherFilter) ([]dto.TeacherResponse, error) {
	teachers, err := s.repo.FindAllTeachers(ctx, repository.TeacherFilter{
		Search:     filter.Search,
		Department: filter.Department,
		Specialty:  filter.Specialty,
	})
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TeacherResponse, 0, len(teachers))
	for _, teacher := range teachers {
		responses = append(responses, toTeacherResponse(teacher))
	}
	return responses, nil
}

func (s *directoryService) ViewTeacher(ctx context.Context, id uuid.UUID) (*dto.TeacherResponse, error) {
	teacher, err := s.GetTeacher(ctx, id)
	if err != nil {
		return nil, err
	}
	res := toTeacherResponse(teacher)
	return &res, nil
}

func toStudentResponse(student *entity.StudentProfile) dto.StudentResponse {
	return dto.StudentResponse{
		ID:               student.ID,
		FullName:         student.FullName,
		EnrollmentNumber: student.EnrollmentNumber,
		Career:           student.Career,
		Semester:         student.Semester,
		Phone:            student.Phone,
		Address:          student.Address,
	}
}

func toTeacherResponse(teacher *entity.TeacherProfile) dto.TeacherResponse {
	specialties := []string(teacher.Specialties)
	if specialties == nil {
		specialties = []string{}
	}
	hours := []string(teacher.AvailableHours)
	if hours == nil {
		hours = []string{}
	}
	return dto.TeacherResponse{
		ID:             teacher.ID,
		FullName:       teacher.FullName,
		EmployeeNumber: teacher.EmployeeNumber,
		Department:     teacher.Department,
		Specialties:    specialties,
		AvailableHours: hours,
		Phone:          teacher.Phone,
		Office:         teacher.Office,
	}
}
