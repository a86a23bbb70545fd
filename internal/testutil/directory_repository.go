package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"anoa.com/advisoryhub/internal/entity"
	"anoa.com/advisoryhub/internal/modules/directory/repository"
	"anoa.com/advisoryhub/pkg/apperror"
	"github.com/google/uuid"
)

type FakeDirectoryRepository struct {
	mu       sync.Mutex
	students map[uuid.UUID]entity.StudentProfile
	teachers map[uuid.UUID]entity.TeacherProfile

	StudentLookups int
	TeacherLookups int
}

var _ repository.DirectoryRepository = (*FakeDirectoryRepository)(nil)

func NewFakeDirectoryRepository() *FakeDirectoryRepository {
	return &FakeDirectoryRepository{
		students: make(map[uuid.UUID]entity.StudentProfile),
		teachers: make(map[uuid.UUID]entity.TeacherProfile),
	}
}

// AddStudent stores a student profile with the given name and returns its id.
func (f *FakeDirectoryRepository) AddStudent(name string) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.students[id] = entity.StudentProfile{
		ID:               id,
		FullName:         name,
		EnrollmentNumber: fmt.Sprintf("A%05d", len(f.students)+1),
		Career:           "Systems Engineering",
		Semester:         3,
	}
	return id
}

// AddTeacher stores a teacher profile with the given name and returns its id.
func (f *FakeDirectoryRepository) AddTeacher(name, department string, specialties ...string) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.teachers[id] = entity.TeacherProfile{
		ID:             id,
		FullName:       name,
		EmployeeNumber: fmt.Sprintf("E%05d", len(f.teachers)+1),
		Department:     department,
		Specialties:    specialties,
	}
	return id
}

func (f *FakeDirectoryRepository) FindStudentByID(_ context.Context, id uuid.UUID) (*entity.StudentProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.StudentLookups++
	s, ok := f.students[id]
	if !ok {
		return nil, fmt.Errorf("find student %s: %w", id, apperror.ErrNotFound)
	}
	return &s, nil
}

func (f *FakeDirectoryRepository) FindTeacherByID(_ context.Context, id uuid.UUID) (*entity.TeacherProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.TeacherLookups++
	t, ok := f.teachers[id]
	if !ok {
		return nil, fmt.Errorf("find teacher %s: %w", id, apperror.ErrNotFound)
	}
	return &t, nil
}

func (f *FakeDirectoryRepository) FindAllStudents(_ context.Context, filter repository.StudentFilter) ([]*entity.StudentProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.StudentProfile
	for _, s := range f.students {
		if filter.Search != "" && !containsFold(s.FullName, filter.Search) && !containsFold(s.EnrollmentNumber, filter.Search) {
			continue
		}
		if filter.Career != "" && s.Career != filter.Career {
			continue
		}
		if filter.Semester > 0 && s.Semester != filter.Semester {
			continue
		}
		s := s
		out = append(out, &s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (f *FakeDirectoryRepository) FindAllTeachers(_ context.Context, filter repository.TeacherFilter) ([]*entity.TeacherProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.TeacherProfile
	for _, t := range f.teachers {
		if filter.Search != "" && !containsFold(t.FullName, filter.Search) && !containsFold(t.Department, filter.Search) {
			continue
		}
		if filter.Department != "" && t.Department != filter.Department {
			continue
		}
		if filter.Specialty != "" && !t.HasSpecialty(filter.Specialty) {
			continue
		}
		t := t
		out = append(out, &t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
