package service

import (
	"context"

	"anoa.com/advisoryhub/internal/entity"
	"anoa.com/advisoryhub/internal/modules/advisory/dto"
	"github.com/google/uuid"
)

type participantNames struct {
	student string
	teacher string
}

// names resolves display names. Lookup failures fall back to "Unknown" and never fail the call.
func (s *advisoryService) names(ctx context.Context, advisory *entity.Advisory) participantNames {
	names := participantNames{student: unknownName, teacher: unknownName}
	if student, err := s.directory.GetStudent(ctx, advisory.StudentID); err == nil {
		names.student = student.FullName
	}
	if teacher, err := s.directory.GetTeacher(ctx, advisory.TeacherID); err == nil {
		names.teacher = teacher.FullName
	}
	return names
}

func (s *advisoryService) toResponses(ctx context.Context, advisories []*entity.Advisory) []dto.AdvisoryResponse {
	students := map[uuid.UUID]string{}
	teachers := map[uuid.UUID]string{}

	responses := make([]dto.AdvisoryResponse, 0, len(advisories))
	for _, advisory := range advisories {
		studentName, okStudent := students[advisory.StudentID]
		teacherName, okTeacher := teachers[advisory.TeacherID]
		if !okStudent || !okTeacher {
			names := s.names(ctx, advisory)
			studentName, teacherName = names.student, names.teacher
			students[advisory.StudentID] = studentName
			teachers[advisory.TeacherID] = teacherName
		}
		responses = append(responses, toResponse(advisory, participantNames{student: studentName, teacher: teacherName}))
	}
	return responses
}

func toResponse(advisory *entity.Advisory, names participantNames) dto.AdvisoryResponse {
	return dto.AdvisoryResponse{
		ID:              advisory.ID,
		StudentID:       advisory.StudentID,
		StudentName:     names.student,
		TeacherID:       advisory.TeacherID,
		TeacherName:     names.teacher,
		Subject:         advisory.Subject,
		Topic:           advisory.Topic,
		ScheduledAt:     advisory.ScheduledAt,
		DurationMinutes: advisory.DurationMinutes,
		Type:            string(advisory.Type),
		Status:          string(advisory.Status),
		Location:        advisory.Location,
		Notes:           advisory.Notes,
		Version:         advisory.Version,
		CreatedAt:       advisory.CreatedAt,
		UpdatedAt:       advisory.UpdatedAt,
	}
}
