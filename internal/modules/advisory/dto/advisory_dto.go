package dto

import (
	"encoding/json"
	"time"

	commonDto "anoa.com/advisoryhub/pkg/dto"
	"github.com/google/uuid"
)

// CreateAdvisoryRequest is the booking input. StudentID is ignored for students,
// who always book for themselves, and required for admins.
type CreateAdvisoryRequest struct {
	StudentID       *uuid.UUID `json:"student_id"`
	TeacherID       uuid.UUID  `json:"teacher_id" binding:"required"`
	Subject         string     `json:"subject" binding:"required,notblank,max=200"`
	Topic           string     `json:"topic" binding:"required,notblank,max=200"`
	ScheduledAt     time.Time  `json:"scheduled_at" binding:"required"`
	DurationMinutes int        `json:"duration_minutes" binding:"required,quarterhour"`
	Type            string     `json:"advisory_type" binding:"required,oneof=individual group"`
	Location        string     `json:"location" binding:"required,notblank,max=200"`
	Notes           string     `json:"notes" binding:"max=2000"`
}

// UpdateAdvisoryRequest is a partial update: nil fields are left unchanged.
// ID and CreatedAt exist only so that attempts to change them can be rejected.
type UpdateAdvisoryRequest struct {
	ID              json.RawMessage `json:"id,omitempty"`
	CreatedAt       json.RawMessage `json:"created_at,omitempty"`
	StudentID       *uuid.UUID      `json:"student_id"`
	TeacherID       *uuid.UUID      `json:"teacher_id"`
	Subject         *string         `json:"subject" binding:"omitempty,max=200"`
	Topic           *string         `json:"topic" binding:"omitempty,max=200"`
	ScheduledAt     *time.Time      `json:"scheduled_at"`
	DurationMinutes *int            `json:"duration_minutes"`
	Type            *string         `json:"advisory_type"`
	Status          *string         `json:"status"`
	Location        *string         `json:"location" binding:"omitempty,max=200"`
	Notes           *string         `json:"notes" binding:"omitempty,max=2000"`
	Version         *int            `json:"version"`
}

type AdvisoryResponse struct {
	ID              uuid.UUID `json:"id"`
	StudentID       uuid.UUID `json:"student_id"`
	StudentName     string    `json:"student_name"`
	TeacherID       uuid.UUID `json:"teacher_id"`
	TeacherName     string    `json:"teacher_name"`
	Subject         string    `json:"subject"`
	Topic           string    `json:"topic"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Type            string    `json:"advisory_type"`
	Status          string    `json:"status"`
	Location        string    `json:"location"`
	Notes           string    `json:"notes"`
	Version         int       `json:"version"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type AdvisoryFilter struct {
	Status string     `form:"status" binding:"omitempty,oneof=scheduled completed cancelled"`
	Search string     `form:"search" binding:"omitempty,max=200"`
	From   *time.Time `form:"from"`
	To     *time.Time `form:"to"`
	Sort   string     `form:"sort" binding:"omitempty,oneof=scheduled_at created_at updated_at"`
	Order  string     `form:"order" binding:"omitempty,oneof=asc desc"`
	commonDto.PageQuery
}

type PaginatedAdvisoryResponse struct {
	Data []AdvisoryResponse       `json:"data"`
	Meta commonDto.PaginationMeta `json:"meta"`
}

type SearchAdvisoryRequest struct {
	Query string `form:"q" binding:"required,max=200"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=50"`
}

type AdvisoryStats struct {
	Total     int64 `json:"total"`
	Scheduled int64 `json:"scheduled"`
	Completed int64 `json:"completed"`
	Cancelled int64 `json:"cancelled"`
	Upcoming  int64 `json:"upcoming"`
}
