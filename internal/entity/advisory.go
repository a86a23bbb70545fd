package entity

import (
	"strings"
	"time"

	"anoa.com/advisoryhub/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// statusTransitions lists every legal move out of a status. Terminal statuses have no entry.
var statusTransitions = map[Status][]Status{
	StatusScheduled: {StatusCompleted, StatusCancelled},
}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return st, nil
	}
	return "", apperror.Invalid("status must be one of scheduled, completed, cancelled")
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CheckTransition returns a *apperror.TransitionError when moving from s to next
// is not allowed. Re-asserting scheduled on a scheduled record is a no-op.
func (s Status) CheckTransition(next Status) error {
	if s == next && !s.IsTerminal() {
		return nil
	}
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return nil
		}
	}
	return &apperror.TransitionError{From: string(s), To: string(next)}
}

type AdvisoryType string

const (
	AdvisoryIndividual AdvisoryType = "individual"
	AdvisoryGroup      AdvisoryType = "group"
)

func ParseAdvisoryType(s string) (AdvisoryType, error) {
	t := AdvisoryType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case AdvisoryIndividual, AdvisoryGroup:
		return t, nil
	}
	return "", apperror.Invalid("advisory_type must be individual or group")
}

const (
	MinDurationMinutes  = 15
	MaxDurationMinutes  = 180
	DurationStepMinutes = 15
	MaxShortTextLength  = 200
	MaxNotesLength      = 2000
)

// ValidDuration reports whether minutes is within [15,180] and a multiple of 15.
func ValidDuration(minutes int) bool {
	return minutes >= MinDurationMinutes && minutes <= MaxDurationMinutes && minutes%DurationStepMinutes == 0
}

type Advisory struct {
	ID              uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID       uuid.UUID    `gorm:"type:uuid;not null;index" json:"student_id"`
	TeacherID       uuid.UUID    `gorm:"type:uuid;not null;index" json:"teacher_id"`
	Subject         string       `gorm:"size:200;not null" json:"subject"`
	Topic           string       `gorm:"size:200;not null" json:"topic"`
	ScheduledAt     time.Time    `gorm:"type:timestamptz;not null;index" json:"scheduled_at"`
	DurationMinutes int          `gorm:"not null" json:"duration_minutes"`
	Type            AdvisoryType `gorm:"column:advisory_type;size:20;not null" json:"advisory_type"`
	Status          Status       `gorm:"size:20;not null;default:scheduled;index" json:"status"`
	Location        string       `gorm:"size:200;not null" json:"location"`
	Notes           string       `gorm:"type:text" json:"notes"`
	Version         int          `gorm:"not null;default:1" json:"version"`
	CreatedAt       time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

func (a *Advisory) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID, err = uuid.NewV7()
	}
	if a.Status == "" {
		a.Status = StatusScheduled
	}
	if a.Version == 0 {
		a.Version = 1
	}
	return
}

// Validate checks the field constraints every stored advisory must satisfy.
func (a *Advisory) Validate() error {
	if a.StudentID == uuid.Nil {
		return apperror.Invalid("student_id is required")
	}
	if a.TeacherID == uuid.Nil {
		return apperror.Invalid("teacher_id is required")
	}
	if err := requireText("subject", a.Subject, MaxShortTextLength); err != nil {
		return err
	}
	if err := requireText("topic", a.Topic, MaxShortTextLength); err != nil {
		return err
	}
	if err := requireText("location", a.Location, MaxShortTextLength); err != nil {
		return err
	}
	if a.ScheduledAt.IsZero() {
		return apperror.Invalid("scheduled_at is required")
	}
	if !ValidDuration(a.DurationMinutes) {
		return apperror.Invalid("duration_minutes must be between %d and %d in steps of %d",
			MinDurationMinutes, MaxDurationMinutes, DurationStepMinutes)
	}
	if _, err := ParseAdvisoryType(string(a.Type)); err != nil {
		return err
	}
	if _, err := ParseStatus(string(a.Status)); err != nil {
		return err
	}
	if len(a.Notes) > MaxNotesLength {
		return apperror.Invalid("notes must be at most %d characters", MaxNotesLength)
	}
	return nil
}

func requireText(field, value string, max int) error {
	if strings.TrimSpace(value) == "" {
		return apperror.Invalid("%s is required", field)
	}
	if len(value) > max {
		return apperror.Invalid("%s must be at most %d characters", field, max)
	}
	return nil
}
