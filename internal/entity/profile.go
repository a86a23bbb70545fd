package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// StudentProfile is owned by the directory; its ID equals the student's user id.
type StudentProfile struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FullName         string    `gorm:"size:100;not null" json:"full_name"`
	EnrollmentNumber string    `gorm:"size:50;uniqueIndex;not null" json:"enrollment_number"`
	Career           string    `gorm:"size:100;not null" json:"career"`
	Semester         int       `gorm:"not null" json:"semester"`
	Phone            *string   `gorm:"size:30" json:"phone,omitempty"`
	Address          *string   `gorm:"type:text" json:"address,omitempty"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TeacherProfile is owned by the directory; its ID equals the teacher's user id.
type TeacherProfile struct {
	ID             uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	FullName       string                      `gorm:"size:100;not null" json:"full_name"`
	EmployeeNumber string                      `gorm:"size:50;uniqueIndex;not null" json:"employee_number"`
	Department     string                      `gorm:"size:100;not null;index" json:"department"`
	Specialties    datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"specialties"`
	AvailableHours datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"available_hours,omitempty"`
	Phone          *string                     `gorm:"size:30" json:"phone,omitempty"`
	Office         *string                     `gorm:"size:100" json:"office,omitempty"`
	CreatedAt      time.Time                   `gorm:"autoCreateTime" json:"created_at"`
}

// HasSpecialty reports whether the teacher lists the given specialty.
func (t *TeacherProfile) HasSpecialty(name string) bool {
	for _, s := range t.Specialties {
		if s == name {
			return true
		}
	}
	return false
}
