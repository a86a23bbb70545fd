package dto

import (
	"github.com/google/uuid"
)

type StudentFilter struct {
	Search   string `form:"search" binding:"omitempty,max=100"`
	Career   string `form:"career" binding:"omitempty,max=100"`
	Semester int    `form:"semester" binding:"omitempty,min=1,max=20"`
}

type TeacherFilter struct {
	Search     string `form:"search" binding:"omitempty,max=100"`
	Department string `form:"department" binding:"omitempty,max=100"`
	Specialty  string `form:"specialty" binding:"omitempty,max=100"`
}

type StudentResponse struct {
	ID               uuid.UUID `json:"id"`
	FullName         string    `json:"full_name"`
	EnrollmentNumber string    `json:"enrollment_number"`
	Career           string    `json:"career"`
	Semester         int       `json:"semester"`
	Phone            *string   `json:"phone,omitempty"`
	Address          *string   `json:"address,omitempty"`
}

type TeacherResponse struct {
	ID             uuid.UUID `json:"id"`
	FullName       string    `json:"full_name"`
	EmployeeNumber string    `json:"employee_number"`
	Department     string    `json:"department"`
	Specialties    []string  `json:"specialties"`
	AvailableHours []string  `json:"available_hours"`
	Phone          *string   `json:"phone,omitempty"`
	Office         *string   `json:"office,omitempty"`
}
