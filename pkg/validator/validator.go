package validator

import (
	"errors"
	"fmt"
	"strings"

	"anoa.com/advisoryhub/internal/entity"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register installs the custom tags used by request DTOs.
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation("quarterhour", validateQuarterHour); err != nil {
		return err
	}
	return v.RegisterValidation("notblank", validateNotBlank)
}

// RegisterGin installs the custom tags on gin's default binding engine.
func RegisterGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not go-playground/validator")
	}
	return Register(v)
}

func validateQuarterHour(fl validator.FieldLevel) bool {
	return entity.ValidDuration(int(fl.Field().Int()))
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func FormatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var messages []string
		for _, fieldError := range validationErrors {
			messages = append(messages, getFieldErrorMessage(fieldError))
		}
		return strings.Join(messages, "; ")
	}
	return err.Error()
}

func getFieldErrorMessage(fe validator.FieldError) string {
	field := getFieldName(fe.Field())

	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", field)
	case "uuid", "uuid4":
		return fmt.Sprintf("%s must be a valid uuid", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "quarterhour":
		return fmt.Sprintf("%s must be between %d and %d minutes in steps of %d",
			field, entity.MinDurationMinutes, entity.MaxDurationMinutes, entity.DurationStepMinutes)
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func getFieldName(field string) string {
	fieldNames := map[string]string{
		"StudentID":       "student_id",
		"TeacherID":       "teacher_id",
		"Subject":         "subject",
		"Topic":           "topic",
		"ScheduledAt":     "scheduled_at",
		"DurationMinutes": "duration_minutes",
		"Type":            "advisory_type",
		"Status":          "status",
		"Location":        "location",
		"Notes":           "notes",
		"Page":            "page",
		"Limit":           "limit",
	}

	if name, ok := fieldNames[field]; ok {
		return name
	}
	return field
}
