package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Subject         string `validate:"required,notblank,max=10"`
	DurationMinutes int    `validate:"quarterhour"`
}

func newValidate(t *testing.T) *validator.Validate {
	v := validator.New()
	require.NoError(t, Register(v))
	return v
}

func TestQuarterHour(t *testing.T) {
	v := newValidate(t)

	assert.NoError(t, v.Struct(sample{Subject: "Math", DurationMinutes: 45}))
	assert.Error(t, v.Struct(sample{Subject: "Math", DurationMinutes: 20}))
	assert.Error(t, v.Struct(sample{Subject: "Math", DurationMinutes: 195}))
	assert.Error(t, v.Struct(sample{Subject: "Math", DurationMinutes: 0}))
}

func TestFormatValidationError(t *testing.T) {
	v := newValidate(t)

	err := v.Struct(sample{Subject: "   ", DurationMinutes: 20})
	require.Error(t, err)

	msg := FormatValidationError(err)
	assert.Contains(t, msg, "subject is required")
	assert.Contains(t, msg, "duration_minutes must be between 15 and 180 minutes in steps of 15")

	err = v.Struct(sample{Subject: "a very long subject", DurationMinutes: 15})
	require.Error(t, err)
	assert.Equal(t, "subject must be at most 10 characters", FormatValidationError(err))
}
