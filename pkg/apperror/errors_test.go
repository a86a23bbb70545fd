package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", fmt.Errorf("advisory: %w", ErrNotFound), http.StatusNotFound},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", fmt.Errorf("%w: teacher cannot book", ErrForbidden), http.StatusForbidden},
		{"invalid input", Invalid("duration_minutes must be a multiple of 15"), http.StatusBadRequest},
		{"bad request", fmt.Errorf("%w: unexpected EOF", ErrBadRequest), http.StatusBadRequest},
		{"transition", &TransitionError{From: "cancelled", To: "completed"}, http.StatusConflict},
		{"conflict", ErrConflict, http.StatusConflict},
		{"rate limit", ErrRateLimitExceeded, http.StatusTooManyRequests},
		{"storage", fmt.Errorf("find advisory: %w", ErrStorageUnavailable), http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MapErrorToStatus(tc.err))
		})
	}
}

func TestTransitionError(t *testing.T) {
	err := fmt.Errorf("update advisory: %w", &TransitionError{From: "completed", To: "scheduled"})

	assert.True(t, errors.Is(err, ErrIllegalTransition))
	assert.False(t, errors.Is(err, ErrConflict))

	var te *TransitionError
	assert.True(t, errors.As(err, &te))
	assert.Equal(t, "completed", te.From)
	assert.Equal(t, "scheduled", te.To)
	assert.Contains(t, err.Error(), "from completed to scheduled")
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(fmt.Errorf("x: %w", ErrStorageUnavailable)))
	assert.True(t, IsRetryable(ErrConflict))
	assert.False(t, IsRetryable(ErrInvalidInput))
	assert.False(t, IsRetryable(&TransitionError{From: "cancelled", To: "cancelled"}))
}
