package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"anoa.com/advisoryhub/pkg/apperror"
	"anoa.com/advisoryhub/pkg/ratelimiter"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respond(t *testing.T, err error) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	ResponseError(c, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestResponseErrorTransition(t *testing.T) {
	err := fmt.Errorf("update advisory: %w", &apperror.TransitionError{From: "completed", To: "scheduled"})
	w, body := respond(t, err)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "completed", body["current_status"])
	assert.Equal(t, "scheduled", body["attempted_status"])
}

func TestResponseErrorRateLimit(t *testing.T) {
	w, body := respond(t, &ratelimiter.RateLimitError{Message: "slow down", RetryAfter: 42 * time.Second})

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "42", w.Header().Get("Retry-After"))
	assert.Equal(t, "slow down", body["error"])
}

func TestResponseErrorHidesInternals(t *testing.T) {
	w, body := respond(t, fmt.Errorf("pq: password authentication failed"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", body["error"])

	w, body = respond(t, fmt.Errorf("dial tcp: %w", apperror.ErrStorageUnavailable))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "storage unavailable", body["error"])
}

func TestResponseErrorValidation(t *testing.T) {
	w, body := respond(t, apperror.Invalid("subject is required"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid input: subject is required", body["error"])
}

func TestBindErrorMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	BindError(c, &json.SyntaxError{Offset: 3})

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body["error"], "invalid request body")
}
