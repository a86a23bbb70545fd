package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"anoa.com/advisoryhub/internal/config"
	"anoa.com/advisoryhub/internal/entity"
	"anoa.com/advisoryhub/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Port:            "0",
		AllowedOrigins:  []string{"https://app.example"},
		JWTSecret:       "secret",
		JWTIssuer:       "advisoryhub",
		ShutdownTimeout: time.Second,
	}
	return NewServer(cfg, nil, nil, nil)
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthzWithoutDatabase(t *testing.T) {
	s := newTestServer(t)

	w := serve(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":"disabled"`)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)

	serve(s, httptest.NewRequest(http.MethodGet, "/api/advisories", nil))
	w := serve(s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "advisoryhub_http_requests_total")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/advisories", "/api/advisories/stats", "/api/teachers", "/api/students"} {
		w := serve(s, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	}
}

func TestStudentListRequiresTeacherOrAdmin(t *testing.T) {
	s := newTestServer(t)
	token, err := middleware.IssueToken("secret", "advisoryhub", entity.Actor{ID: uuid.New(), Role: entity.RoleStudent}, time.Hour)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/students", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := serve(s, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/advisories", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	w := serve(s, req)
	assert.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))
}
