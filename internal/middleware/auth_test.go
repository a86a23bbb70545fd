package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"anoa.com/advisoryhub/internal/entity"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret"
	testIssuer = "advisoryhub"
)

func newRouter(m *AuthMiddleware) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", m.RequireAuth(), func(c *gin.Context) {
		actor, err := CurrentActor(c)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": actor.ID, "role": actor.Role})
	})
	r.GET("/admin", m.RequireAuth(), m.RequireRole(entity.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func do(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	r := newRouter(NewAuthMiddleware(testSecret, testIssuer))
	student := entity.Actor{ID: uuid.New(), Role: entity.RoleStudent}

	token, err := IssueToken(testSecret, testIssuer, student, time.Hour)
	require.NoError(t, err)

	w := do(r, "/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), student.ID.String())
	assert.Contains(t, w.Body.String(), `"role":"student"`)

	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "garbage").Code)

	wrongKey, err := IssueToken("other-secret", testIssuer, student, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", wrongKey).Code)

	wrongIssuer, err := IssueToken(testSecret, "someone-else", student, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", wrongIssuer).Code)

	expired, err := IssueToken(testSecret, testIssuer, student, -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", expired).Code)
}

func TestRequireAuthRejectsUnknownRole(t *testing.T) {
	r := newRouter(NewAuthMiddleware(testSecret, testIssuer))

	claims := Claims{
		Role: "guru",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", token).Code)
}

func TestRequireRole(t *testing.T) {
	r := newRouter(NewAuthMiddleware(testSecret, testIssuer))

	admin, err := IssueToken(testSecret, testIssuer, entity.Actor{ID: uuid.New(), Role: entity.RoleAdmin}, time.Hour)
	require.NoError(t, err)
	teacher, err := IssueToken(testSecret, testIssuer, entity.Actor{ID: uuid.New(), Role: entity.RoleTeacher}, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusNoContent, do(r, "/admin", admin).Code)
	assert.Equal(t, http.StatusForbidden, do(r, "/admin", teacher).Code)
}
