package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"anoa.com/advisoryhub/internal/entity"
	"anoa.com/advisoryhub/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const actorKey = "actor"

// Claims is the token payload issued by the identity provider: the subject is
// the user id and Role one of student, teacher, admin.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type AuthMiddleware struct {
	secret string
	issuer string
}

func NewAuthMiddleware(secret, issuer string) *AuthMiddleware {
	return &AuthMiddleware{
		secret: secret,
		issuer: issuer,
	}
}

// IssueToken signs a token for the given actor. Used by the dev token tool and tests.
func IssueToken(secret, issuer string, actor entity.Actor, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: actor.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   actor.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func (m *AuthMiddleware) parse(tokenString string) (entity.Actor, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	}, opts...)
	if err != nil || !token.Valid {
		return entity.Actor{}, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return entity.Actor{}, errors.New("invalid token claims")
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return entity.Actor{}, errors.New("invalid token subject")
	}
	role, err := entity.ParseRole(claims.Role)
	if err != nil {
		return entity.Actor{}, errors.New("invalid token role")
	}

	return entity.Actor{ID: id, Role: role}, nil
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")

		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}

		actor, err := m.parse(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// RequireRole rejects authenticated callers whose role is not listed.
func (m *AuthMiddleware) RequireRole(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := CurrentActor(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			return
		}

		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
	}
}

// CurrentActor returns the caller resolved by RequireAuth.
func CurrentActor(c *gin.Context) (entity.Actor, error) {
	v, exists := c.Get(actorKey)
	if !exists {
		return entity.Actor{}, apperror.ErrUnauthorized
	}
	actor, ok := v.(entity.Actor)
	if !ok {
		return entity.Actor{}, apperror.ErrUnauthorized
	}
	return actor, nil
}

// SetActor stores an actor on the context, for handler tests that skip RequireAuth.
func SetActor(c *gin.Context, actor entity.Actor) {
	c.Set(actorKey, actor)
}
