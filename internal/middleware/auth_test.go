package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/medhq/hospital-api/internal/handler"
	"github.com/medhq/hospital-api/internal/model"
)

type stubResolver struct {
	identity *model.Identity
	err      error
	gotToken string
}

func (s *stubResolver) Resolve(ctx context.Context, token string) (*model.Identity, error) {
	s.gotToken = token
	return s.identity, s.err
}

func setupAuthRouter(resolver *stubResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewAuthMiddleware(resolver).Authenticate())
	r.GET("/whoami", func(c *gin.Context) {
		id := handler.IdentityFrom(c)
		c.JSON(http.StatusOK, gin.H{"email": id.Email})
	})
	return r
}

func TestAuthenticatePassesIdentityThrough(t *testing.T) {
	resolver := &stubResolver{
		identity: &model.Identity{ID: uuid.New(), Email: "staff@example.com", Role: model.RoleStaff},
	}
	r := setupAuthRouter(resolver)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "some-token", resolver.gotToken)
	assert.Contains(t, w.Body.String(), "staff@example.com")
}

func TestAuthenticateRejectsMissingHeader(t *testing.T) {
	r := setupAuthRouter(&stubResolver{})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateRejectsMalformedHeader(t *testing.T) {
	r := setupAuthRouter(&stubResolver{})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Basic abc123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateRejectsRevokedSession(t *testing.T) {
	resolver := &stubResolver{err: errors.New("session revoked or expired")}
	r := setupAuthRouter(resolver)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer stale-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
