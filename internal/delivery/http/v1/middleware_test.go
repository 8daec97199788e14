package v1

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/prbyl0809/smart-team-assistant/internal/models"
	"github.com/prbyl0809/smart-team-assistant/internal/services"
)

func newMiddlewareEnv(t *testing.T) (*stubAuthService, *stubUserService, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	auth := &stubAuthService{}
	users := &stubUserService{}
	handler := New(zerolog.Nop(), auth, users, &stubProjectService{}, &stubTaskService{}, &stubCommentService{})

	router := gin.New()
	router.GET("/probe", handler.HandleAuthMiddleware, func(c *gin.Context) {
		userID, _ := c.Get(userIDCtxKey)
		c.String(http.StatusOK, userID.(string))
	})
	return auth, users, router
}

func doProbe(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_Success(t *testing.T) {
	auth, users, router := newMiddlewareEnv(t)
	auth.parseFn = func(token string) (*jwt.RegisteredClaims, error) {
		if token != "good-token" {
			t.Fatalf("unexpected token %q", token)
		}
		return &jwt.RegisteredClaims{Subject: "user-7"}, nil
	}
	users.getByIDFn = func(_ context.Context, userID string) (*models.User, error) {
		return &models.User{ID: userID, Username: "alice", IsActive: true}, nil
	}

	w := doProbe(router, "Bearer good-token")
	assertStatus(t, w, http.StatusOK)
	if w.Body.String() != "user-7" {
		t.Fatalf("expected principal user-7, got %q", w.Body.String())
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	_, _, router := newMiddlewareEnv(t)

	w := doProbe(router, "")
	assertStatus(t, w, http.StatusUnauthorized)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	_, _, router := newMiddlewareEnv(t)

	for _, header := range []string{"good-token", "Basic good-token", "Bearer"} {
		w := doProbe(router, header)
		assertStatus(t, w, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_BadToken(t *testing.T) {
	auth, _, router := newMiddlewareEnv(t)
	auth.parseFn = func(string) (*jwt.RegisteredClaims, error) {
		return nil, errors.New("failed to parse token")
	}

	w := doProbe(router, "Bearer forged")
	assertStatus(t, w, http.StatusUnauthorized)
}

func TestAuthMiddleware_SubjectGone(t *testing.T) {
	auth, users, router := newMiddlewareEnv(t)
	auth.parseFn = func(string) (*jwt.RegisteredClaims, error) {
		return &jwt.RegisteredClaims{Subject: "user-7"}, nil
	}
	users.getByIDFn = func(context.Context, string) (*models.User, error) {
		return nil, services.ErrUserNotFound
	}

	w := doProbe(router, "Bearer good-token")
	assertStatus(t, w, http.StatusUnauthorized)
}

func TestAuthMiddleware_InactiveUser(t *testing.T) {
	auth, users, router := newMiddlewareEnv(t)
	auth.parseFn = func(string) (*jwt.RegisteredClaims, error) {
		return &jwt.RegisteredClaims{Subject: "user-7"}, nil
	}
	users.getByIDFn = func(_ context.Context, userID string) (*models.User, error) {
		return &models.User{ID: userID, IsActive: false}, nil
	}

	w := doProbe(router, "Bearer good-token")
	assertStatus(t, w, http.StatusUnauthorized)
}
