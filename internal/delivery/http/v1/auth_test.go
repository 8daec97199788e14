package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/prbyl0809/smart-team-assistant/internal/services"
)

func TestHandleLogin_Success(t *testing.T) {
	env := newTestEnv(t)
	env.auth.loginFn = func(_ context.Context, params services.LoginParams) (*services.LoginResult, error) {
		if params.Username != "alice" || params.Password != "supersecret" {
			t.Fatalf("unexpected params: %+v", params)
		}
		return &services.LoginResult{
			UserID:               "user-1",
			AccessToken:          "signed-token",
			AccessTokenExpiresAt: time.Now().Add(time.Hour),
		}, nil
	}

	w := env.do(t, http.MethodPost, "/auth/login",
		`{"username":"alice","password":"supersecret"}`)
	assertStatus(t, w, http.StatusOK)

	var resp loginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.AccessToken != "signed-token" {
		t.Fatalf("unexpected access token %q", resp.AccessToken)
	}
	if resp.TokenType != "bearer" {
		t.Fatalf("expected token type bearer, got %q", resp.TokenType)
	}
}

func TestHandleLogin_BadCredentials(t *testing.T) {
	// An unknown username and a wrong password produce the same
	// response.
	for _, err := range []error{services.ErrUserNotFound, services.ErrUserPasswordMismatch} {
		env := newTestEnv(t)
		loginErr := err
		env.auth.loginFn = func(context.Context, services.LoginParams) (*services.LoginResult, error) {
			return nil, loginErr
		}

		w := env.do(t, http.MethodPost, "/auth/login",
			`{"username":"alice","password":"wrong"}`)
		assertStatus(t, w, http.StatusUnauthorized)
		assertErrorMessage(t, w, "Invalid credentials")
	}
}

func TestHandleLogin_InvalidPayload(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/auth/login", `{"username":"alice"}`)
	assertStatus(t, w, http.StatusBadRequest)
}
