package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/dikshitechnologies/LoyaltyPoints-sub000/cqrs"
)

// ---- mock implementations ----

type mockAuthQuerier struct {
	loginFn   func(cqrs.LoginCommand) (string, error)
	refreshFn func(cqrs.RefreshTokenCommand) (string, error)
}

func (m *mockAuthQuerier) Login(cmd cqrs.LoginCommand) (string, error) {
	if m.loginFn != nil {
		return m.loginFn(cmd)
	}
	return "", fmt.Errorf("not configured")
}

func (m *mockAuthQuerier) RefreshToken(cmd cqrs.RefreshTokenCommand) (string, error) {
	if m.refreshFn != nil {
		return m.refreshFn(cmd)
	}
	return "", fmt.Errorf("not configured")
}

// ---- helpers ----

func newAuthTestRouter(qrys AuthQuerier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAuthHandler(qrys)
	r.POST("/v1/auth/login", h.Login)
	r.POST("/v1/auth/refresh", h.Refresh)
	return r
}

// ---- tests ----

func TestLogin(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		loginFn        func(cqrs.LoginCommand) (string, error)
		expectedStatus int
	}{
		{
			name:           "success",
			body:           map[string]string{"deviceId": "pos-terminal-1", "passcode": "4912"},
			loginFn:        func(cmd cqrs.LoginCommand) (string, error) { return "signed.jwt.token", nil },
			expectedStatus: http.StatusOK,
		},
		{
			name:           "wrong passcode maps to 401",
			body:           map[string]string{"deviceId": "pos-terminal-1", "passcode": "0000"},
			loginFn:        func(cmd cqrs.LoginCommand) (string, error) { return "", fmt.Errorf("passcode mismatch") },
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "missing device id",
			body:           map[string]string{"passcode": "4912"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing passcode",
			body:           map[string]string{"deviceId": "pos-terminal-1"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAuthTestRouter(&mockAuthQuerier{loginFn: tt.loginFn})
			w := pointsDoRequest(router, "POST", "/v1/auth/login", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d (body: %s)", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestLoginReturnsToken(t *testing.T) {
	router := newAuthTestRouter(&mockAuthQuerier{
		loginFn: func(cmd cqrs.LoginCommand) (string, error) { return "signed.jwt.token", nil },
	})

	w := pointsDoRequest(router, "POST", "/v1/auth/login", map[string]string{"deviceId": "pos-terminal-1", "passcode": "4912"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp TokenResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Token != "signed.jwt.token" {
		t.Errorf("expected token in response, got %q", resp.Token)
	}
}

func TestRefresh(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		refreshFn      func(cqrs.RefreshTokenCommand) (string, error)
		expectedStatus int
	}{
		{
			name:           "success",
			body:           map[string]string{"token": "old.jwt.token"},
			refreshFn:      func(cmd cqrs.RefreshTokenCommand) (string, error) { return "new.jwt.token", nil },
			expectedStatus: http.StatusOK,
		},
		{
			name:           "expired token maps to 401",
			body:           map[string]string{"token": "stale.jwt.token"},
			refreshFn:      func(cmd cqrs.RefreshTokenCommand) (string, error) { return "", fmt.Errorf("token expired") },
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "missing token",
			body:           map[string]string{},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAuthTestRouter(&mockAuthQuerier{refreshFn: tt.refreshFn})
			w := pointsDoRequest(router, "POST", "/v1/auth/refresh", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d (body: %s)", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}
