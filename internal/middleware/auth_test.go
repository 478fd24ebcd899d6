package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func protectedEcho(t *testing.T, gotUserID *uuid.UUID, gotRole *string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*gotUserID = GetUserID(r.Context())
		if role, ok := r.Context().Value(RoleKey).(string); ok {
			*gotRole = role
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	jwtAuth := NewJWTAuth("test-secret")
	userID := uuid.New()

	token, err := jwtAuth.GenerateAccessToken(userID, "editor@example.com", "editor")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	var gotUserID uuid.UUID
	var gotRole string
	handler := jwtAuth.Middleware(protectedEcho(t, &gotUserID, &gotRole))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/drafts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if gotUserID != userID {
		t.Errorf("Expected user id %s in context, got %s", userID, gotUserID)
	}
	if gotRole != "editor" {
		t.Errorf("Expected role 'editor' in context, got %q", gotRole)
	}
}

func TestJWTMiddleware_Rejections(t *testing.T) {
	jwtAuth := NewJWTAuth("test-secret")
	otherAuth := NewJWTAuth("different-secret")
	userID := uuid.New()

	validElsewhere, _ := otherAuth.GenerateAccessToken(userID, "editor@example.com", "editor")

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID.String(),
		"role":    "editor",
		"exp":     time.Now().Add(-time.Hour).Unix(),
		"iat":     time.Now().Add(-2 * time.Hour).Unix(),
	})
	expiredToken, _ := expired.SignedString([]byte("test-secret"))

	tests := []struct {
		name       string
		authHeader string
		wantCode   string
	}{
		{"missing header", "", "UNAUTHORIZED"},
		{"not bearer", "Basic dXNlcjpwYXNz", "UNAUTHORIZED"},
		{"garbage token", "Bearer not-a-jwt", "UNAUTHORIZED"},
		{"wrong secret", "Bearer " + validElsewhere, "UNAUTHORIZED"},
		{"expired token", "Bearer " + expiredToken, "TOKEN_EXPIRED"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := jwtAuth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("Handler must not run for a rejected token")
			}))

			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/drafts", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			handler.ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("Expected 401, got %d", rr.Code)
			}

			var resp struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode error envelope: %v", err)
			}
			if resp.Error.Code != tc.wantCode {
				t.Errorf("Expected code %q, got %q", tc.wantCode, resp.Error.Code)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	jwtAuth := NewJWTAuth("test-secret")

	tests := []struct {
		name     string
		role     string
		wantCode int
	}{
		{"editor allowed", "editor", http.StatusOK},
		{"admin allowed", "admin", http.StatusOK},
		{"viewer forbidden", "viewer", http.StatusForbidden},
		{"no role forbidden", "", http.StatusForbidden},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			token, err := jwtAuth.GenerateAccessToken(uuid.New(), "user@example.com", tc.role)
			if err != nil {
				t.Fatalf("GenerateAccessToken failed: %v", err)
			}

			gate := RequireRole("editor", "admin")
			handler := jwtAuth.Middleware(gate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})))

			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/drafts", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			handler.ServeHTTP(rr, req)

			if rr.Code != tc.wantCode {
				t.Errorf("Expected %d for role %q, got %d", tc.wantCode, tc.role, rr.Code)
			}
		})
	}
}
