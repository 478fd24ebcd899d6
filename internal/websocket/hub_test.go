package websocket

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"cryptoguides-backend/internal/middleware"
)

func TestAuthenticate_ValidToken(t *testing.T) {
	hub := NewHub(nil, "test-secret")
	userID := uuid.New()

	token, err := middleware.NewJWTAuth("test-secret").GenerateAccessToken(userID, "editor@example.com", "editor")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ws?token="+token, nil)
	got, ok := hub.authenticate(req)
	if !ok {
		t.Fatal("Expected authentication to succeed")
	}
	if got != userID {
		t.Errorf("Expected user id %s, got %s", userID, got)
	}
}

func TestAuthenticate_Rejections(t *testing.T) {
	hub := NewHub(nil, "test-secret")

	elsewhere, _ := middleware.NewJWTAuth("different-secret").GenerateAccessToken(uuid.New(), "editor@example.com", "editor")

	badSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "not-a-uuid",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	badSubjectToken, _ := badSubject.SignedString([]byte("test-secret"))

	tests := []struct {
		name  string
		query string
	}{
		{"missing token", ""},
		{"garbage token", "?token=not-a-jwt"},
		{"wrong secret", "?token=" + elsewhere},
		{"non-uuid subject", "?token=" + badSubjectToken},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/ws"+tc.query, nil)
			if _, ok := hub.authenticate(req); ok {
				t.Error("Expected authentication to fail")
			}
		})
	}
}
