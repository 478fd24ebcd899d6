package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"cryptoguides-backend/internal/guide"
	"cryptoguides-backend/internal/models"
	"cryptoguides-backend/internal/search"
	"cryptoguides-backend/internal/services"
)

// ─── Error Mapping Tests ───

func TestHandleServiceError_Mapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"missing credential", services.ErrMissingCredential, http.StatusBadGateway, "MISSING_CREDENTIAL"},
		{"wrapped missing credential", errors.New("plain"), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"not found", &services.NotFoundError{Message: "guide x not found"}, http.StatusNotFound, "NOT_FOUND"},
		{"remote rejection", &services.RemoteError{Status: 503}, http.StatusBadGateway, "REMOTE_ERROR"},
		{"transport failure", &services.TransportError{Err: errors.New("dial tcp: refused")}, http.StatusBadGateway, "TRANSPORT_ERROR"},
		{"malformed response", &services.MalformedResponseError{Reason: "no body"}, http.StatusBadGateway, "MALFORMED_RESPONSE"},
		{"malformed guide", &guide.MalformedDocumentError{Reason: "quiz has no questions"}, http.StatusUnprocessableEntity, "MALFORMED_GUIDE"},
		{"validation", &services.ValidationError{Fields: map[string]string{"url": "bad"}}, http.StatusBadRequest, "VALIDATION_ERROR"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("X-Request-ID", "req-123")

			handleServiceError(rr, req, tc.err)

			if rr.Code != tc.wantStatus {
				t.Errorf("Expected status %d, got %d", tc.wantStatus, rr.Code)
			}

			var resp models.ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode error envelope: %v", err)
			}
			if resp.Error.Code != tc.wantCode {
				t.Errorf("Expected code %q, got %q", tc.wantCode, resp.Error.Code)
			}
			if resp.Error.RequestID != "req-123" {
				t.Errorf("Expected request ID echoed, got %q", resp.Error.RequestID)
			}
		})
	}
}

func TestHandleSessionError_Mapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"element not attached", guide.ErrElementNotAttached, http.StatusNotFound},
		{"index out of range", guide.ErrIndexOutOfRange, http.StatusBadRequest},
		{"unknown field", guide.ErrUnknownField, http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", nil)

			handleSessionError(rr, req, tc.err)

			if rr.Code != tc.wantStatus {
				t.Errorf("Expected status %d, got %d", tc.wantStatus, rr.Code)
			}
		})
	}
}

// ─── Search Handler Tests ───

func TestSearchHandler(t *testing.T) {
	idx, err := search.OpenInMemory()
	if err != nil {
		t.Fatalf("Failed to open index: %v", err)
	}
	defer idx.Close()

	doc := guide.Assemble(guide.NewSession())
	doc.Slug = "bitcoin-basics"
	doc.Title = "Bitcoin Basics"
	doc.Sections = []guide.DocumentSection{
		{ID: "section-1", Title: "Mining", Content: "Proof of work and difficulty adjustment"},
	}
	if err := idx.IndexDocument(doc); err != nil {
		t.Fatalf("Failed to index: %v", err)
	}

	handler := NewSearchHandler(idx)

	t.Run("finds indexed guide", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=difficulty", nil)

		handler.Search(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
		}

		var resp struct {
			Results []struct {
				Slug string `json:"Slug"`
			} `json:"results"`
		}
		if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(resp.Results) != 1 || resp.Results[0].Slug != "bitcoin-basics" {
			t.Errorf("Expected one 'bitcoin-basics' hit, got %+v", resp.Results)
		}
	})

	t.Run("missing query", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/search", nil)

		handler.Search(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 without q, got %d", rr.Code)
		}
	})

	t.Run("rejects out-of-range limit", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=mining&limit=500", nil)

		handler.Search(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for limit 500, got %d", rr.Code)
		}
	})
}

// ─── Video Handler Tests ───

func TestVideoHandler_RejectsNonYouTubeURL(t *testing.T) {
	handler := NewVideoHandler(services.NewVideoService())

	tests := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"not a url", `{"url":"hello"}`},
		{"wrong host", `{"url":"https://vimeo.com/12345"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/videos/validate", bytes.NewReader([]byte(tc.body)))
			req.Header.Set("Content-Type", "application/json")

			handler.Validate(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", rr.Code)
			}
		})
	}
}

// ─── Image Handler Tests ───

func TestImageHandler_UploadValidation(t *testing.T) {
	// Validation failures return before the uploader or publisher are touched.
	handler := NewImageHandler(nil, nil)

	tests := []struct {
		name string
		body string
	}{
		{"neither url nor image", `{}`},
		{"image not base64", `{"image":"***not-base64***","file_type":"png"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/images/upload", bytes.NewReader([]byte(tc.body)))
			req.Header.Set("Content-Type", "application/json")

			handler.Upload(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", rr.Code)
			}
		})
	}
}

// ─── Session Decoding Tests ───

func TestDecodeSession_RoundTrip(t *testing.T) {
	session := guide.NewSession()
	title, _ := json.Marshal("Layer 2 Rollups")
	if err := session.SetField("title", title); err != nil {
		t.Fatalf("SetField failed: %v", err)
	}
	session.AddSection()
	if _, err := session.Attach(guide.KindQuiz, 0); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}

	state, err := json.Marshal(session)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	decoded, err := decodeSession(&models.Draft{State: state})
	if err != nil {
		t.Fatalf("decodeSession failed: %v", err)
	}
	if decoded.Meta.Title != "Layer 2 Rollups" {
		t.Errorf("Expected title preserved, got %q", decoded.Meta.Title)
	}
	if decoded.Meta.Slug != "layer-2-rollups" {
		t.Errorf("Expected derived slug, got %q", decoded.Meta.Slug)
	}
	if _, ok := decoded.Elements[guide.KindQuiz]; !ok {
		t.Error("Expected quiz element to survive the round trip")
	}
}

func TestDecodeSession_EmptyState(t *testing.T) {
	decoded, err := decodeSession(&models.Draft{State: nil})
	if err != nil {
		t.Fatalf("decodeSession failed: %v", err)
	}
	if decoded.Elements == nil {
		t.Error("Expected non-nil element registry for an empty draft")
	}
	if decoded.Meta.Image != guide.PlaceholderImageURL {
		t.Errorf("Expected placeholder image, got %q", decoded.Meta.Image)
	}
}
