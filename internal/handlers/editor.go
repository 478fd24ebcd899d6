package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"cryptoguides-backend/internal/guide"
	"cryptoguides-backend/internal/middleware"
	"cryptoguides-backend/internal/models"
	"cryptoguides-backend/internal/repository"
	"cryptoguides-backend/internal/services"
)

// EditorHandler applies authoring operations to a draft's guide session.
// Every mutation follows the same shape: load the owned draft, decode its
// session state, apply one operation, save the state back.
type EditorHandler struct {
	draftRepo *repository.DraftRepo
	publisher *services.PublisherService
}

func NewEditorHandler(draftRepo *repository.DraftRepo, publisher *services.PublisherService) *EditorHandler {
	return &EditorHandler{draftRepo: draftRepo, publisher: publisher}
}

func (h *EditorHandler) SetField(w http.ResponseWriter, r *http.Request) {
	var req models.SetFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	h.mutate(w, r, func(s *guide.Session) error {
		return s.SetField(req.Field, req.Value)
	})
}

func (h *EditorHandler) AddSection(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(s *guide.Session) error {
		s.AddSection()
		return nil
	})
}

func (h *EditorHandler) RemoveSection(w http.ResponseWriter, r *http.Request) {
	index, ok := sectionIndex(w, r)
	if !ok {
		return
	}
	h.mutate(w, r, func(s *guide.Session) error {
		return s.RemoveSection(index)
	})
}

func (h *EditorHandler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	index, ok := sectionIndex(w, r)
	if !ok {
		return
	}

	var req models.SetFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	h.mutate(w, r, func(s *guide.Session) error {
		return s.UpdateSection(index, req.Field, req.Value)
	})
}

func (h *EditorHandler) MoveSection(w http.ResponseWriter, r *http.Request) {
	var req models.MoveSectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	h.mutate(w, r, func(s *guide.Session) error {
		return s.MoveSection(req.From, req.To)
	})
}

func (h *EditorHandler) ToggleContentVisibility(w http.ResponseWriter, r *http.Request) {
	index, ok := sectionIndex(w, r)
	if !ok {
		return
	}
	h.mutate(w, r, func(s *guide.Session) error {
		return s.ToggleContentVisibility(index)
	})
}

func (h *EditorHandler) AttachElement(w http.ResponseWriter, r *http.Request) {
	var req models.AttachElementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	kind := guide.ElementKind(chi.URLParam(r, "kind"))
	h.mutate(w, r, func(s *guide.Session) error {
		_, err := s.Attach(kind, req.SectionIndex)
		return err
	})
}

// DetachElement is the soft remove: the element keeps its content and can be
// re-attached later.
func (h *EditorHandler) DetachElement(w http.ResponseWriter, r *http.Request) {
	kind := guide.ElementKind(chi.URLParam(r, "kind"))
	h.mutate(w, r, func(s *guide.Session) error {
		return s.Detach(kind)
	})
}

// PurgeElement is the hard remove: the element and its edits are gone.
func (h *EditorHandler) PurgeElement(w http.ResponseWriter, r *http.Request) {
	kind := guide.ElementKind(chi.URLParam(r, "kind"))
	h.mutate(w, r, func(s *guide.Session) error {
		return s.Purge(kind)
	})
}

func (h *EditorHandler) UpdateElement(w http.ResponseWriter, r *http.Request) {
	patch, err := readRawBody(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	kind := guide.ElementKind(chi.URLParam(r, "kind"))
	h.mutate(w, r, func(s *guide.Session) error {
		return s.UpdateElement(kind, patch)
	})
}

// SetRelatedGuides replaces the draft's related-guide links wholesale; the
// list is small enough that partial edits buy nothing.
func (h *EditorHandler) SetRelatedGuides(w http.ResponseWriter, r *http.Request) {
	var related []guide.RelatedGuide
	if err := json.NewDecoder(r.Body).Decode(&related); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if related == nil {
		related = []guide.RelatedGuide{}
	}

	h.mutate(w, r, func(s *guide.Session) error {
		s.RelatedGuides = related
		return nil
	})
}

// Preview assembles the current session into the publishable document
// without saving anything.
func (h *EditorHandler) Preview(w http.ResponseWriter, r *http.Request) {
	draft, ok := loadOwnedDraft(h.draftRepo, w, r)
	if !ok {
		return
	}

	session, err := decodeSession(draft)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, guide.Assemble(session))
}

func (h *EditorHandler) Publish(w http.ResponseWriter, r *http.Request) {
	var req models.PublishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	mode := services.SaveModeCreate
	switch req.Mode {
	case "create", "":
	case "update":
		mode = services.SaveModeUpdate
	default:
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Mode must be 'create' or 'update'", r))
		return
	}

	draft, ok := loadOwnedDraft(h.draftRepo, w, r)
	if !ok {
		return
	}

	session, err := decodeSession(draft)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	userID := middleware.GetUserID(r.Context())
	doc, job, err := h.publisher.Publish(r.Context(), userID, session, mode)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	// The publish stamped the session's id and dates; without this save a
	// republish would mint a fresh id for the same guide.
	state, err := json.Marshal(session)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if err := h.draftRepo.SaveState(r.Context(), draft.ID, session.Meta.Title, session.Meta.Slug, state); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"guide": doc,
		"job":   job,
	})
}

func (h *EditorHandler) mutate(w http.ResponseWriter, r *http.Request, op func(*guide.Session) error) {
	draft, ok := loadOwnedDraft(h.draftRepo, w, r)
	if !ok {
		return
	}

	session, err := decodeSession(draft)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if err := op(session); err != nil {
		handleSessionError(w, r, err)
		return
	}

	state, err := json.Marshal(session)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if err := h.draftRepo.SaveState(r.Context(), draft.ID, session.Meta.Title, session.Meta.Slug, state); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

func decodeSession(draft *models.Draft) (*guide.Session, error) {
	session := guide.NewSession()
	if len(draft.State) > 0 {
		if err := json.Unmarshal(draft.State, session); err != nil {
			return nil, err
		}
	}
	if session.Elements == nil {
		session.Elements = make(map[guide.ElementKind]*guide.Element)
	}
	return session, nil
}

func sectionIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid section index", r))
		return 0, false
	}
	return index, true
}

func readRawBody(r *http.Request) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}
