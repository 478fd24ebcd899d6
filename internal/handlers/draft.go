package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"cryptoguides-backend/internal/guide"
	"cryptoguides-backend/internal/middleware"
	"cryptoguides-backend/internal/models"
	"cryptoguides-backend/internal/repository"
	"cryptoguides-backend/internal/services"
)

type DraftHandler struct {
	draftRepo *repository.DraftRepo
	publisher *services.PublisherService
}

func NewDraftHandler(draftRepo *repository.DraftRepo, publisher *services.PublisherService) *DraftHandler {
	return &DraftHandler{draftRepo: draftRepo, publisher: publisher}
}

func (h *DraftHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	session := guide.NewSession()
	if req.Title != "" {
		title, _ := json.Marshal(req.Title)
		if err := session.SetField("title", title); err != nil {
			handleSessionError(w, r, err)
			return
		}
	}

	draft, err := h.storeNewDraft(r, session)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, draft)
}

// Import pulls a published guide from the content API and rebuilds an
// editable draft out of it.
func (h *DraftHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req models.ImportGuideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Slug == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Slug is required", r))
		return
	}

	session, err := h.publisher.Import(r.Context(), req.Slug)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	draft, err := h.storeNewDraft(r, session)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, draft)
}

func (h *DraftHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	drafts, err := h.draftRepo.ListByUser(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"drafts": drafts})
}

func (h *DraftHandler) Get(w http.ResponseWriter, r *http.Request) {
	draft, ok := h.ownedDraft(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

func (h *DraftHandler) Delete(w http.ResponseWriter, r *http.Request) {
	draft, ok := h.ownedDraft(w, r)
	if !ok {
		return
	}

	if err := h.draftRepo.Delete(r.Context(), draft.ID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Draft deleted"})
}

func (h *DraftHandler) storeNewDraft(r *http.Request, session *guide.Session) (*models.Draft, error) {
	state, err := json.Marshal(session)
	if err != nil {
		return nil, err
	}

	draft := &models.Draft{
		UserID: middleware.GetUserID(r.Context()),
		Title:  session.Meta.Title,
		Slug:   session.Meta.Slug,
		State:  state,
	}
	if err := h.draftRepo.Create(r.Context(), draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// ownedDraft loads the {id} draft and rejects the request unless it belongs
// to the authenticated editor. Foreign drafts read as not found so the
// response does not confirm their existence.
func (h *DraftHandler) ownedDraft(w http.ResponseWriter, r *http.Request) (*models.Draft, bool) {
	return loadOwnedDraft(h.draftRepo, w, r)
}

func loadOwnedDraft(repo *repository.DraftRepo, w http.ResponseWriter, r *http.Request) (*models.Draft, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid draft ID", r))
		return nil, false
	}

	draft, err := repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Draft not found", r))
			return nil, false
		}
		handleServiceError(w, r, err)
		return nil, false
	}
	if draft.UserID != middleware.GetUserID(r.Context()) {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Draft not found", r))
		return nil, false
	}
	return draft, true
}
