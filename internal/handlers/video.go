package handlers

import (
	"encoding/json"
	"net/http"

	"cryptoguides-backend/internal/models"
	"cryptoguides-backend/internal/services"
)

type VideoHandler struct {
	videoService *services.VideoService
}

func NewVideoHandler(videoService *services.VideoService) *VideoHandler {
	return &VideoHandler{videoService: videoService}
}

// Validate checks a YouTube URL and returns the metadata editors use to
// prefill the video player element.
func (h *VideoHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req models.ValidateVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "URL is required", r))
		return
	}

	videoID, err := h.videoService.ExtractVideoID(req.URL)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"url": "Not a valid YouTube URL"}, r))
		return
	}

	meta, err := h.videoService.Lookup(r.Context(), videoID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, meta)
}
