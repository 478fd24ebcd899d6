package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"cryptoguides-backend/internal/middleware"
	"cryptoguides-backend/internal/models"
	"cryptoguides-backend/internal/services"
)

type ImageHandler struct {
	uploader  *services.ImageUploader
	publisher *services.PublisherService
}

func NewImageHandler(uploader *services.ImageUploader, publisher *services.PublisherService) *ImageHandler {
	return &ImageHandler{uploader: uploader, publisher: publisher}
}

type uploadImageRequest struct {
	// URL short-circuits the upload: an already-hosted image is used as-is.
	URL      string `json:"url"`
	Image    string `json:"image"` // base64 payload
	FileType string `json:"file_type"`
}

// Upload resolves an image reference to a hosted URL, either passing a
// direct URL through or pushing base64 data to the upload endpoint. Progress
// is streamed to the editor's WebSocket while the upload runs.
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var req uploadImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if req.URL == "" && req.Image == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Either url or image is required", r))
		return
	}

	var data []byte
	if req.Image != "" {
		var err error
		data, err = base64.StdEncoding.DecodeString(req.Image)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Image must be base64 encoded", r))
			return
		}
	}

	userID := middleware.GetUserID(r.Context())
	onProgress := func(percent int) {
		h.publisher.PublishEvent(r.Context(), userID, models.WSMessage{
			Type:    "upload_progress",
			Payload: models.UploadProgressEvent{Percent: percent},
		})
	}

	url, err := h.uploader.Resolve(r.Context(), req.URL, data, req.FileType, onProgress)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (h *ImageHandler) Progress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.UploadProgressEvent{Percent: h.uploader.Progress()})
}
