package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"cryptoguides-backend/internal/guide"
	"cryptoguides-backend/internal/models"
	"cryptoguides-backend/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

func errorRespWithFields(code, message string, fields map[string]string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			Fields:    fields,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, services.ErrMissingCredential) {
		writeJSON(w, http.StatusBadGateway, errorResp("MISSING_CREDENTIAL", "No content API credential is configured", r))
		return
	}

	var malformedDoc *guide.MalformedDocumentError
	if errors.As(err, &malformedDoc) {
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("MALFORMED_GUIDE", malformedDoc.Error(), r))
		return
	}

	switch e := err.(type) {
	case *services.ValidationError:
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", e.Fields, r))
	case *services.NotFoundError:
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", e.Message, r))
	case *services.UnauthorizedError:
		writeJSON(w, http.StatusUnauthorized, errorResp("UNAUTHORIZED", e.Message, r))
	case *services.RemoteError:
		writeJSON(w, http.StatusBadGateway, errorResp("REMOTE_ERROR", e.Error(), r))
	case *services.TransportError:
		writeJSON(w, http.StatusBadGateway, errorResp("TRANSPORT_ERROR", "Could not reach the content API", r))
	case *services.MalformedResponseError:
		writeJSON(w, http.StatusBadGateway, errorResp("MALFORMED_RESPONSE", e.Error(), r))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "An unexpected error occurred", r))
	}
}

// handleSessionError maps guide-session failures onto the error envelope.
// They are all caller mistakes, so everything lands on 400 except a missing
// element which reads better as 404.
func handleSessionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, guide.ErrElementNotAttached):
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", err.Error(), r))
	case errors.Is(err, guide.ErrIndexOutOfRange), errors.Is(err, guide.ErrUnknownField):
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", err.Error(), r))
	default:
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", err.Error(), r))
	}
}
