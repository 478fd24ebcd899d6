package handlers

import (
	"net/http"
	"strconv"

	"cryptoguides-backend/internal/search"
)

type SearchHandler struct {
	index *search.Index
}

func NewSearchHandler(index *search.Index) *SearchHandler {
	return &SearchHandler{index: index}
}

func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Query parameter 'q' is required", r))
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Limit must be between 1 and 100", r))
			return
		}
		limit = parsed
	}

	results, err := h.index.Search(query, limit)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"query":   query,
		"results": results,
	})
}
