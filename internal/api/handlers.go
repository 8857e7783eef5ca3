// Package api provides a read-only HTTP query surface over accepted
// quinian crossword results.
package api

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"quinian/internal/store"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	store store.ResultStore
}

// NewHandler creates a new Handler with the given store.
func NewHandler(s store.ResultStore) *Handler {
	return &Handler{store: s}
}

// GetResult returns a single result by its content hash.
// GET /v1/results/{hash}
func (h *Handler) GetResult(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("hash")
	hash, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid hash")
		return
	}

	rec, err := h.store.Get(r.Context(), hash)
	if err == store.ErrNotFound {
		writeError(w, http.StatusNotFound, "result not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch result")
		return
	}

	writeJSONWithETag(w, rec)
}

// ListResults returns a page of result summaries matching the filter.
// GET /v1/results?crossword_type=dense5&max_missing=0&limit=20&offset=0
func (h *Handler) ListResults(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := store.Filter{
		CrosswordType:      q.Get("crossword_type"),
		MaxMissingSurfaces: -1,
		Limit:              50,
	}

	if max := q.Get("max_missing"); max != "" {
		if m, err := strconv.Atoi(max); err == nil && m >= 0 {
			filter.MaxMissingSurfaces = m
		}
	}
	if limit := q.Get("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil && l > 0 && l <= 200 {
			filter.Limit = l
		}
	}
	if offset := q.Get("offset"); offset != "" {
		if o, err := strconv.Atoi(offset); err == nil && o >= 0 {
			filter.Offset = o
		}
	}

	results, err := h.store.List(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list results")
		return
	}

	if results == nil {
		results = []store.Summary{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
		"count":   len(results),
	})
}

// HealthCheck returns server health status.
// GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// APIError represents an error response.
type APIError struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, APIError{Error: http.StatusText(status), Message: message})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeJSONWithETag(w http.ResponseWriter, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}

	hash := sha256.Sum256(body)
	etag := `"` + hex.EncodeToString(hash[:8]) + `"`

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, max-age=300")

	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
