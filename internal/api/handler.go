// Package api provides HTTP handlers for the Reservoir API.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/reservoir-app/reservoir/internal/questionnaire"
	"github.com/reservoir-app/reservoir/internal/ratelimit"
	"github.com/reservoir-app/reservoir/internal/store"
)

// maxRequestBodySize is the maximum allowed request body size (1MB).
const maxRequestBodySize = 1 << 20

// Handler provides common handler dependencies.
type Handler struct {
	svc      *questionnaire.Service
	profiles store.ProfileRepository
	limiter  ratelimit.Limiter
}

// NewHandler creates a new Handler with common dependencies. profiles may be
// nil when the hosted database is not configured (development mode).
func NewHandler(svc *questionnaire.Service, profiles store.ProfileRepository, limiter ratelimit.Limiter) *Handler {
	return &Handler{
		svc:      svc,
		profiles: profiles,
		limiter:  limiter,
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// decodeBody decodes a JSON request body with a size cap. An empty body is
// decoded as the zero value, matching clients that POST without a payload.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}
