package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/reservoir-app/reservoir/internal/auth"
	"github.com/reservoir-app/reservoir/internal/store"
)

// ProfileHandler handles the user profile endpoints.
type ProfileHandler struct {
	*Handler
}

// NewProfileHandler creates the profile endpoint handler.
func NewProfileHandler(base *Handler) *ProfileHandler {
	return &ProfileHandler{Handler: base}
}

// RegisterRoutes registers profile routes.
func (h *ProfileHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/user/profile", func(r chi.Router) {
		r.Use(auth.RequireUser)
		r.Get("/", h.GetProfile)
		r.Put("/", h.UpdateProfile)
	})
}

// GetProfile returns the authenticated user's profile row.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	if h.profiles == nil {
		Error(w, http.StatusServiceUnavailable, "user database not configured")
		return
	}
	userID := auth.UserIDFromContext(r.Context())

	profile, err := h.profiles.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrProfileNotFound) {
			Error(w, http.StatusNotFound, "profile not found")
			return
		}
		slog.Error("get profile failed", "user_id", userID, "error", err)
		Error(w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	JSON(w, http.StatusOK, profile)
}

// UpdateProfile applies allow-listed field updates to the profile.
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	if h.profiles == nil {
		Error(w, http.StatusServiceUnavailable, "user database not configured")
		return
	}
	userID := auth.UserIDFromContext(r.Context())

	var updates map[string]any
	if err := decodeBody(w, r, &updates); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(updates) == 0 {
		Error(w, http.StatusBadRequest, "no fields to update")
		return
	}

	profile, err := h.profiles.UpdateProfile(r.Context(), userID, updates)
	if err != nil {
		if errors.Is(err, store.ErrProfileNotFound) {
			Error(w, http.StatusNotFound, "profile not found")
			return
		}
		// Disallowed-only field sets come back as a plain error from the
		// repository; treat them as validation failures.
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	JSON(w, http.StatusOK, profile)
}
