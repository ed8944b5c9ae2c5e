package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/reservoir-app/reservoir/internal/auth"
	"github.com/reservoir-app/reservoir/internal/llm"
	"github.com/reservoir-app/reservoir/internal/questionnaire"
)

// QuestionnaireHandler handles the interview endpoints.
type QuestionnaireHandler struct {
	*Handler
}

// NewQuestionnaireHandler creates the questionnaire endpoint handler.
func NewQuestionnaireHandler(base *Handler) *QuestionnaireHandler {
	return &QuestionnaireHandler{Handler: base}
}

// RegisterRoutes registers questionnaire routes. Both require an
// authenticated user.
func (h *QuestionnaireHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/questionnaire", func(r chi.Router) {
		r.Use(auth.RequireUser)
		r.Post("/next-question", h.NextQuestion)
		r.Post("/reset", h.Reset)
	})
}

type nextQuestionRequest struct {
	UserResponse string `json:"userResponse"`
	SessionID    string `json:"sessionId"`
}

// NextQuestion advances the interview by one turn.
func (h *QuestionnaireHandler) NextQuestion(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	allowed, err := h.limiter.Allow(r.Context(), userID)
	if err != nil {
		slog.Error("rate limiter unavailable", "user_id", userID, "error", err)
		Error(w, http.StatusInternalServerError, "rate limiter unavailable")
		return
	}
	if !allowed {
		Error(w, http.StatusTooManyRequests, "too many requests, slow down")
		return
	}

	var req nextQuestionRequest
	if err := decodeBody(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = sessionIDForUser(userID)
	}

	result, err := h.svc.NextQuestion(r.Context(), userID, sessionID, req.UserResponse)
	if err != nil {
		// The interview must keep moving even when session storage is
		// unhappy: serve a canned question with the error attached, HTTP 200.
		slog.Error("next question failed, serving fallback", "session_id", sessionID, "error", err)
		fb := llm.FallbackQuestion(0)
		JSON(w, http.StatusOK, map[string]interface{}{
			"question":       fb.Question,
			"quickResponses": fb.QuickResponses,
			"isComplete":     false,
			"fallback":       true,
			"error":          "temporary problem generating your next question",
			"usage":          questionnaire.Usage{},
		})
		return
	}

	JSON(w, http.StatusOK, result)
}

type resetRequest struct {
	SessionID string `json:"sessionId"`
}

// Reset clears the caller's session. Succeeds even when no sessionId was
// supplied; the user's derived session is cleared in that case.
func (h *QuestionnaireHandler) Reset(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var req resetRequest
	if err := decodeBody(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = sessionIDForUser(userID)
	}

	if err := h.svc.Reset(r.Context(), sessionID); err != nil {
		slog.Warn("session reset failed", "session_id", sessionID, "error", err)
	}

	// The contract is optimistic: reset always reports success.
	JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// sessionIDForUser derives a stable session identifier for clients that do
// not track their own.
func sessionIDForUser(userID string) string {
	return "qn-" + userID
}
