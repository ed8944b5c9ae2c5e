package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/reservoir-app/reservoir/internal/domain"
	"github.com/reservoir-app/reservoir/internal/llm"
)

// AIHandler handles the unauthenticated prompt-passthrough endpoints. These
// are one-shot calls with no session state and no rate limiting at this
// layer.
type AIHandler struct {
	*Handler
}

// NewAIHandler creates the AI passthrough handler.
func NewAIHandler(base *Handler) *AIHandler {
	return &AIHandler{Handler: base}
}

// RegisterRoutes registers AI passthrough routes.
func (h *AIHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/ai", func(r chi.Router) {
		r.Post("/generate-question", h.GenerateQuestion)
		r.Post("/extract-business-intelligence", h.ExtractIntelligence)
	})
}

type generateQuestionRequest struct {
	Text    string                      `json:"text"`
	Context *domain.ConversationContext `json:"context"`
}

// GenerateQuestion produces one interview question from arbitrary free text
// and optional context.
func (h *AIHandler) GenerateQuestion(w http.ResponseWriter, r *http.Request) {
	var req generateQuestionRequest
	if err := decodeBody(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Context == nil {
		req.Context = &domain.ConversationContext{}
	}

	payload, err := h.svc.GenerateAdhocQuestion(r.Context(), req.Text, req.Context)
	if err != nil {
		h.upstreamError(w, "generate question", err)
		return
	}

	JSON(w, http.StatusOK, payload)
}

type extractRequest struct {
	Text string `json:"text"`
}

// ExtractIntelligence extracts structured business context from free text.
func (h *AIHandler) ExtractIntelligence(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := decodeBody(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		Error(w, http.StatusBadRequest, "text is required")
		return
	}

	ctx, err := h.svc.ExtractIntelligence(r.Context(), req.Text)
	if err != nil {
		h.upstreamError(w, "extract intelligence", err)
		return
	}

	JSON(w, http.StatusOK, ctx)
}

func (h *AIHandler) upstreamError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, llm.ErrNoAPIKey) {
		Error(w, http.StatusServiceUnavailable, "completion API not configured")
		return
	}
	slog.Error("AI passthrough failed", "op", op, "error", err)
	Error(w, http.StatusBadGateway, "upstream completion failed")
}
