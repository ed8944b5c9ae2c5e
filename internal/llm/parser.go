package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/reservoir-app/reservoir/internal/domain"
)

// QuestionPayload is the expected shape of a question-generation reply.
type QuestionPayload struct {
	Question       string   `json:"question"`
	QuickResponses []string `json:"quickResponses"`
	IsComplete     bool     `json:"isComplete"`
	Reasoning      string   `json:"reasoning"`
}

// ParseQuestion decodes raw completion output into a QuestionPayload,
// filling defaults for missing fields. A decode failure is an explicit error
// so the caller can branch to the fallback path instead of surfacing
// half-empty data.
func ParseQuestion(raw string) (*QuestionPayload, error) {
	cleaned := stripFences(raw)

	var payload QuestionPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("parse question payload: %w", err)
	}
	if payload.Question == "" {
		return nil, fmt.Errorf("parse question payload: missing question field")
	}
	if payload.QuickResponses == nil {
		payload.QuickResponses = []string{}
	}
	return &payload, nil
}

// ParseExtraction decodes raw completion output into a ConversationContext.
func ParseExtraction(raw string) (*domain.ConversationContext, error) {
	cleaned := stripFences(raw)

	var ctx domain.ConversationContext
	if err := json.Unmarshal([]byte(cleaned), &ctx); err != nil {
		return nil, fmt.Errorf("parse extraction payload: %w", err)
	}
	return &ctx, nil
}

// stripFences removes a surrounding markdown code fence, which some models
// wrap around JSON despite instructions.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
