// Package questionnaire implements the adaptive interview flow: session
// bookkeeping, context extraction, prompt/response cycle and fallbacks.
package questionnaire

import (
	"context"
	"log/slog"

	"github.com/reservoir-app/reservoir/internal/domain"
	"github.com/reservoir-app/reservoir/internal/extract"
	"github.com/reservoir-app/reservoir/internal/llm"
	"github.com/reservoir-app/reservoir/internal/prompt"
	"github.com/reservoir-app/reservoir/internal/session"
)

const (
	// MaxQuestions caps the interview length.
	MaxQuestions = 10
	// MinExchanges is the minimum number of answers before the interview may
	// conclude early on a complete business profile.
	MinExchanges = 5

	closingMessage = "That's everything we need. We're putting together your automation opportunity report now."
)

// Usage reports cumulative token/cost counters for a session.
type Usage struct {
	TokensUsed    int     `json:"tokensUsed"`
	EstimatedCost float64 `json:"estimatedCost"`
}

// Result is the outcome of one interview turn.
type Result struct {
	Question       string                      `json:"question"`
	QuickResponses []string                    `json:"quickResponses"`
	IsComplete     bool                        `json:"isComplete"`
	Context        *domain.ConversationContext `json:"context,omitempty"`
	Reasoning      string                      `json:"reasoning,omitempty"`
	Usage          Usage                       `json:"usage"`
	Fallback       bool                        `json:"fallback,omitempty"`
}

// Archiver records completed sessions. Archive failures must never fail an
// interview turn.
type Archiver interface {
	SaveCompleted(ctx context.Context, userID string, entry *domain.SessionEntry) error
}

// Service drives the interview state machine.
type Service struct {
	registry   *session.Registry
	classifier extract.Classifier
	client     llm.CompletionClient // nil means fallback-only mode
	archive    Archiver             // optional
}

// NewService creates the interview service. client may be nil, in which case
// every turn takes the canned-question path. archive may be nil.
func NewService(registry *session.Registry, classifier extract.Classifier, client llm.CompletionClient, archive Archiver) *Service {
	return &Service{
		registry:   registry,
		classifier: classifier,
		client:     client,
		archive:    archive,
	}
}

// FallbackOnly reports whether no completion client is configured.
func (s *Service) FallbackOnly() bool {
	return s.client == nil
}

// NextQuestion advances the interview by one turn. previousAnswer may be
// empty on the opening turn. The three outcomes mirror the state machine:
// another question (COLLECTING), the closing message (CONCLUDING), or a
// canned question (ERROR_FALLBACK). Errors from the completion endpoint are
// absorbed into the fallback path, never returned.
func (s *Service) NextQuestion(ctx context.Context, userID, sessionID, previousAnswer string) (*Result, error) {
	entry, err := s.registry.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if previousAnswer != "" {
		entry.RecordAnswer(previousAnswer)
		s.classifier.Update(&entry.Context, previousAnswer)
	}

	if s.shouldConclude(entry) {
		return s.conclude(ctx, userID, entry)
	}

	payload, tokensUsed, fallback := s.generate(ctx, entry)
	if payload.IsComplete {
		// The model may decide it has enough; honor it the same way the
		// counter cap is honored.
		entry.AddUsage(tokensUsed, llm.EstimateCost(tokensUsed))
		return s.conclude(ctx, userID, entry)
	}

	entry.QuestionCount++
	entry.AddUsage(tokensUsed, llm.EstimateCost(tokensUsed))

	if err := s.registry.Save(ctx, entry); err != nil {
		return nil, err
	}

	return &Result{
		Question:       payload.Question,
		QuickResponses: payload.QuickResponses,
		IsComplete:     false,
		Context:        &entry.Context,
		Reasoning:      payload.Reasoning,
		Usage:          Usage{TokensUsed: entry.TokensUsed, EstimatedCost: entry.EstimatedCost},
		Fallback:       fallback,
	}, nil
}

// Reset clears the named session. An empty sessionID clears every session.
func (s *Service) Reset(ctx context.Context, sessionID string) error {
	return s.registry.Reset(ctx, sessionID)
}

// Usage returns cumulative counters for a session.
func (s *Service) Usage(ctx context.Context, sessionID string) (Usage, error) {
	tokens, cost, err := s.registry.Usage(ctx, sessionID)
	if err != nil {
		return Usage{}, err
	}
	return Usage{TokensUsed: tokens, EstimatedCost: cost}, nil
}

// GenerateAdhocQuestion serves the unauthenticated prompt-passthrough
// endpoint: one-shot question generation without session state.
func (s *Service) GenerateAdhocQuestion(ctx context.Context, text string, cctx *domain.ConversationContext) (*llm.QuestionPayload, error) {
	if s.client == nil {
		return nil, llm.ErrNoAPIKey
	}

	var answers []string
	if text != "" {
		answers = []string{text}
	}
	raw, _, err := s.client.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: prompt.System()},
		{Role: llm.RoleUser, Content: prompt.NextQuestion(cctx, answers, 0, MaxQuestions)},
	})
	if err != nil {
		return nil, err
	}
	return llm.ParseQuestion(raw)
}

// ExtractIntelligence serves the business-intelligence extraction
// passthrough: free text in, structured context out.
func (s *Service) ExtractIntelligence(ctx context.Context, text string) (*domain.ConversationContext, error) {
	if s.client == nil {
		return nil, llm.ErrNoAPIKey
	}

	raw, _, err := s.client.Complete(ctx, []llm.Message{
		{Role: llm.RoleUser, Content: prompt.Extraction(text)},
	})
	if err != nil {
		return nil, err
	}
	return llm.ParseExtraction(raw)
}

func (s *Service) shouldConclude(entry *domain.SessionEntry) bool {
	if entry.QuestionCount >= MaxQuestions {
		return true
	}
	return entry.Context.HasBusinessProfile() && len(entry.AnswerHistory) >= MinExchanges
}

func (s *Service) conclude(ctx context.Context, userID string, entry *domain.SessionEntry) (*Result, error) {
	if err := s.registry.Save(ctx, entry); err != nil {
		return nil, err
	}

	if s.archive != nil {
		if err := s.archive.SaveCompleted(ctx, userID, entry); err != nil {
			slog.Warn("failed to archive completed session", "session_id", entry.ID, "error", err)
		}
	}

	return &Result{
		Question:       closingMessage,
		QuickResponses: []string{},
		IsComplete:     true,
		Context:        &entry.Context,
		Usage:          Usage{TokensUsed: entry.TokensUsed, EstimatedCost: entry.EstimatedCost},
	}, nil
}

// generate runs one COLLECTING transition: prompt, completion call, parse.
// Any failure falls back to the canned question for the current counter.
// There is no retry; a skipped model question costs little here.
func (s *Service) generate(ctx context.Context, entry *domain.SessionEntry) (payload llm.QuestionPayload, tokensUsed int, fallback bool) {
	if s.client == nil {
		return llm.FallbackQuestion(entry.QuestionCount), 0, true
	}

	msgs := []llm.Message{
		{Role: llm.RoleSystem, Content: prompt.System()},
		{Role: llm.RoleUser, Content: prompt.NextQuestion(&entry.Context, entry.AnswerHistory, entry.QuestionCount, MaxQuestions)},
	}
	raw, tokens, err := s.client.Complete(ctx, msgs)
	if err != nil {
		// The provider reported no usage for the prompt it was sent, so
		// estimate it locally to keep the session's cost projection honest.
		estimated := 0
		for _, m := range msgs {
			estimated += llm.EstimateTokens(m.Content)
		}
		slog.Warn("completion call failed, using fallback question", "session_id", entry.ID, "error", err)
		return llm.FallbackQuestion(entry.QuestionCount), estimated, true
	}

	parsed, err := llm.ParseQuestion(raw)
	if err != nil {
		slog.Warn("unparsable completion reply, using fallback question", "session_id", entry.ID, "error", err)
		return llm.FallbackQuestion(entry.QuestionCount), tokens, true
	}

	return *parsed, tokens, false
}
