// Package llm wraps the hosted chat-completion API and the parsing of its
// JSON-ish replies.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// ErrNoAPIKey is returned when the completion client is constructed without
// an upstream API key. Callers use it to switch to the static fallback path.
var ErrNoAPIKey = errors.New("completion API key not configured")

// Message is a single role/content turn sent to the completion endpoint.
type Message struct {
	Role    string
	Content string
}

// Message roles accepted by the completion endpoint.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// CompletionClient sends a message array to the hosted chat-completion
// endpoint and returns the raw reply text plus the tokens it consumed.
type CompletionClient interface {
	Complete(ctx context.Context, messages []Message) (text string, tokensUsed int, err error)
}

// Config holds completion client parameters. Model, temperature and token
// limit are fixed per deployment, not per request.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// OpenAIClient implements CompletionClient against an OpenAI-compatible API.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

// NewOpenAIClient creates a completion client. Returns ErrNoAPIKey when no
// key is configured so the caller can run in fallback-only mode.
func NewOpenAIClient(cfg Config) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	oc.HTTPClient = &http.Client{Timeout: timeout}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 500
	}

	return &OpenAIClient{
		client:      openai.NewClientWithConfig(oc),
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   maxTokens,
	}, nil
}

// Complete sends the messages and returns the first choice's text.
func (c *OpenAIClient) Complete(ctx context.Context, messages []Message) (string, int, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", 0, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", resp.Usage.TotalTokens, fmt.Errorf("chat completion returned no choices")
	}

	return resp.Choices[0].Message.Content, resp.Usage.TotalTokens, nil
}

var _ CompletionClient = (*OpenAIClient)(nil)
