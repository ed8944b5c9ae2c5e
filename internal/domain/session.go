package domain

import (
	"time"
)

// SessionEntry holds the per-session questionnaire state. Entries live in the
// session store and expire after a fixed inactivity window; there is no
// durable copy, so callers treat a missing entry as "start fresh".
type SessionEntry struct {
	ID            string              `json:"id"`
	Context       ConversationContext `json:"context"`
	AnswerHistory []string            `json:"answer_history"`
	QuestionCount int                 `json:"question_count"`
	TokensUsed    int                 `json:"tokens_used"`
	EstimatedCost float64             `json:"estimated_cost"`
	LastActivity  time.Time           `json:"last_activity"`
	CreatedAt     time.Time           `json:"created_at"`
}

// NewSessionEntry creates a fresh session entry with activity stamped to now.
func NewSessionEntry(id string) *SessionEntry {
	now := time.Now()
	return &SessionEntry{
		ID:           id,
		LastActivity: now,
		CreatedAt:    now,
	}
}

// Clone returns a deep copy of the entry. Stores hand out clones so callers
// never share mutable state with the store's own copy.
func (s *SessionEntry) Clone() *SessionEntry {
	out := *s
	out.Context = s.Context.Clone()
	out.AnswerHistory = append([]string(nil), s.AnswerHistory...)
	return &out
}

// RecordAnswer appends a raw answer to the history and stamps activity.
func (s *SessionEntry) RecordAnswer(text string) {
	s.AnswerHistory = append(s.AnswerHistory, text)
	s.Touch()
}

// AddUsage accumulates token and cost counters. Totals only grow within a
// session's lifetime.
func (s *SessionEntry) AddUsage(tokens int, cost float64) {
	s.TokensUsed += tokens
	s.EstimatedCost += cost
}

// Touch stamps last activity to now.
func (s *SessionEntry) Touch() {
	s.LastActivity = time.Now()
}

// Expired reports whether the entry has been inactive longer than ttl.
func (s *SessionEntry) Expired(ttl time.Duration) bool {
	return time.Since(s.LastActivity) > ttl
}
