// Package session provides the questionnaire session registry: ephemeral,
// expiring per-session state behind a swappable store interface.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/reservoir-app/reservoir/internal/domain"
)

// Common errors for session store operations.
var (
	ErrInvalidConfig = errors.New("invalid session store configuration")
)

// Store defines the interface for session state storage. The backing choice
// (in-process map vs shared cache) is swappable without touching call sites.
type Store interface {
	// Get retrieves an entry by session ID.
	// Returns nil if the entry is not found (not an error).
	Get(ctx context.Context, id string) (*domain.SessionEntry, error)

	// Put stores an entry under its session ID, replacing any existing one.
	Put(ctx context.Context, entry *domain.SessionEntry) error

	// Delete removes a single entry. Deleting a missing entry is not an error.
	Delete(ctx context.Context, id string) error

	// DeleteAll clears the entire store.
	DeleteAll(ctx context.Context) error

	// Sweep removes entries inactive for longer than ttl and returns how many
	// were removed. Stores with native key expiry may treat this as a no-op.
	Sweep(ctx context.Context, ttl time.Duration) (int, error)

	// Close releases store resources.
	Close() error
}
