// Package store provides access to the hosted user database and the local
// transcript archive.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/reservoir-app/reservoir/internal/domain"
)

// ErrProfileNotFound is returned when no profile row exists for a user.
var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepository defines access to user accounts in the hosted database.
type ProfileRepository interface {
	// GetProfile retrieves a user's profile row.
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)

	// UpdateProfile applies allow-listed field updates and returns the
	// refreshed profile.
	UpdateProfile(ctx context.Context, userID string, updates map[string]any) (*domain.Profile, error)

	// ResolveToken resolves an access token into a user ID via the hosted
	// auth service.
	ResolveToken(ctx context.Context, token string) (string, error)

	// Close releases client resources.
	Close() error
}

// CompletedSession is one archived questionnaire run.
type CompletedSession struct {
	SessionID     string
	UserID        string
	ContextJSON   string
	AnswersJSON   string
	TokensUsed    int
	EstimatedCost float64
	CompletedAt   time.Time
}

// TranscriptArchive records completed questionnaire sessions durably. The
// interview flow never depends on it; writes are best effort.
type TranscriptArchive interface {
	// SaveCompleted stores a completed session.
	SaveCompleted(ctx context.Context, userID string, entry *domain.SessionEntry) error

	// GetCompleted retrieves an archived session by session ID.
	// Returns nil if none exists (not an error).
	GetCompleted(ctx context.Context, sessionID string) (*CompletedSession, error)

	// SweepOlderThan removes archived sessions completed before the cutoff
	// and returns how many were removed.
	SweepOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// Ping verifies connectivity.
	Ping(ctx context.Context) error

	// Close closes the archive.
	Close() error
}
