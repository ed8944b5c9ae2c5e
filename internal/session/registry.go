package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/reservoir-app/reservoir/internal/domain"
)

// DefaultTTL is the inactivity window after which a session expires.
const DefaultTTL = 30 * time.Minute

// Registry provides session bookkeeping on top of a Store. There is no
// persistence guarantee: a lost entry means the conversation starts fresh,
// never an error.
type Registry struct {
	store Store
	ttl   time.Duration
}

// NewRegistry creates a registry over the given store. A non-positive ttl
// falls back to DefaultTTL.
func NewRegistry(store Store, ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Registry{store: store, ttl: ttl}
}

// TTL returns the configured inactivity window.
func (r *Registry) TTL() time.Duration {
	return r.ttl
}

// GetOrCreate sweeps expired entries, then returns the entry for id, lazily
// creating it if absent, and stamps its activity.
func (r *Registry) GetOrCreate(ctx context.Context, id string) (*domain.SessionEntry, error) {
	if removed, err := r.store.Sweep(ctx, r.ttl); err != nil {
		slog.Warn("session sweep failed", "error", err)
	} else if removed > 0 {
		slog.Debug("swept expired sessions", "removed", removed)
	}

	entry, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if entry == nil || entry.Expired(r.ttl) {
		entry = domain.NewSessionEntry(id)
	}
	entry.Touch()

	if err := r.store.Put(ctx, entry); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return entry, nil
}

// Save persists an updated entry.
func (r *Registry) Save(ctx context.Context, entry *domain.SessionEntry) error {
	entry.Touch()
	if err := r.store.Put(ctx, entry); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Reset deletes the named session. An empty id clears the whole registry;
// that is a destructive global operation reserved for test/admin callers.
func (r *Registry) Reset(ctx context.Context, id string) error {
	if id == "" {
		if err := r.store.DeleteAll(ctx); err != nil {
			return fmt.Errorf("clear sessions: %w", err)
		}
		return nil
	}
	if err := r.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// RecordAnswer appends a raw answer to the session's history.
func (r *Registry) RecordAnswer(ctx context.Context, id, text string) error {
	entry, err := r.GetOrCreate(ctx, id)
	if err != nil {
		return err
	}
	entry.RecordAnswer(text)
	return r.Save(ctx, entry)
}

// Usage returns the cumulative token and cost counters for a session.
// A missing session reports zero usage.
func (r *Registry) Usage(ctx context.Context, id string) (tokens int, cost float64, err error) {
	entry, err := r.store.Get(ctx, id)
	if err != nil {
		return 0, 0, fmt.Errorf("get session: %w", err)
	}
	if entry == nil {
		return 0, 0, nil
	}
	return entry.TokensUsed, entry.EstimatedCost, nil
}

// SweepLoop runs a periodic background sweep until ctx is cancelled. The
// per-request sweep in GetOrCreate already bounds staleness; this keeps idle
// deployments from holding dead entries indefinitely.
func (r *Registry) SweepLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := r.store.Sweep(ctx, r.ttl)
				if err != nil {
					slog.Warn("background session sweep failed", "error", err)
					continue
				}
				if removed > 0 {
					slog.Info("background session sweep", "removed", removed)
				}
			}
		}
	}()
}
