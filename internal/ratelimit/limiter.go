// Package ratelimit provides fixed-window request limiting keyed by user.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

const (
	// DefaultQuota is the number of requests allowed per window.
	DefaultQuota = 10
	// DefaultWindow is the fixed limiting window.
	DefaultWindow = 60 * time.Second
)

// Limiter decides whether a request identified by key may proceed.
type Limiter interface {
	// Allow reports whether the request is within quota. The counter for a
	// key resets lazily when its window has elapsed.
	Allow(ctx context.Context, key string) (bool, error)
}

type windowEntry struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter is a fixed-window limiter over an in-process map. Each
// process instance enforces its quota independently; use the Redis limiter
// when running more than one instance.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
	quota   int
	window  time.Duration
	now     func() time.Time
}

// NewMemoryLimiter creates an in-process fixed-window limiter. Non-positive
// quota or window fall back to the defaults.
func NewMemoryLimiter(quota int, window time.Duration) *MemoryLimiter {
	if quota <= 0 {
		quota = DefaultQuota
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &MemoryLimiter{
		entries: make(map[string]*windowEntry),
		quota:   quota,
		window:  window,
		now:     time.Now,
	}
}

// Allow reports whether the request is within quota.
func (l *MemoryLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entry, ok := l.entries[key]
	if !ok || now.After(entry.resetAt) {
		l.entries[key] = &windowEntry{count: 1, resetAt: now.Add(l.window)}
		return true, nil
	}

	entry.count++
	return entry.count <= l.quota, nil
}

var _ Limiter = (*MemoryLimiter)(nil)
