package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/supabase-community/supabase-go"

	"github.com/reservoir-app/reservoir/internal/domain"
)

// SupabaseConfig holds hosted database connection settings.
type SupabaseConfig struct {
	URL      string
	APIKey   string
	CacheTTL time.Duration // profile cache; default 5 minutes
}

// SupabaseStore implements ProfileRepository against the hosted Supabase
// backend, consumed only through its documented client interface.
type SupabaseStore struct {
	client   *supabase.Client
	cacheTTL time.Duration

	mu    sync.RWMutex
	cache map[string]*profileCacheEntry
}

type profileCacheEntry struct {
	profile   *domain.Profile
	expiresAt time.Time
}

// NewSupabase creates a Supabase-backed profile repository.
func NewSupabase(cfg SupabaseConfig) (*SupabaseStore, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("supabase URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("supabase API key is required")
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 5 * time.Minute
	}

	client, err := supabase.NewClient(cfg.URL, cfg.APIKey, nil)
	if err != nil {
		return nil, fmt.Errorf("create supabase client: %w", err)
	}

	return &SupabaseStore{
		client:   client,
		cacheTTL: cfg.CacheTTL,
		cache:    make(map[string]*profileCacheEntry),
	}, nil
}

// GetProfile retrieves a user's profile row.
func (s *SupabaseStore) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	if cached := s.cachedProfile(userID); cached != nil {
		return cached, nil
	}

	var profiles []domain.Profile
	_, err := s.client.From("profiles").
		Select("*", "", false).
		Eq("id", userID).
		ExecuteTo(&profiles)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if len(profiles) == 0 {
		return nil, ErrProfileNotFound
	}

	profile := &profiles[0]
	s.cacheProfile(userID, profile)
	return profile, nil
}

// UpdateProfile applies allow-listed updates and returns the fresh row.
func (s *SupabaseStore) UpdateProfile(ctx context.Context, userID string, updates map[string]any) (*domain.Profile, error) {
	filtered := domain.FilterProfileUpdates(updates)
	if len(filtered) == 0 {
		return nil, fmt.Errorf("no updatable fields in request")
	}
	filtered["updated_at"] = time.Now().UTC().Format(time.RFC3339)

	_, _, err := s.client.From("profiles").
		Update(filtered, "", "").
		Eq("id", userID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.invalidate(userID)
	return s.GetProfile(ctx, userID)
}

// ResolveToken resolves an access token into a user ID through the hosted
// auth service.
func (s *SupabaseStore) ResolveToken(ctx context.Context, token string) (string, error) {
	user, err := s.client.Auth.WithToken(token).GetUser()
	if err != nil {
		return "", fmt.Errorf("resolve token: %w", err)
	}
	return user.ID.String(), nil
}

// Close releases client resources. The Supabase client holds no connections
// that need explicit closing.
func (s *SupabaseStore) Close() error {
	return nil
}

func (s *SupabaseStore) cachedProfile(userID string) *domain.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e, ok := s.cache[userID]; ok && time.Now().Before(e.expiresAt) {
		return e.profile
	}
	return nil
}

func (s *SupabaseStore) cacheProfile(userID string, profile *domain.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache[userID] = &profileCacheEntry{
		profile:   profile,
		expiresAt: time.Now().Add(s.cacheTTL),
	}
}

func (s *SupabaseStore) invalidate(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.cache, userID)
}

var _ ProfileRepository = (*SupabaseStore)(nil)
