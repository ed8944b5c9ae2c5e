package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/reservoir-app/reservoir/internal/auth"
	"github.com/reservoir-app/reservoir/internal/domain"
	"github.com/reservoir-app/reservoir/internal/extract"
	"github.com/reservoir-app/reservoir/internal/questionnaire"
	"github.com/reservoir-app/reservoir/internal/session"
	"github.com/reservoir-app/reservoir/internal/store"
)

type fakeProfileRepo struct {
	profiles map[string]*domain.Profile
	upderr   error
}

func (f *fakeProfileRepo) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, store.ErrProfileNotFound
	}
	return p, nil
}

func (f *fakeProfileRepo) UpdateProfile(ctx context.Context, userID string, updates map[string]any) (*domain.Profile, error) {
	if f.upderr != nil {
		return nil, f.upderr
	}
	p, ok := f.profiles[userID]
	if !ok {
		return nil, store.ErrProfileNotFound
	}
	filtered := domain.FilterProfileUpdates(updates)
	if len(filtered) == 0 {
		return nil, errors.New("no updatable fields in request")
	}
	if v, ok := filtered["full_name"].(string); ok {
		p.FullName = v
	}
	if v, ok := filtered["business_name"].(string); ok {
		p.BusinessName = v
	}
	if v, ok := filtered["plan"].(string); ok {
		p.Plan = v
	}
	return p, nil
}

func (f *fakeProfileRepo) ResolveToken(ctx context.Context, token string) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeProfileRepo) Close() error { return nil }

func newProfileRouter(t *testing.T, repo store.ProfileRepository) http.Handler {
	t.Helper()

	registry := session.NewRegistry(session.NewMemoryStore(), session.DefaultTTL)
	svc := questionnaire.NewService(registry, extract.NewKeywordClassifier(), nil, nil)
	base := NewHandler(svc, repo, &stubLimiter{allowed: true})

	r := chi.NewRouter()
	r.Use(auth.Middleware(nil, true))
	NewProfileHandler(base).RegisterRoutes(r)
	return r
}

func TestGetProfile(t *testing.T) {
	repo := &fakeProfileRepo{profiles: map[string]*domain.Profile{
		"user-1": {ID: "user-1", Email: "owner@example.com", FullName: "Pat Owner", Plan: "free"},
	}}
	h := newProfileRouter(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	req.Header.Set(auth.DevUserHeader, "user-1")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var got domain.Profile
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if got.Email != "owner@example.com" {
		t.Errorf("Unexpected profile: %+v", got)
	}
}

func TestGetProfileNotFound(t *testing.T) {
	h := newProfileRouter(t, &fakeProfileRepo{profiles: map[string]*domain.Profile{}})

	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	req.Header.Set(auth.DevUserHeader, "user-1")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for a missing profile, got %d", w.Code)
	}
}

func TestGetProfileRequiresAuth(t *testing.T) {
	h := newProfileRouter(t, &fakeProfileRepo{profiles: map[string]*domain.Profile{}})

	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without a user, got %d", w.Code)
	}
}

func TestGetProfileNoDatabase(t *testing.T) {
	h := newProfileRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	req.Header.Set(auth.DevUserHeader, "user-1")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 without a configured database, got %d", w.Code)
	}
}

func TestUpdateProfile(t *testing.T) {
	repo := &fakeProfileRepo{profiles: map[string]*domain.Profile{
		"user-1": {ID: "user-1", FullName: "Pat Owner", Plan: "free"},
	}}
	h := newProfileRouter(t, repo)

	body, _ := json.Marshal(map[string]any{"full_name": "Pat O.", "plan": "premium", "id": "evil"})
	req := httptest.NewRequest(http.MethodPut, "/api/user/profile", bytes.NewReader(body))
	req.Header.Set(auth.DevUserHeader, "user-1")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var got domain.Profile
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if got.FullName != "Pat O." || got.Plan != "premium" {
		t.Errorf("Updates not applied: %+v", got)
	}
	if got.ID != "user-1" {
		t.Errorf("Disallowed field leaked into the profile: %+v", got)
	}
}

func TestUpdateProfileEmptyBody(t *testing.T) {
	repo := &fakeProfileRepo{profiles: map[string]*domain.Profile{
		"user-1": {ID: "user-1"},
	}}
	h := newProfileRouter(t, repo)

	req := httptest.NewRequest(http.MethodPut, "/api/user/profile", bytes.NewBufferString("{}"))
	req.Header.Set(auth.DevUserHeader, "user-1")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 with nothing to update, got %d", w.Code)
	}
}

func TestUpdateProfileOnlyDisallowedFields(t *testing.T) {
	repo := &fakeProfileRepo{profiles: map[string]*domain.Profile{
		"user-1": {ID: "user-1"},
	}}
	h := newProfileRouter(t, repo)

	body, _ := json.Marshal(map[string]any{"id": "evil", "email": "spoof@example.com"})
	req := httptest.NewRequest(http.MethodPut, "/api/user/profile", bytes.NewReader(body))
	req.Header.Set(auth.DevUserHeader, "user-1")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 when every field is disallowed, got %d", w.Code)
	}
}
