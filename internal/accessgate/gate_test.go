package accessgate

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/reservoir-app/reservoir/internal/domain"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func validSession(t *testing.T) string {
	t.Helper()
	raw, err := EncodeSession(&domain.AccessSession{
		SessionID:    "sess-1",
		AccessCodeID: "code-1",
		MemberName:   "Dana",
		IssuedAt:     time.Now(),
	})
	if err != nil {
		t.Fatalf("EncodeSession failed: %v", err)
	}
	return raw
}

func TestUnguardedPathPassesThrough(t *testing.T) {
	gate := New(nil, "/")
	srv := gate.Middleware(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 for unguarded path, got %d", w.Code)
	}
}

func TestMissingSessionRedirectsPageRoute(t *testing.T) {
	gate := New(nil, "/join")
	srv := gate.Middleware(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/report", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("Expected 302, got %d", w.Code)
	}
	loc := w.Header().Get("Location")
	if !strings.HasPrefix(loc, "/join?error=") {
		t.Errorf("Expected redirect with error param, got %q", loc)
	}
}

func TestMissingSessionRejectsAPIRouteWithJSON(t *testing.T) {
	gate := New(nil, "/join")
	srv := gate.Middleware(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/questionnaire/next-question", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for API route, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected JSON error, got content type %q", ct)
	}
}

func TestValidCookiePasses(t *testing.T) {
	gate := New(nil, "/")
	srv := gate.Middleware(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/questionnaire", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: validSession(t)})
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 with valid session, got %d", w.Code)
	}
}

func TestHeaderFallbackPasses(t *testing.T) {
	gate := New(nil, "/")
	srv := gate.Middleware(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/sample-report", nil)
	req.Header.Set(HeaderName, validSession(t))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 with header session, got %d", w.Code)
	}
}

func TestStructurallyInvalidSessionDenied(t *testing.T) {
	gate := New(nil, "/join")
	srv := gate.Middleware(okHandler())

	raw, err := EncodeSession(&domain.AccessSession{
		SessionID: "sess-only",
		IssuedAt:  time.Now(),
	})
	if err != nil {
		t.Fatalf("EncodeSession failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/report", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: raw})
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Errorf("Expected redirect for incomplete session, got %d", w.Code)
	}
}

func TestExpiredSessionDenied(t *testing.T) {
	gate := New(nil, "/join")
	srv := gate.Middleware(okHandler())

	raw, err := EncodeSession(&domain.AccessSession{
		SessionID:    "sess-1",
		AccessCodeID: "code-1",
		IssuedAt:     time.Now().Add(-25 * time.Hour),
	})
	if err != nil {
		t.Fatalf("EncodeSession failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/report", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: raw})
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("Expected redirect for expired session, got %d", w.Code)
	}
	if !strings.Contains(w.Header().Get("Location"), "expired_access_session") {
		t.Errorf("Expected expired error reason, got %q", w.Header().Get("Location"))
	}
}

func TestGarbageTokenDenied(t *testing.T) {
	gate := New(nil, "/join")
	srv := gate.Middleware(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/report", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "not-base64!!!"})
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Errorf("Expected redirect for garbage token, got %d", w.Code)
	}
}
