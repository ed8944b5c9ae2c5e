// Package accessgate provides edge middleware guarding premium routes with a
// client-held access session token.
package accessgate

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/reservoir-app/reservoir/internal/domain"
)

const (
	// CookieName is where the client keeps its access session.
	CookieName = "reservoir_access_session"
	// HeaderName is the header fallback for clients that cannot send cookies.
	HeaderName = "X-Access-Session"
)

// DefaultGuardedPrefixes are the path prefixes the gate applies to.
var DefaultGuardedPrefixes = []string{
	"/questionnaire",
	"/api/questionnaire",
	"/report",
	"/sample-report",
}

// Gate checks access sessions on guarded path prefixes.
type Gate struct {
	prefixes    []string
	redirectURL string
	now         func() time.Time
}

// New creates a gate over the given prefixes. Failed page requests are
// redirected to redirectURL with an error query parameter; failed /api/
// requests get a JSON 401 instead, since redirecting an API caller to an
// HTML page helps nobody.
func New(prefixes []string, redirectURL string) *Gate {
	if len(prefixes) == 0 {
		prefixes = DefaultGuardedPrefixes
	}
	if redirectURL == "" {
		redirectURL = "/"
	}
	return &Gate{prefixes: prefixes, redirectURL: redirectURL, now: time.Now}
}

// Middleware returns the gate as chi-compatible middleware.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.guarded(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		access, reason := g.sessionFromRequest(r)
		if access == nil {
			g.deny(w, r, reason)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (g *Gate) guarded(path string) bool {
	for _, p := range g.prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// sessionFromRequest decodes and validates the access session. The token is
// unsigned; validity is shape plus age, nothing more.
func (g *Gate) sessionFromRequest(r *http.Request) (*domain.AccessSession, string) {
	raw := ""
	if c, err := r.Cookie(CookieName); err == nil {
		raw = c.Value
	}
	if raw == "" {
		raw = r.Header.Get(HeaderName)
	}
	if raw == "" {
		return nil, "missing_access_session"
	}

	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		// Cookies may arrive URL-escaped depending on how the client stored
		// them.
		if unescaped, uerr := url.QueryUnescape(raw); uerr == nil {
			decoded, err = base64.StdEncoding.DecodeString(unescaped)
		}
		if err != nil {
			return nil, "malformed_access_session"
		}
	}

	var access domain.AccessSession
	if err := json.Unmarshal(decoded, &access); err != nil {
		return nil, "malformed_access_session"
	}
	if !access.WellFormed() {
		return nil, "invalid_access_session"
	}
	if !access.Valid(g.now()) {
		return nil, "expired_access_session"
	}
	return &access, ""
}

func (g *Gate) deny(w http.ResponseWriter, r *http.Request, reason string) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": reason})
		return
	}

	target := g.redirectURL + "?error=" + url.QueryEscape(reason)
	http.Redirect(w, r, target, http.StatusFound)
}

// EncodeSession serializes an access session the way clients store it:
// base64 over JSON.
func EncodeSession(access *domain.AccessSession) (string, error) {
	b, err := json.Marshal(access)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
