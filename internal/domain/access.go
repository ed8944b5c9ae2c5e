package domain

import (
	"time"
)

// AccessSessionTTL is how long an issued access session stays valid.
const AccessSessionTTL = 24 * time.Hour

// AccessSession is the client-held token granting entry to premium routes.
// It is not cryptographically signed; the gate validates shape and age only.
type AccessSession struct {
	SessionID    string    `json:"sessionId"`
	AccessCodeID string    `json:"accessCodeId"`
	MemberName   string    `json:"memberName,omitempty"`
	IssuedAt     time.Time `json:"issuedAt"`
}

// WellFormed reports whether both identifier fields are present.
func (a *AccessSession) WellFormed() bool {
	return a.SessionID != "" && a.AccessCodeID != ""
}

// Valid reports whether the session is well formed and was issued within the
// access TTL. Expiry is enforced here and at the gate uniformly.
func (a *AccessSession) Valid(now time.Time) bool {
	if !a.WellFormed() {
		return false
	}
	if a.IssuedAt.IsZero() {
		return false
	}
	return now.Sub(a.IssuedAt) <= AccessSessionTTL
}
