package domain

import (
	"time"
)

// Profile represents a user profile row in the hosted database.
type Profile struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	BusinessName string    `json:"business_name"`
	Plan         string    `json:"plan"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// profileUpdatableFields is the fixed allow-list for profile updates.
var profileUpdatableFields = map[string]bool{
	"full_name":     true,
	"business_name": true,
	"plan":          true,
}

// FilterProfileUpdates keeps only allow-listed fields from a raw update map.
func FilterProfileUpdates(raw map[string]any) map[string]any {
	out := make(map[string]any)
	for k, v := range raw {
		if profileUpdatableFields[k] {
			out[k] = v
		}
	}
	return out
}
