// Package domain contains core domain types for the Reservoir application.
package domain

// ConversationContext holds business facts extracted from questionnaire
// answers. Fields are populated incrementally: scalar fields are overwritten
// by later answers, list fields append.
type ConversationContext struct {
	BusinessType string   `json:"businessType,omitempty"`
	TeamSize     string   `json:"teamSize,omitempty"`
	Industry     string   `json:"industry,omitempty"`
	Challenges   []string `json:"challenges,omitempty"`
	Tools        []string `json:"tools,omitempty"`
	Goals        []string `json:"goals,omitempty"`
	TimeSpent    string   `json:"timeSpent,omitempty"`
	Budget       string   `json:"budget,omitempty"`
	Urgency      string   `json:"urgency,omitempty"`
	TechComfort  string   `json:"techComfort,omitempty"`
}

// Clone returns a deep copy, including the list fields.
func (c *ConversationContext) Clone() ConversationContext {
	out := *c
	out.Challenges = append([]string(nil), c.Challenges...)
	out.Tools = append([]string(nil), c.Tools...)
	out.Goals = append([]string(nil), c.Goals...)
	return out
}

// HasBusinessProfile returns true once both a business type (or industry)
// and a team size are known. Used to decide when the interview can conclude
// early.
func (c *ConversationContext) HasBusinessProfile() bool {
	return (c.BusinessType != "" || c.Industry != "") && c.TeamSize != ""
}

// KnownFieldCount returns the number of populated fields, counting each
// non-empty list as one field.
func (c *ConversationContext) KnownFieldCount() int {
	n := 0
	for _, s := range []string{
		c.BusinessType, c.TeamSize, c.Industry,
		c.TimeSpent, c.Budget, c.Urgency, c.TechComfort,
	} {
		if s != "" {
			n++
		}
	}
	for _, l := range [][]string{c.Challenges, c.Tools, c.Goals} {
		if len(l) > 0 {
			n++
		}
	}
	return n
}
