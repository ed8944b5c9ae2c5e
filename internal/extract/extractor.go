// Package extract maps free-text questionnaire answers onto the bounded set
// of ConversationContext fields.
package extract

import (
	"strings"

	"github.com/reservoir-app/reservoir/internal/domain"
)

// Classifier updates a conversation context from a raw answer. The keyword
// implementation below is deliberately narrow so it can be swapped for a
// smarter classifier without touching session or rate-limit logic.
type Classifier interface {
	Update(ctx *domain.ConversationContext, answer string)
}

type rule struct {
	keywords []string
	value    string
}

// Ordered rules per scalar field: the first matching rule wins for that
// field within a single call. A later answer can still overwrite a scalar.
var businessTypeRules = []rule{
	{[]string{"e-commerce", "ecommerce", "online store", "online shop"}, "e-commerce"},
	{[]string{"saas", "software as a service"}, "saas"},
	{[]string{"agency", "consultancy", "consulting"}, "agency"},
	{[]string{"restaurant", "cafe", "food"}, "restaurant"},
	{[]string{"retail", "brick and mortar", "physical store"}, "retail"},
	{[]string{"freelance", "freelancer", "solopreneur"}, "freelance"},
	{[]string{"real estate", "realtor", "property"}, "real-estate"},
	{[]string{"healthcare", "clinic", "medical"}, "healthcare"},
}

var teamSizeRules = []rule{
	{[]string{"just me", "only me", "myself", "solo", "one person"}, "solo"},
	{[]string{"2-5", "two", "three", "four", "five", "small team"}, "2-5"},
	{[]string{"6-10", "six", "seven", "eight", "nine", "ten"}, "6-10"},
	{[]string{"11-50", "dozen", "twenty", "thirty", "forty", "fifty"}, "11-50"},
	{[]string{"50+", "hundred", "large team", "enterprise"}, "50+"},
}

var timeSpentRules = []rule{
	{[]string{"all day", "most of my time", "constantly"}, "10+ hours/week"},
	{[]string{"few hours a day", "several hours"}, "5-10 hours/week"},
	{[]string{"couple hours", "an hour or two", "not much time"}, "1-5 hours/week"},
}

var budgetRules = []rule{
	{[]string{"no budget", "nothing", "free"}, "none"},
	{[]string{"under 100", "less than 100", "small budget"}, "under-100"},
	{[]string{"100", "200", "300", "400", "500"}, "100-500"},
	{[]string{"1000", "1k", "thousand"}, "500-plus"},
}

var urgencyRules = []rule{
	{[]string{"asap", "urgent", "right away", "immediately"}, "high"},
	{[]string{"soon", "next month", "this quarter"}, "medium"},
	{[]string{"no rush", "eventually", "someday", "exploring"}, "low"},
}

var techComfortRules = []rule{
	{[]string{"not technical", "not tech", "struggle with tech"}, "low"},
	{[]string{"somewhat technical", "can figure", "comfortable enough"}, "medium"},
	{[]string{"very technical", "developer", "engineer", "i code"}, "high"},
}

// Keywords signalling an appendable mention for list-valued fields.
var challengeKeywords = []string{
	"challenge", "struggle", "problem", "pain", "difficult", "hard to",
	"time-consuming", "manual", "tedious", "overwhelmed", "bottleneck",
}

var toolKeywords = []string{
	"excel", "spreadsheet", "quickbooks", "shopify", "wordpress", "slack",
	"notion", "airtable", "hubspot", "salesforce", "mailchimp", "zapier",
	"google sheets", "stripe", "xero",
}

var goalKeywords = []string{
	"want to", "goal", "hope to", "trying to", "looking to", "plan to",
	"grow", "scale", "automate", "save time", "reduce cost",
}

// KeywordClassifier applies ordered substring-match rules per field.
type KeywordClassifier struct{}

// NewKeywordClassifier creates the default keyword-based classifier.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

// Update mutates ctx in place from a raw answer. Matching is lowercase
// substring search; list fields append without deduplication; an answer
// matching nothing at all is stored verbatim as a generic industry string.
func (k *KeywordClassifier) Update(ctx *domain.ConversationContext, answer string) {
	lower := strings.ToLower(answer)
	matched := false

	if v, ok := firstMatch(businessTypeRules, lower); ok {
		ctx.BusinessType = v
		matched = true
	}
	if v, ok := firstMatch(teamSizeRules, lower); ok {
		ctx.TeamSize = v
		matched = true
	}
	if v, ok := firstMatch(timeSpentRules, lower); ok {
		ctx.TimeSpent = v
		matched = true
	}
	if v, ok := firstMatch(budgetRules, lower); ok {
		ctx.Budget = v
		matched = true
	}
	if v, ok := firstMatch(urgencyRules, lower); ok {
		ctx.Urgency = v
		matched = true
	}
	if v, ok := firstMatch(techComfortRules, lower); ok {
		ctx.TechComfort = v
		matched = true
	}

	if containsAny(lower, challengeKeywords) {
		ctx.Challenges = append(ctx.Challenges, strings.TrimSpace(answer))
		matched = true
	}
	for _, tool := range toolKeywords {
		if strings.Contains(lower, tool) {
			ctx.Tools = append(ctx.Tools, tool)
			matched = true
		}
	}
	if containsAny(lower, goalKeywords) {
		ctx.Goals = append(ctx.Goals, strings.TrimSpace(answer))
		matched = true
	}

	// No rule hit: keep the raw answer as a generic industry hint. This can
	// misclassify, but it preserves otherwise-lost signal for the prompt.
	if !matched && ctx.Industry == "" {
		ctx.Industry = strings.TrimSpace(answer)
	}
}

func firstMatch(rules []rule, lower string) (string, bool) {
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.value, true
			}
		}
	}
	return "", false
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

var _ Classifier = (*KeywordClassifier)(nil)
