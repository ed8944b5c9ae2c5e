// Package prompt renders completion prompts for the questionnaire flow.
package prompt

import (
	"fmt"
	"strings"

	"github.com/reservoir-app/reservoir/internal/domain"
)

const systemPrompt = `You are an automation consultant interviewing a business owner.
Ask one concise question at a time to uncover automation opportunities.
Never repeat a question that was already answered.

Return strict JSON object:
{"question":"...","quickResponses":["...","..."],"isComplete":false,"reasoning":"..."}`

const nextQuestionTemplate = `Known business context:
%s

Answers so far (%d):
%s

Questions asked so far: %d of %d.
Generate the next interview question. Prefer quick responses the owner can tap.`

const extractionTemplate = `Extract structured business intelligence from the text below.

Return strict JSON object:
{"businessType":"...","teamSize":"...","industry":"...","challenges":["..."],"tools":["..."],"goals":["..."],"timeSpent":"...","budget":"...","urgency":"...","techComfort":"..."}

Text:
%s`

// System returns the fixed system prompt for question generation.
func System() string {
	return systemPrompt
}

// NextQuestion renders the user prompt for the next interview question by
// substituting known context and answer history into the fixed template.
func NextQuestion(ctx *domain.ConversationContext, answers []string, questionCount, maxQuestions int) string {
	return fmt.Sprintf(nextQuestionTemplate,
		renderContext(ctx),
		len(answers),
		renderAnswers(answers),
		questionCount, maxQuestions,
	)
}

// Extraction renders the business-intelligence extraction prompt.
func Extraction(text string) string {
	return fmt.Sprintf(extractionTemplate, text)
}

func renderContext(ctx *domain.ConversationContext) string {
	if ctx == nil {
		return "(nothing known yet)"
	}

	var b strings.Builder
	appendField(&b, "business type", ctx.BusinessType)
	appendField(&b, "team size", ctx.TeamSize)
	appendField(&b, "industry", ctx.Industry)
	appendField(&b, "time spent on manual work", ctx.TimeSpent)
	appendField(&b, "budget", ctx.Budget)
	appendField(&b, "urgency", ctx.Urgency)
	appendField(&b, "technical comfort", ctx.TechComfort)
	appendList(&b, "challenges", ctx.Challenges)
	appendList(&b, "tools", ctx.Tools)
	appendList(&b, "goals", ctx.Goals)

	if b.Len() == 0 {
		return "(nothing known yet)"
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderAnswers(answers []string) string {
	if len(answers) == 0 {
		return "(none)"
	}
	var b strings.Builder
	for i, a := range answers {
		fmt.Fprintf(&b, "%d. %s\n", i+1, a)
	}
	return strings.TrimRight(b.String(), "\n")
}

func appendField(b *strings.Builder, label, value string) {
	if value != "" {
		fmt.Fprintf(b, "- %s: %s\n", label, value)
	}
}

func appendList(b *strings.Builder, label string, values []string) {
	if len(values) > 0 {
		fmt.Fprintf(b, "- %s: %s\n", label, strings.Join(values, "; "))
	}
}
