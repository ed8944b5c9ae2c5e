package extract

import (
	"testing"

	"github.com/reservoir-app/reservoir/internal/domain"
)

func TestBusinessTypeFirstMatchWins(t *testing.T) {
	k := NewKeywordClassifier()
	ctx := &domain.ConversationContext{}

	k.Update(ctx, "I run an e-commerce store, basically a retail shop online")

	if ctx.BusinessType != "e-commerce" {
		t.Errorf("Expected businessType e-commerce, got %q", ctx.BusinessType)
	}
}

func TestTeamSizeSolo(t *testing.T) {
	k := NewKeywordClassifier()
	ctx := &domain.ConversationContext{}

	k.Update(ctx, "It's just me for now")

	if ctx.TeamSize != "solo" {
		t.Errorf("Expected teamSize solo, got %q", ctx.TeamSize)
	}
}

func TestScalarOverwrittenOnLaterTurn(t *testing.T) {
	k := NewKeywordClassifier()
	ctx := &domain.ConversationContext{}

	k.Update(ctx, "we're a saas company")
	k.Update(ctx, "actually more of an agency these days")

	if ctx.BusinessType != "agency" {
		t.Errorf("Expected later turn to overwrite businessType, got %q", ctx.BusinessType)
	}
}

func TestListFieldsAppendWithoutDedup(t *testing.T) {
	k := NewKeywordClassifier()
	ctx := &domain.ConversationContext{}

	k.Update(ctx, "we use excel for everything")
	k.Update(ctx, "mostly excel and shopify")

	if len(ctx.Tools) != 3 {
		t.Fatalf("Expected 3 tool mentions (with duplicate), got %d: %v", len(ctx.Tools), ctx.Tools)
	}
	if ctx.Tools[0] != "excel" || ctx.Tools[1] != "excel" || ctx.Tools[2] != "shopify" {
		t.Errorf("Unexpected tools: %v", ctx.Tools)
	}
}

func TestChallengesCaptureFullAnswer(t *testing.T) {
	k := NewKeywordClassifier()
	ctx := &domain.ConversationContext{}

	answer := "My biggest struggle is manual invoicing"
	k.Update(ctx, answer)

	if len(ctx.Challenges) != 1 || ctx.Challenges[0] != answer {
		t.Errorf("Expected challenge %q recorded, got %v", answer, ctx.Challenges)
	}
}

func TestUnmatchedAnswerFallsBackToIndustry(t *testing.T) {
	k := NewKeywordClassifier()
	ctx := &domain.ConversationContext{}

	k.Update(ctx, "Artisanal candle making")

	if ctx.Industry != "Artisanal candle making" {
		t.Errorf("Expected unmatched answer stored as industry, got %q", ctx.Industry)
	}
}

func TestIndustryFallbackDoesNotOverwrite(t *testing.T) {
	k := NewKeywordClassifier()
	ctx := &domain.ConversationContext{Industry: "candles"}

	k.Update(ctx, "something entirely unrelated")

	if ctx.Industry != "candles" {
		t.Errorf("Expected existing industry kept, got %q", ctx.Industry)
	}
}

func TestHasBusinessProfile(t *testing.T) {
	ctx := &domain.ConversationContext{}
	if ctx.HasBusinessProfile() {
		t.Error("Empty context should not have a business profile")
	}

	ctx.BusinessType = "saas"
	if ctx.HasBusinessProfile() {
		t.Error("Business type alone should not complete the profile")
	}

	ctx.TeamSize = "solo"
	if !ctx.HasBusinessProfile() {
		t.Error("Business type plus team size should complete the profile")
	}
}
