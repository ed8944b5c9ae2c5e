package llm

// DefaultCostPerToken is a blended per-token price estimate used for the
// usage counters shown to the user. Billing truth lives with the provider.
const DefaultCostPerToken = 0.000002

// EstimateTokens estimates the token count for a text using a Unicode-aware
// heuristic: ~4 ASCII characters per token, ~1 non-ASCII character per token.
// Used when the provider does not report usage (fallback paths).
func EstimateTokens(text string) int {
	weight := 0
	for _, r := range text {
		if r <= 127 {
			weight++
		} else {
			weight += 4
		}
	}
	return (weight + 3) / 4
}

// EstimateCost converts a token count into an estimated dollar cost.
func EstimateCost(tokens int) float64 {
	return float64(tokens) * DefaultCostPerToken
}
