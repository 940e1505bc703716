// Package core provides the shared types and error taxonomy for the pricing engine.
package core

// ModelPricing holds per-token USD rates for one model, as published by the
// catalog. Every rate is optional: a nil pointer means the catalog carries no
// information for that category, which is not the same as a zero rate. The
// engine never substitutes a price for a nil rate.
type ModelPricing struct {
	InputCostPerToken         *float64 `json:"input_cost_per_token,omitempty"`
	OutputCostPerToken        *float64 `json:"output_cost_per_token,omitempty"`
	CacheCreationCostPerToken *float64 `json:"cache_creation_input_token_cost,omitempty"`
	CacheReadCostPerToken     *float64 `json:"cache_read_input_token_cost,omitempty"`

	// Tiered rates applied to the portion of a count beyond the tier
	// threshold (200k tokens for current vendor catalogs).
	InputAboveThreshold         *float64 `json:"input_cost_per_token_above_200k_tokens,omitempty"`
	OutputAboveThreshold        *float64 `json:"output_cost_per_token_above_200k_tokens,omitempty"`
	CacheCreationAboveThreshold *float64 `json:"cache_creation_input_token_cost_above_200k_tokens,omitempty"`
	CacheReadAboveThreshold     *float64 `json:"cache_read_input_token_cost_above_200k_tokens,omitempty"`

	MaxTokens       *int64 `json:"max_tokens,omitempty"`
	MaxInputTokens  *int64 `json:"max_input_tokens,omitempty"`
	MaxOutputTokens *int64 `json:"max_output_tokens,omitempty"`
}

// ContextLimit returns the model's context window in tokens.
// Prefers max_input_tokens, falling back to max_tokens. The second return
// value is false when the catalog carries neither.
func (p ModelPricing) ContextLimit() (int64, bool) {
	if p.MaxInputTokens != nil {
		return *p.MaxInputTokens, true
	}
	if p.MaxTokens != nil {
		return *p.MaxTokens, true
	}
	return 0, false
}

// Catalog maps vendor-published model names to their pricing entries.
// Keys are stored exactly as published: "claude-opus-4" and
// "anthropic/claude-opus-4" may coexist as distinct keys. Resolution, not
// data cleaning, handles that ambiguity. A Catalog is built once per load and
// replaced wholesale on refresh, never mutated in place.
type Catalog map[string]ModelPricing

// TokenUsage holds the token counts for one usage record or aggregate.
type TokenUsage struct {
	InputTokens         int64 `json:"input_tokens"`
	OutputTokens        int64 `json:"output_tokens"`
	CacheCreationTokens int64 `json:"cache_creation_tokens"`
	CacheReadTokens     int64 `json:"cache_read_tokens"`
}

// IsZero reports whether every count is zero.
func (u TokenUsage) IsZero() bool {
	return u.InputTokens == 0 && u.OutputTokens == 0 &&
		u.CacheCreationTokens == 0 && u.CacheReadTokens == 0
}

// CostResult holds the outcome of a cost calculation in USD, broken down by
// token category. Categories without a defined rate contribute zero.
type CostResult struct {
	InputCost         float64 `json:"input_cost"`
	OutputCost        float64 `json:"output_cost"`
	CacheCreationCost float64 `json:"cache_creation_cost"`
	CacheReadCost     float64 `json:"cache_read_cost"`
	TotalCost         float64 `json:"total_cost"`
}
