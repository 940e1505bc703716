// Package pricing implements the model-pricing catalog: acquisition from a
// remote source or an offline snapshot, model-name resolution, and tiered
// cost calculation.
package pricing

import "tokencost/internal/core"

// DefaultTierThreshold is the token count beyond which above-threshold rates
// apply. Current vendor catalogs publish a single 200k tier.
const DefaultTierThreshold int64 = 200_000

// CalculateCost computes the USD cost of a usage record against one pricing
// entry. Each token category is priced independently:
//
//   - count above threshold with an above-threshold rate defined:
//     min(count, threshold)*base + (count-threshold)*above, where a nil base
//     rate counts as zero.
//   - otherwise, base rate defined: count*base.
//   - neither rate defined: zero, regardless of count. The engine never
//     invents a price.
//
// A count of exactly threshold belongs to the lower tier. The function is
// pure and total: no input produces an error or a panic.
func CalculateCost(tokens core.TokenUsage, entry core.ModelPricing, threshold int64) core.CostResult {
	result := core.CostResult{
		InputCost:         categoryCost(tokens.InputTokens, entry.InputCostPerToken, entry.InputAboveThreshold, threshold),
		OutputCost:        categoryCost(tokens.OutputTokens, entry.OutputCostPerToken, entry.OutputAboveThreshold, threshold),
		CacheCreationCost: categoryCost(tokens.CacheCreationTokens, entry.CacheCreationCostPerToken, entry.CacheCreationAboveThreshold, threshold),
		CacheReadCost:     categoryCost(tokens.CacheReadTokens, entry.CacheReadCostPerToken, entry.CacheReadAboveThreshold, threshold),
	}
	result.TotalCost = result.InputCost + result.OutputCost + result.CacheCreationCost + result.CacheReadCost
	return result
}

// categoryCost prices a single token category. Negative counts are treated
// as zero so malformed upstream records cannot produce negative costs.
func categoryCost(count int64, base, above *float64, threshold int64) float64 {
	if count <= 0 {
		return 0
	}

	if count > threshold && above != nil {
		var baseRate float64
		if base != nil {
			baseRate = *base
		}
		return float64(threshold)*baseRate + float64(count-threshold)**above
	}

	if base == nil {
		return 0
	}
	return float64(count) * *base
}
