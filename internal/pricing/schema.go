package pricing

import (
	"github.com/tidwall/gjson"

	"tokencost/internal/core"
)

// Catalog JSON field names, as published by the pricing endpoint.
const (
	fieldInput         = "input_cost_per_token"
	fieldOutput        = "output_cost_per_token"
	fieldCacheCreation = "cache_creation_input_token_cost"
	fieldCacheRead     = "cache_read_input_token_cost"

	fieldInputAbove         = "input_cost_per_token_above_200k_tokens"
	fieldOutputAbove        = "output_cost_per_token_above_200k_tokens"
	fieldCacheCreationAbove = "cache_creation_input_token_cost_above_200k_tokens"
	fieldCacheReadAbove     = "cache_read_input_token_cost_above_200k_tokens"

	fieldMaxTokens       = "max_tokens"
	fieldMaxInputTokens  = "max_input_tokens"
	fieldMaxOutputTokens = "max_output_tokens"
)

// ParseCatalog parses a raw catalog body into a Catalog, validating every
// entry independently. Entries that are not JSON objects or carry a
// non-numeric value in any known field are dropped, so one malformed vendor
// entry never blocks prices for the rest. Returns the number of entries
// skipped alongside the catalog.
//
// A body that is not a JSON object at the top level is a parse_error.
func ParseCatalog(raw []byte) (core.Catalog, int, error) {
	if !gjson.ValidBytes(raw) {
		return nil, 0, core.NewParseError("catalog body is not valid JSON", nil)
	}

	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return nil, 0, core.NewParseError("catalog body is not a JSON object", nil)
	}

	catalog := make(core.Catalog)
	skipped := 0

	root.ForEach(func(key, value gjson.Result) bool {
		entry, ok := parseEntry(value)
		if !ok {
			skipped++
			return true
		}
		// Keys are stored exactly as published, never normalized or
		// deduplicated by meaning.
		catalog[key.String()] = entry
		return true
	})

	return catalog, skipped, nil
}

// parseEntry validates one catalog value against the pricing entry schema.
// Unknown fields are ignored; known fields must be numeric when present.
func parseEntry(value gjson.Result) (core.ModelPricing, bool) {
	if !value.IsObject() {
		return core.ModelPricing{}, false
	}

	var entry core.ModelPricing
	ok := true

	rate := func(field string, dst **float64) {
		if !ok {
			return
		}
		v := value.Get(field)
		if !v.Exists() || v.Type == gjson.Null {
			return
		}
		if v.Type != gjson.Number {
			ok = false
			return
		}
		f := v.Float()
		*dst = &f
	}

	limit := func(field string, dst **int64) {
		if !ok {
			return
		}
		v := value.Get(field)
		if !v.Exists() || v.Type == gjson.Null {
			return
		}
		if v.Type != gjson.Number {
			ok = false
			return
		}
		n := v.Int()
		*dst = &n
	}

	rate(fieldInput, &entry.InputCostPerToken)
	rate(fieldOutput, &entry.OutputCostPerToken)
	rate(fieldCacheCreation, &entry.CacheCreationCostPerToken)
	rate(fieldCacheRead, &entry.CacheReadCostPerToken)
	rate(fieldInputAbove, &entry.InputAboveThreshold)
	rate(fieldOutputAbove, &entry.OutputAboveThreshold)
	rate(fieldCacheCreationAbove, &entry.CacheCreationAboveThreshold)
	rate(fieldCacheReadAbove, &entry.CacheReadAboveThreshold)
	limit(fieldMaxTokens, &entry.MaxTokens)
	limit(fieldMaxInputTokens, &entry.MaxInputTokens)
	limit(fieldMaxOutputTokens, &entry.MaxOutputTokens)

	if !ok {
		return core.ModelPricing{}, false
	}
	return entry, true
}
