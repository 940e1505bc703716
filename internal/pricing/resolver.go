package pricing

import (
	"sort"
	"strings"

	"tokencost/internal/core"
)

// DefaultProviderPrefixes are the prefixes prepended to a caller-supplied
// model name when building candidate catalog keys. Vendor catalogs publish
// the same model under router- and platform-qualified keys; usage logs record
// whichever bare name the origin tool used.
var DefaultProviderPrefixes = []string{
	"anthropic/",
	"claude-",
	"openrouter/anthropic/",
	"openrouter/openai/",
	"bedrock/",
	"vertex_ai/",
	"gemini/",
	"openai/",
}

// Resolve matches a model name against the catalog and returns the matching
// key and entry. Exact candidates always win over substring matches:
//
//  1. The name itself, then prefix+name for each configured prefix, checked
//     in order for an exact (case-sensitive) key match.
//  2. Failing that, a case-insensitive substring scan over the catalog keys
//     in sorted order: the first key that contains the name, or is contained
//     by it, wins.
//
// Returns ok=false when nothing matches. An unmatched name is an expected
// outcome, not an error.
func Resolve(catalog core.Catalog, modelName string, prefixes []string) (key string, entry core.ModelPricing, ok bool) {
	if modelName == "" || len(catalog) == 0 {
		return "", core.ModelPricing{}, false
	}

	for _, candidate := range candidateKeys(modelName, prefixes) {
		if entry, found := catalog[candidate]; found {
			return candidate, entry, true
		}
	}

	// Substring fallback. Catalog iteration order is randomized, so scan the
	// keys in sorted order to keep resolution deterministic.
	keys := make([]string, 0, len(catalog))
	for k := range catalog {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lowerName := strings.ToLower(modelName)
	for _, k := range keys {
		lowerKey := strings.ToLower(k)
		if strings.Contains(lowerKey, lowerName) || strings.Contains(lowerName, lowerKey) {
			return k, catalog[k], true
		}
	}

	return "", core.ModelPricing{}, false
}

// candidateKeys builds the ordered, deduplicated candidate list for a model
// name: the name itself first, then each prefixed variant.
func candidateKeys(modelName string, prefixes []string) []string {
	candidates := make([]string, 0, len(prefixes)+1)
	seen := make(map[string]struct{}, len(prefixes)+1)

	add := func(c string) {
		if _, dup := seen[c]; dup {
			return
		}
		seen[c] = struct{}{}
		candidates = append(candidates, c)
	}

	add(modelName)
	for _, prefix := range prefixes {
		add(prefix + modelName)
	}
	return candidates
}
