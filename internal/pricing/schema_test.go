package pricing

import (
	"errors"
	"testing"

	"tokencost/internal/core"
)

func TestParseCatalog_ValidEntries(t *testing.T) {
	raw := []byte(`{
		"claude-sonnet-4-20250514": {
			"input_cost_per_token": 3e-06,
			"output_cost_per_token": 1.5e-05,
			"cache_creation_input_token_cost": 3.75e-06,
			"cache_read_input_token_cost": 3e-07,
			"max_tokens": 64000,
			"max_input_tokens": 200000,
			"max_output_tokens": 64000,
			"litellm_provider": "anthropic",
			"mode": "chat"
		},
		"gemini/gemini-2.5-pro": {
			"input_cost_per_token": 1.25e-06,
			"output_cost_per_token": 1e-05,
			"input_cost_per_token_above_200k_tokens": 2.5e-06,
			"output_cost_per_token_above_200k_tokens": 1.5e-05
		}
	}`)

	catalog, skipped, err := ParseCatalog(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0", skipped)
	}
	if len(catalog) != 2 {
		t.Fatalf("catalog size = %d, want 2", len(catalog))
	}

	sonnet := catalog["claude-sonnet-4-20250514"]
	if sonnet.InputCostPerToken == nil || *sonnet.InputCostPerToken != 3e-06 {
		t.Error("input rate not parsed")
	}
	if sonnet.MaxInputTokens == nil || *sonnet.MaxInputTokens != 200000 {
		t.Error("max_input_tokens not parsed")
	}
	if sonnet.InputAboveThreshold != nil {
		t.Error("absent tiered rate should stay nil")
	}

	gemini := catalog["gemini/gemini-2.5-pro"]
	if gemini.InputAboveThreshold == nil || *gemini.InputAboveThreshold != 2.5e-06 {
		t.Error("tiered input rate not parsed")
	}
	if gemini.CacheReadCostPerToken != nil {
		t.Error("absent cache-read rate should stay nil")
	}
}

func TestParseCatalog_SkipsMalformedEntries(t *testing.T) {
	// One entry has a string where a number belongs, one is not an object.
	// Both must be skipped without dropping the healthy entry.
	raw := []byte(`{
		"sample_spec": {
			"input_cost_per_token": "the cost per input token",
			"output_cost_per_token": "the cost per output token"
		},
		"not-an-object": 42,
		"gpt-4o": {
			"input_cost_per_token": 2.5e-06,
			"output_cost_per_token": 1e-05
		}
	}`)

	catalog, skipped, err := ParseCatalog(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if skipped != 2 {
		t.Errorf("skipped = %d, want 2", skipped)
	}
	if len(catalog) != 1 {
		t.Fatalf("catalog size = %d, want 1", len(catalog))
	}
	if _, ok := catalog["gpt-4o"]; !ok {
		t.Error("healthy entry missing from catalog")
	}
}

func TestParseCatalog_NullFieldsIgnored(t *testing.T) {
	raw := []byte(`{"m": {"input_cost_per_token": null, "output_cost_per_token": 1e-06}}`)

	catalog, skipped, err := ParseCatalog(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0", skipped)
	}
	entry := catalog["m"]
	if entry.InputCostPerToken != nil {
		t.Error("null rate should parse as absent")
	}
	if entry.OutputCostPerToken == nil {
		t.Error("numeric rate should parse")
	}
}

func TestParseCatalog_InvalidJSON(t *testing.T) {
	_, _, err := ParseCatalog([]byte("not json"))
	assertErrorType(t, err, core.ErrorTypeParse)
}

func TestParseCatalog_NonObjectBody(t *testing.T) {
	_, _, err := ParseCatalog([]byte(`["a", "b"]`))
	assertErrorType(t, err, core.ErrorTypeParse)
}

func TestParseCatalog_EmptyObject(t *testing.T) {
	catalog, skipped, err := ParseCatalog([]byte(`{}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(catalog) != 0 || skipped != 0 {
		t.Errorf("got (%d entries, %d skipped), want empty", len(catalog), skipped)
	}
}

func assertErrorType(t *testing.T, err error, want core.ErrorType) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	var pErr *core.PricingError
	if !errors.As(err, &pErr) {
		t.Fatalf("expected *core.PricingError, got %T", err)
	}
	if pErr.Type != want {
		t.Errorf("error type = %s, want %s", pErr.Type, want)
	}
}
