package core

import (
	"errors"
	"net/http"
	"testing"
)

func TestPricingError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *PricingError
		expected string
	}{
		{
			name: "error with model",
			err: &PricingError{
				Type:    ErrorTypeModelNotPriced,
				Message: "no pricing entry matches model",
				Model:   "claude-opus-4",
			},
			expected: `model_not_priced: no pricing entry matches model (model "claude-opus-4")`,
		},
		{
			name: "error without model",
			err: &PricingError{
				Type:    ErrorTypeNetwork,
				Message: "fetch failed",
			},
			expected: "network_error: fetch failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestPricingError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	pricingErr := NewNetworkError("wrapped error", originalErr)

	if unwrapped := pricingErr.Unwrap(); unwrapped != originalErr {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, originalErr)
	}
	if !errors.Is(pricingErr, originalErr) {
		t.Error("errors.Is should find the original error")
	}
}

func TestPricingError_HTTPStatusCode(t *testing.T) {
	tests := []struct {
		name     string
		err      *PricingError
		expected int
	}{
		{"model not priced", NewModelNotPricedError("gpt-5"), http.StatusNotFound},
		{"snapshot not found", NewNotFoundError("no snapshot"), http.StatusNotFound},
		{"network", NewNetworkError("boom", nil), http.StatusBadGateway},
		{"parse", NewParseError("bad json", nil), http.StatusBadGateway},
		{"unknown type", &PricingError{Type: "weird"}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.HTTPStatusCode(); got != tt.expected {
				t.Errorf("HTTPStatusCode() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestPricingError_ToJSON(t *testing.T) {
	err := NewModelNotPricedError("mistral-large")
	payload := err.ToJSON()

	inner, ok := payload["error"].(map[string]interface{})
	if !ok {
		t.Fatal("expected error key with map value")
	}
	if inner["type"] != ErrorTypeModelNotPriced {
		t.Errorf("type = %v, want %v", inner["type"], ErrorTypeModelNotPriced)
	}
	if inner["model"] != "mistral-large" {
		t.Errorf("model = %v, want mistral-large", inner["model"])
	}
}

func TestModelPricing_ContextLimit(t *testing.T) {
	i64 := func(n int64) *int64 { return &n }

	tests := []struct {
		name    string
		pricing ModelPricing
		want    int64
		wantOK  bool
	}{
		{"max_input_tokens preferred", ModelPricing{MaxTokens: i64(8192), MaxInputTokens: i64(200000)}, 200000, true},
		{"max_tokens fallback", ModelPricing{MaxTokens: i64(8192)}, 8192, true},
		{"no limits", ModelPricing{}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.pricing.ContextLimit()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ContextLimit() = (%d, %v), want (%d, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
