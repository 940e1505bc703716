package core

import (
	"fmt"
	"net/http"
)

// ErrorType classifies pricing engine failures.
type ErrorType string

const (
	// ErrorTypeNetwork indicates the catalog fetch failed or returned a
	// non-success status.
	ErrorTypeNetwork ErrorType = "network_error"
	// ErrorTypeParse indicates a malformed catalog body or entry.
	ErrorTypeParse ErrorType = "parse_error"
	// ErrorTypeNotFound indicates no offline snapshot could be obtained.
	ErrorTypeNotFound ErrorType = "not_found_error"
	// ErrorTypeModelNotPriced indicates the resolver found no catalog entry
	// for a model name.
	ErrorTypeModelNotPriced ErrorType = "model_not_priced"
)

// PricingError is the base error type for the pricing engine.
type PricingError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	// Model is set for model_not_priced errors.
	Model string `json:"model,omitempty"`
	// Original error for debugging (not exposed to clients)
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *PricingError) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("%s: %s (model %q)", e.Type, e.Message, e.Model)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the error unwrapping interface.
func (e *PricingError) Unwrap() error {
	return e.Err
}

// HTTPStatusCode returns the HTTP status to report for this error.
func (e *PricingError) HTTPStatusCode() int {
	switch e.Type {
	case ErrorTypeModelNotPriced, ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeNetwork:
		return http.StatusBadGateway
	case ErrorTypeParse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ToJSON converts the error to a JSON-compatible map.
func (e *PricingError) ToJSON() map[string]interface{} {
	inner := map[string]interface{}{
		"type":    e.Type,
		"message": e.Message,
	}
	if e.Model != "" {
		inner["model"] = e.Model
	}
	return map[string]interface{}{"error": inner}
}

// NewNetworkError creates a network_error for a failed catalog fetch.
func NewNetworkError(message string, err error) *PricingError {
	return &PricingError{
		Type:    ErrorTypeNetwork,
		Message: message,
		Err:     err,
	}
}

// NewParseError creates a parse_error for a malformed catalog body.
func NewParseError(message string, err error) *PricingError {
	return &PricingError{
		Type:    ErrorTypeParse,
		Message: message,
		Err:     err,
	}
}

// NewNotFoundError creates a not_found_error for a missing offline snapshot.
func NewNotFoundError(message string) *PricingError {
	return &PricingError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewModelNotPricedError creates a model_not_priced error for an unresolved
// model name.
func NewModelNotPricedError(model string) *PricingError {
	return &PricingError{
		Type:    ErrorTypeModelNotPriced,
		Message: "no pricing entry matches model",
		Model:   model,
	}
}
