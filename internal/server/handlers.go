// Package server provides HTTP handlers and server setup for the pricing API.
package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"tokencost/internal/core"
	"tokencost/internal/pricing"
)

// Handler holds the HTTP handlers.
type Handler struct {
	service *pricing.Service
}

// NewHandler creates a new handler backed by the given pricing service.
func NewHandler(service *pricing.Service) *Handler {
	return &Handler{service: service}
}

// Health handles GET /health.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":         "ok",
		"models":         h.service.ModelCount(),
		"catalog_source": h.service.CatalogOrigin(),
	})
}

// pricingResponse is the body for GET /v1/pricing.
type pricingResponse struct {
	Model      string            `json:"model"`
	MatchedKey string            `json:"matched_key"`
	Pricing    core.ModelPricing `json:"pricing"`
}

// GetPricing handles GET /v1/pricing?model=NAME.
func (h *Handler) GetPricing(c echo.Context) error {
	model := c.QueryParam("model")
	if model == "" {
		return badRequest(c, "missing required query parameter: model")
	}

	key, entry, err := h.service.GetModelPricing(c.Request().Context(), model)
	if err != nil {
		resolutionsTotal.WithLabelValues("miss").Inc()
		return handleError(c, err)
	}
	resolutionsTotal.WithLabelValues("hit").Inc()
	catalogModels.Set(float64(h.service.ModelCount()))

	return c.JSON(http.StatusOK, pricingResponse{
		Model:      model,
		MatchedKey: key,
		Pricing:    entry,
	})
}

// limitsResponse is the body for GET /v1/limits.
type limitsResponse struct {
	Model        string `json:"model"`
	ContextLimit int64  `json:"context_limit"`
}

// GetLimits handles GET /v1/limits?model=NAME.
func (h *Handler) GetLimits(c echo.Context) error {
	model := c.QueryParam("model")
	if model == "" {
		return badRequest(c, "missing required query parameter: model")
	}

	limit, err := h.service.GetModelContextLimit(c.Request().Context(), model)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(http.StatusOK, limitsResponse{
		Model:        model,
		ContextLimit: limit,
	})
}

// costRequest is the body for POST /v1/cost.
type costRequest struct {
	Model  string          `json:"model"`
	Tokens core.TokenUsage `json:"tokens"`
}

// costResponse is the body for POST /v1/cost. Priced is false when the model
// did not resolve; the cost fields are then all zero and Caveat explains why.
type costResponse struct {
	Model  string          `json:"model"`
	Priced bool            `json:"priced"`
	Cost   core.CostResult `json:"cost"`
	Caveat string          `json:"caveat,omitempty"`
}

// CalculateCost handles POST /v1/cost. An unresolved model is not an error:
// the response reports a zero cost with priced set to false, so batch callers
// pricing mixed workloads never fail mid-run over one unknown model.
func (h *Handler) CalculateCost(c echo.Context) error {
	var req costRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body: "+err.Error())
	}
	if req.Model == "" {
		return badRequest(c, "missing required field: model")
	}

	result, err := h.service.CalculateCostFromTokens(c.Request().Context(), req.Model, req.Tokens)
	if err != nil {
		var perr *core.PricingError
		if errors.As(err, &perr) && perr.Type == core.ErrorTypeModelNotPriced {
			slog.Warn("cost requested for unpriced model", "model", req.Model)
			costRequestsTotal.WithLabelValues("false").Inc()
			return c.JSON(http.StatusOK, costResponse{
				Model:  req.Model,
				Priced: false,
				Caveat: "no pricing entry matches this model; cost reported as zero",
			})
		}
		return handleError(c, err)
	}

	costRequestsTotal.WithLabelValues("true").Inc()
	return c.JSON(http.StatusOK, costResponse{
		Model:  req.Model,
		Priced: true,
		Cost:   result,
	})
}

// RefreshCatalog handles POST /v1/catalog/refresh. Drops the in-memory
// catalog and reloads it from the configured sources.
func (h *Handler) RefreshCatalog(c echo.Context) error {
	h.service.ClearCache()
	catalog, err := h.service.FetchCatalog(c.Request().Context())
	if err != nil {
		return handleError(c, err)
	}
	catalogModels.Set(float64(len(catalog)))

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":         "reloaded",
		"models":         len(catalog),
		"catalog_source": h.service.CatalogOrigin(),
	})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, map[string]interface{}{
		"error": map[string]interface{}{
			"type":    "invalid_request_error",
			"message": message,
		},
	})
}

// handleError converts pricing errors to appropriate HTTP responses.
func handleError(c echo.Context, err error) error {
	var perr *core.PricingError
	if errors.As(err, &perr) {
		return c.JSON(perr.HTTPStatusCode(), perr.ToJSON())
	}

	slog.Error("unexpected error in handler", "error", err)
	return c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"error": map[string]interface{}{
			"type":    "internal_error",
			"message": "internal server error",
		},
	})
}
