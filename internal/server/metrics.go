package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus collectors for the pricing API. Registered on the default
// registry so promhttp.Handler serves them without extra wiring.
var (
	resolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tokencost_model_resolutions_total",
		Help: "Model name resolutions against the pricing catalog, by outcome.",
	}, []string{"outcome"})

	costRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tokencost_cost_requests_total",
		Help: "Cost calculation requests, by whether the model was priced.",
	}, []string{"priced"})

	catalogModels = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tokencost_catalog_models",
		Help: "Number of entries in the loaded pricing catalog.",
	})
)
