// internal/handlers/http/metrics_handler.go
// Handler untuk metrics Prometheus

package http

import (
	"net/http"

	"dca-oilgas/internal/metrics"
)

func MetricsHandler(m *metrics.Registry) http.Handler {
	return m.Handler()
}
