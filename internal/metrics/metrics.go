// internal/metrics/metrics.go
// Registry Prometheus untuk perhitungan DCA dan HTTP

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg *prometheus.Registry

	Calculations        *prometheus.CounterVec
	CalculationDuration *prometheus.HistogramVec
	HTTPRequests        *prometheus.CounterVec
	DegenerateFits      *prometheus.CounterVec
}

// New membuat registry terpisah (bukan default global) supaya test bisa paralel.
func New() *Registry {
	m := &Registry{
		reg: prometheus.NewRegistry(),
		Calculations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dca_calculations_total",
				Help: "Method calculations by method and status (valid, no_reserves, failed)",
			},
			[]string{"method", "status"},
		),
		CalculationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dca_calculation_duration_seconds",
				Help:    "Duration of a full calculation run in seconds",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"source"},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dca_http_requests_total",
				Help: "HTTP requests by route template and status code",
			},
			[]string{"route", "status"},
		),
		DegenerateFits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dca_degenerate_fits_total",
				Help: "Regressions with zero-variance X (slope) or Y (r_squared)",
			},
			[]string{"method", "kind"},
		),
	}
	m.reg.MustRegister(
		m.Calculations,
		m.CalculationDuration,
		m.HTTPRequests,
		m.DegenerateFits,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRun mencatat durasi satu run perhitungan.
func (m *Registry) ObserveRun(source string, d time.Duration) {
	if m == nil {
		return
	}
	m.CalculationDuration.WithLabelValues(source).Observe(d.Seconds())
}

func (m *Registry) CountMethod(method, status string) {
	if m == nil {
		return
	}
	m.Calculations.WithLabelValues(method, status).Inc()
}

func (m *Registry) CountDegenerate(method, kind string) {
	if m == nil {
		return
	}
	m.DegenerateFits.WithLabelValues(method, kind).Inc()
}

func (m *Registry) CountHTTP(route string, status int) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

// Gatherer dipakai test untuk membaca nilai metric.
func (m *Registry) Gatherer() prometheus.Gatherer { return m.reg }

// Handler endpoint /metrics.
func (m *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
