// internal/app/routes.go
package app

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"dca-oilgas/internal/config"
	hh "dca-oilgas/internal/handlers/http"
	"dca-oilgas/internal/metrics"
	"dca-oilgas/internal/middleware"
)

type RouteDeps struct {
	Config  *config.Config
	Log     *zap.Logger
	Metrics *metrics.Registry
	API     *hh.API
	Login   *hh.Login
	MCP     http.Handler
	Status  func() map[string]bool
}

// RegisterRoutes menambahkan semua route HTTP + mount router MCP.
func RegisterRoutes(r *mux.Router, d RouteDeps) {
	cfg := d.Config
	r.Use(middleware.RequestID, middleware.CORS, middleware.Logging(d.Log, d.Metrics))

	// --- no prefix ---
	r.HandleFunc("/healthz", hh.HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/readyz", hh.ReadyHandler(d.Status, readyRequirements(cfg)...)).Methods(http.MethodGet)
	r.Handle("/metrics", hh.MetricsHandler(d.Metrics)).Methods(http.MethodGet)
	r.Handle("/login", d.Login).Methods(http.MethodPost)
	r.HandleFunc("/debug/repos", hh.ReposStatusHandler(d.Status)).Methods(http.MethodGet)

	// --- /api prefix ---
	limit := middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.APIKey(cfg.Auth.APIKey))

	api.HandleFunc("/healthz", hh.HealthHandler).Methods(http.MethodGet)
	api.HandleFunc("/methods", d.API.Methods).Methods(http.MethodGet)

	calc := api.NewRoute().Subrouter()
	calc.Use(limit)
	calc.HandleFunc("/rows/prepare", d.API.PrepareRows).Methods(http.MethodPost)
	calc.HandleFunc("/calculate", d.API.Calculate).Methods(http.MethodPost)
	calc.HandleFunc("/calculate/{method}", d.API.CalculateMethod).Methods(http.MethodPost)
	calc.HandleFunc("/import", d.API.Import).Methods(http.MethodPost)
	calc.HandleFunc("/export", d.API.Export).Methods(http.MethodPost)
	calc.HandleFunc("/chart/{method}", d.API.Chart).Methods(http.MethodPost)

	// Domain endpoints (data lapangan MySQL)
	calc.HandleFunc("/fields", d.API.ListFields).Methods(http.MethodGet)
	calc.HandleFunc("/fields/calculate", d.API.CalculateFields).Methods(http.MethodPost)
	calc.HandleFunc("/fields/calculate/stream", d.API.CalculateFieldsStream).Methods(http.MethodPost)
	calc.HandleFunc("/fields/{id}/production", d.API.FieldProduction).Methods(http.MethodGet)
	calc.HandleFunc("/fields/{id}/calculate", d.API.CalculateField).Methods(http.MethodPost)

	// Asisten (planner + tool MCP + jawaban)
	calc.HandleFunc("/ask", d.API.Ask).Methods(http.MethodPost)
	calc.HandleFunc("/ask/stream", d.API.AskStream).Methods(http.MethodGet, http.MethodPost)

	// Preflight catch-all
	api.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(hh.PreflightHandler)

	// ---- MCP (chi) ----
	r.PathPrefix("/mcp/").Handler(middleware.APIKey(cfg.Auth.APIKey)(limit(d.MCP)))

	// Admin (JWT dari /login atau Basic auth)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminAuth(cfg.Auth.AdminUser, cfg.Auth.AdminPassHash, cfg.Auth.JWTSecret))
	admin.HandleFunc("/fields/{id}/upload", d.API.AdminUploadProduction).Methods(http.MethodPost)
}

func readyRequirements(cfg *config.Config) []string {
	if cfg.DBEnabled {
		return []string{"production"}
	}
	return nil
}
