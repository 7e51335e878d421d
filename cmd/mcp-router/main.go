// cmd/mcp-router/main.go
// Router MCP berdiri sendiri (tanpa REST API), port MCP_PORT.

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"dca-oilgas/internal/app"
	"dca-oilgas/internal/config"
	hh "dca-oilgas/internal/handlers/http"
	"dca-oilgas/internal/logger"
	"dca-oilgas/internal/middleware"
)

func main() {
	cfg := config.Load()
	log := logger.Must(cfg.LogLevel, cfg.LogFormat).Named("mcp-router")
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, closeDeps, err := app.Bootstrap(ctx, cfg, log)
	if err != nil {
		log.Fatal("bootstrap", zap.Error(err))
	}
	defer closeDeps()

	a := app.New(deps)

	r := chi.NewRouter()
	r.Use(chimw.RealIP, chimw.Recoverer, middleware.RequestID)
	r.Get("/healthz", hh.HealthHandler)
	r.Get("/readyz", hh.ReadyHandler(a.Tools.ReposStatus))
	r.Mount("/", middleware.APIKey(cfg.Auth.APIKey)(
		middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst)(a.MCP),
	))

	srv := &http.Server{
		Addr:              ":" + cfg.MCPPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("MCP router listening", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("listen", zap.Error(err))
	}
}
