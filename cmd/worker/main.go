// cmd/worker/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"dca-oilgas/internal/app"
	"dca-oilgas/internal/config"
	"dca-oilgas/internal/logger"
	"dca-oilgas/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.Must(cfg.LogLevel, cfg.LogFormat).Named("worker")
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config", zap.Error(err))
	}
	if !cfg.DBEnabled {
		log.Fatal("worker needs MySQL (set DB_DSN or MYSQL_HOST)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, closeDeps, err := app.Bootstrap(ctx, cfg, log)
	if err != nil {
		log.Fatal("bootstrap", zap.Error(err))
	}
	defer closeDeps()

	a := app.New(deps)
	r := &worker.Runner{
		Calc:     a.Service,
		Interval: cfg.Worker.Interval,
		Log:      log,
	}
	if err := r.Run(ctx); err != nil {
		log.Error("worker", zap.Error(err))
	}
}
