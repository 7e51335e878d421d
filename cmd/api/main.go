// cmd/api/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"dca-oilgas/internal/app"
	"dca-oilgas/internal/config"
	"dca-oilgas/internal/logger"
)

// BuildVersion diisi saat ldflags
var BuildVersion = "dev"

func main() {
	cfg := config.Load()
	log := logger.Must(cfg.LogLevel, cfg.LogFormat).With(
		zap.String("app", cfg.AppName),
		zap.String("version", BuildVersion),
	)
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

	schemaCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	err = a.EnsureSchema(schemaCtx)
	cancel()
	if err != nil {
		log.Fatal("ensure schema", zap.Error(err))
	}

	if err := a.Run(ctx, ":"+cfg.AppPort); err != nil {
		log.Fatal("server", zap.Error(err))
	}
	log.Info("server stopped")
}
