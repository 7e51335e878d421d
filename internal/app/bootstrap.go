// internal/app/bootstrap.go
// Koneksi eksternal bersama untuk semua binary (api, mcp-router, worker)

package app

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"dca-oilgas/internal/config"
	"dca-oilgas/internal/llm"
	"dca-oilgas/internal/metrics"
	"dca-oilgas/pkg/db"
)

// Bootstrap membuka MySQL (kalau DBEnabled) dan client OpenAI (kalau ada
// API key). cleanup wajib dipanggil pemanggil.
func Bootstrap(ctx context.Context, cfg *config.Config, log *zap.Logger) (d Deps, cleanup func(), err error) {
	d = Deps{Config: cfg, Log: log, Metrics: metrics.New()}
	cleanup = func() {}

	if cfg.DBEnabled {
		var conn *sql.DB
		conn, err = db.NewMySQL(ctx, db.Options{
			DSN:     cfg.MySQLDSN(),
			MaxOpen: cfg.MySQL.MaxOpen,
			MaxIdle: cfg.MySQL.MaxIdle,
		})
		if err != nil {
			return d, cleanup, fmt.Errorf("mysql connect: %w", err)
		}
		d.DB = conn
		cleanup = func() { _ = conn.Close() }
		log.Info("mysql connected", zap.String("host", cfg.MySQL.Host), zap.String("db", cfg.MySQL.DB))
	}

	if cfg.LLM.APIKey != "" {
		c, err := llm.NewOpenAI(cfg.LLM.APIKey, cfg.LLM.APIBase, cfg.LLM.Model)
		if err != nil {
			cleanup()
			return d, func() {}, fmt.Errorf("openai client: %w", err)
		}
		d.LLM = c
	}
	return d, cleanup, nil
}
