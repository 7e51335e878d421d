// internal/app/app.go
package app

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"dca-oilgas/internal/config"
	hh "dca-oilgas/internal/handlers/http"
	mcphandlers "dca-oilgas/internal/handlers/mcp"
	"dca-oilgas/internal/llm"
	"dca-oilgas/internal/mcp"
	"dca-oilgas/internal/metrics"
	mysqlrepo "dca-oilgas/internal/repositories/mysql"
	"dca-oilgas/internal/services"
	"dca-oilgas/internal/util"
)

// Deps dependensi eksternal App. DB dan LLM boleh nil.
type Deps struct {
	Config  *config.Config
	Log     *zap.Logger
	Metrics *metrics.Registry
	DB      *sql.DB
	LLM     llm.Client
	Clock   util.Clock
}

// App menampung router utama
type App struct {
	Router   *mux.Router
	Service  *services.ReservesService
	Registry *mcp.Registry
	Tools    *mcphandlers.Tools
	Repo     *mysqlrepo.ProductionRepo // nil tanpa DB
	MCP      http.Handler
	Log      *zap.Logger
}

// New membuat instance App + registrasi semua routes (HTTP & MCP)
func New(d Deps) *App {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Metrics == nil {
		d.Metrics = metrics.New()
	}
	if d.Clock == nil {
		d.Clock = util.RealClock{}
	}
	cfg := d.Config

	var (
		repo   *mysqlrepo.ProductionRepo
		src    services.ProductionSource
		writer hh.ProductionWriter
	)
	if d.DB != nil {
		repo = &mysqlrepo.ProductionRepo{DB: d.DB}
		src, writer = repo, repo
	} else {
		d.Log.Warn("production database not configured; field endpoints return 503")
	}

	svc := services.NewReservesService(src, cfg.CalcOptions(), cfg.Worker.Concurrency, d.Log.Named("reserves"), d.Metrics)

	// ---- MCP (Model Context Protocol) ----
	reg := mcp.NewRegistry()
	tools := &mcphandlers.Tools{
		Svc:      svc,
		Narrator: llm.NewNarrator(d.LLM, d.Log.Named("narrator")),
		Log:      d.Log.Named("mcp"),
	}
	tools.Register(reg)

	assistant := services.NewAssistant(reg, d.LLM, d.Log.Named("assistant"))

	mcpRouter := mcp.NewRouter(reg, d.Log.Named("mcp"))
	r := mux.NewRouter()
	RegisterRoutes(r, RouteDeps{
		Config:  cfg,
		Log:     d.Log,
		Metrics: d.Metrics,
		API:     &hh.API{Svc: svc, Writer: writer, Assistant: assistant, Log: d.Log.Named("api")},
		Login: &hh.Login{
			AdminUser:     cfg.Auth.AdminUser,
			AdminPassHash: cfg.Auth.AdminPassHash,
			JWTSecret:     cfg.Auth.JWTSecret,
			Clock:         d.Clock,
		},
		MCP:    mcpRouter,
		Status: tools.ReposStatus,
	})

	return &App{Router: r, Service: svc, Registry: reg, Tools: tools, Repo: repo, MCP: mcpRouter, Log: d.Log}
}

// EnsureSchema membuat tabel produksi kalau DB dikonfigurasi.
func (a *App) EnsureSchema(ctx context.Context) error {
	if a.Repo == nil {
		return nil
	}
	return a.Repo.EnsureSchema(ctx)
}

// Run menjalankan server HTTP sampai ctx selesai, lalu shutdown graceful.
func (a *App) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("server running", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	a.Log.Info("server shutting down")
	return srv.Shutdown(shutdownCtx)
}
