package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"flpayroll/internal/domain/company"
	"flpayroll/internal/domain/ledger"
	"flpayroll/internal/domain/taxconfig"
	"flpayroll/internal/platform/config"
	"flpayroll/internal/platform/db"
	"flpayroll/internal/platform/metrics"
	"flpayroll/internal/transport/http/api"
	authhandler "flpayroll/internal/transport/http/handlers/auth"
	companyhandler "flpayroll/internal/transport/http/handlers/company"
	payrollhandler "flpayroll/internal/transport/http/handlers/payroll"
	reportshandler "flpayroll/internal/transport/http/handlers/reports"
	taxyearhandler "flpayroll/internal/transport/http/handlers/taxyear"
	"flpayroll/internal/transport/http/middleware"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			return err
		}
		slog.Info("migrations applied", "dir", cfg.MigrationsDir)
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			return err
		}
	}

	collector := metrics.New()
	loader := taxconfig.NewLoader(cfg.TaxDataDir)
	companies := company.NewStore(pool)
	ledgerStore := ledger.NewStore(pool)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger(collector))
	r.Use(middleware.Auth(cfg.JWTSecret))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		api.Success(w, map[string]string{"status": "ok"}, middleware.GetRequestID(req.Context()))
	})
	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		if err := pool.Ping(req.Context()); err != nil {
			api.Fail(w, http.StatusServiceUnavailable, "not_ready", "database unreachable", middleware.GetRequestID(req.Context()))
			return
		}
		api.Success(w, map[string]string{"status": "ready"}, middleware.GetRequestID(req.Context()))
	})
	if cfg.MetricsEnabled {
		r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
			api.Success(w, collector.Snapshot(), middleware.GetRequestID(req.Context()))
		})
	}

	r.Route("/api/v1", func(r chi.Router) {
		authhandler.New(pool, cfg.JWTSecret).RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			companyhandler.New(companies).RegisterRoutes(r)
			payrollhandler.New(companies, ledgerStore, loader, collector, cfg.ArtifactsDir).RegisterRoutes(r)
			reportshandler.New(companies, ledgerStore, loader, collector).RegisterRoutes(r)
			taxyearhandler.New(loader).RegisterRoutes(r)
		})
	})

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", cfg.Addr, "env", cfg.Environment)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
