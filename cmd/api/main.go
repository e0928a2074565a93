package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/lnmedico/lnmedico-backend/api/routes"
	"github.com/lnmedico/lnmedico-backend/internal/collections"
	"github.com/lnmedico/lnmedico-backend/internal/dashboard"
	"github.com/lnmedico/lnmedico-backend/internal/inventory"
	"github.com/lnmedico/lnmedico-backend/internal/patients"
	"github.com/lnmedico/lnmedico-backend/internal/prescriptions"
	"github.com/lnmedico/lnmedico-backend/internal/reports"
	"github.com/lnmedico/lnmedico-backend/pkg/config"
	"github.com/lnmedico/lnmedico-backend/pkg/logger"
	"github.com/lnmedico/lnmedico-backend/pkg/metrics"
	"github.com/lnmedico/lnmedico-backend/pkg/storage"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := storage.Open(ctx, cfg, logg)
	requireResource(ctx, logg, "storage", err)
	defer func() {
		if err := backend.Close(); err != nil {
			logg.Error(context.Background(), "error closing storage", err)
		}
	}()

	repo, err := collections.NewRepository(backend)
	requireResource(ctx, logg, "collections repository", err)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	inventoryService, err := inventory.NewService(inventory.ServiceParams{Repo: repo, Logger: logg})
	requireResource(ctx, logg, "inventory service", err)

	patientService, err := patients.NewService(patients.ServiceParams{Repo: repo, Logger: logg})
	requireResource(ctx, logg, "patient service", err)

	prescriptionService, err := prescriptions.NewService(prescriptions.ServiceParams{
		Repo:    repo,
		Logger:  logg,
		Metrics: metrics.NewDispenseMetrics(registry),
	})
	requireResource(ctx, logg, "prescription service", err)

	dashboardService, err := dashboard.NewService(repo)
	requireResource(ctx, logg, "dashboard service", err)

	if cfg.Inventory.SeedCatalog {
		seeded, err := inventoryService.SeedDefaults(ctx)
		requireResource(ctx, logg, "catalog seed", err)
		if seeded > 0 {
			logg.Info(logg.WithField(ctx, "seeded", seeded), "default catalog seeded")
		}
	}

	renderer := reports.NewGenerator(reports.BrandingFromConfig(cfg.Report), nil)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"storage": repo.Driver(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			repo,
			registry,
			inventoryService,
			patientService,
			prescriptionService,
			dashboardService,
			renderer,
		),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
