package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/foodcart-engine/api/routes"
	"github.com/angelmondragon/foodcart-engine/internal/catalogsync"
	"github.com/angelmondragon/foodcart-engine/internal/engine"
	"github.com/angelmondragon/foodcart-engine/internal/promo"
	"github.com/angelmondragon/foodcart-engine/pkg/config"
	"github.com/angelmondragon/foodcart-engine/pkg/foodapi"
	"github.com/angelmondragon/foodcart-engine/pkg/instance"
	"github.com/angelmondragon/foodcart-engine/pkg/logger"
	"github.com/angelmondragon/foodcart-engine/pkg/metrics"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "engine"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "engine",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "engine stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, err := openStorage(ctx, cfg, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, storage.close())
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	backend, err := foodapi.NewClient(cfg.Backend.BaseURL,
		foodapi.WithTimeout(cfg.Backend.Timeout),
		foodapi.WithAuthToken(cfg.Backend.AuthToken),
	)
	if err != nil {
		return err
	}

	promos, err := promo.NewService(backend, promo.WithLister(backend))
	if err != nil {
		return err
	}

	eng, err := engine.New(engine.Params{
		Logger:      logg,
		Store:       storage.store,
		Promos:      promos,
		Submitter:   backend,
		Metrics:     metrics.NewEngineMetrics(registry),
		StorageKey:  cfg.Engine.StorageKey,
		DeliveryFee: cfg.Engine.DeliveryFeeAmount(),
	})
	if err != nil {
		return err
	}

	if _, err := eng.Restore(ctx); err != nil {
		logg.Error(ctx, "restore failed; starting with an empty engine", err)
	}

	var refresher *catalogsync.Service
	if cfg.FeatureFlags.CatalogSync {
		refresher, err = catalogsync.NewService(catalogsync.ServiceParams{
			Logger:   logg,
			Fetcher:  backend,
			Applier:  eng,
			Lock:     storage.lock,
			Metrics:  metrics.NewCatalogSyncMetrics(registry),
			Interval: cfg.Engine.SyncInterval,
		})
		if err != nil {
			return err
		}
	}

	deps := routes.Deps{
		Engine:  eng,
		Storage: storage.pinger,
	}
	if refresher != nil {
		deps.Refresher = refresher
	}
	if cfg.FeatureFlags.Metrics {
		deps.Metrics = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	}

	addr := ":" + cfg.App.Port
	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, deps),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"storage":  cfg.Storage.Driver,
		"instance": instance.GetID(),
	})
	logg.Info(logCtx, "starting engine")

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if refresher != nil {
		group.Go(func() error {
			if err := refresher.Run(groupCtx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logg.Info(logCtx, "shutting down engine")
		return server.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
