package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"asset-forge/api/rest/handlers"
	"asset-forge/api/rest/routes"
	"asset-forge/config"
	"asset-forge/core/generator"
	"asset-forge/core/metrics"
	"asset-forge/core/monitoring"
	"asset-forge/core/postprocess"
	"asset-forge/core/scheduler"
	"asset-forge/storage"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("failed to load config", zap.Error(err))
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		zap.NewExample().Fatal("failed to build logger", zap.Error(err))
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewArtifactStore(cfg.OutputDir)
	if err != nil {
		return err
	}
	logger.Info("artifact store ready", zap.String("output_dir", store.Root()))

	rules := metrics.DefaultRules()
	if cfg.ValidationRules != "" {
		rules, err = metrics.LoadRules(cfg.ValidationRules)
		if err != nil {
			return err
		}
		logger.Info("validation rules loaded", zap.String("path", cfg.ValidationRules))
	}

	engine := metrics.NewEngine()
	post := postprocess.NewPostProcessor(logger)
	backend := generator.NewProceduralBackend()
	gen := generator.NewGenerator(backend, store, post, engine, rules, logger)

	exporter := monitoring.NewExporter(prometheus.DefaultRegisterer)
	sched := scheduler.NewScheduler(gen, exporter, logger, cfg.WorkerPollInterval)

	r := mux.NewRouter()
	routes.SetupRoutes(r, handlers.NewAssetHandler(sched, gen, logger))

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sched.Start(ctx)
		return nil
	})
	g.Go(func() error {
		logger.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		sched.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server exited")
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
