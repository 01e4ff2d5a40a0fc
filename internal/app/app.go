// Package app wires configuration, the ephemeris provider, the evaluator and
// the REST server into a running process.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/chrissnell/moonhike/internal/controllers/restserver"
	"github.com/chrissnell/moonhike/pkg/config"
	"github.com/chrissnell/moonhike/pkg/ephemeris"
	"github.com/chrissnell/moonhike/pkg/evaluator"
	"go.uber.org/zap"
)

// App represents the main application
type App struct {
	configProvider config.ConfigProvider
	logger         *zap.SugaredLogger
}

// New creates a new application instance
func New(configProvider config.ConfigProvider, logger *zap.SugaredLogger) *App {
	return &App{
		configProvider: configProvider,
		logger:         logger,
	}
}

// NewEvaluator builds an evaluator from the ephemeris and server sections of cfg
func NewEvaluator(cfg *config.ConfigData, logger *zap.SugaredLogger) (*evaluator.Evaluator, error) {
	provider, err := ephemeris.New(cfg.Ephemeris.Provider)
	if err != nil {
		return nil, err
	}
	return evaluator.New(provider, evaluator.Options{
		Workers:    cfg.Ephemeris.Workers,
		MaxDays:    cfg.Server.MaxRangeDays,
		ZenithStep: time.Duration(cfg.Ephemeris.ZenithStepMinutes) * time.Minute,
		Logger:     logger.Named("evaluator"),
	}), nil
}

// Run starts the application and blocks until shutdown
func (a *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg, err := a.configProvider.LoadConfig()
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}

	ev, err := NewEvaluator(cfg, a.logger)
	if err != nil {
		return err
	}

	server, err := restserver.NewController(ctx, &wg, a.configProvider, ev, a.logger.Named("restserver"))
	if err != nil {
		return err
	}
	if err := server.StartController(); err != nil {
		return err
	}

	a.logger.Infow("application started",
		"ephemeris", cfg.Ephemeris.Provider,
		"location", cfg.Location.Name,
		"sites", len(cfg.Sites),
	)

	// Set up signal handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	// Wait for shutdown signal
	select {
	case <-sigs:
		a.logger.Info("shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
		a.logger.Info("context cancelled, shutting down...")
	}

	// Cancel context to signal all goroutines to stop
	cancel()

	a.logger.Info("waiting for all workers to terminate...")
	wg.Wait()
	a.logger.Info("shutdown complete")

	return nil
}
