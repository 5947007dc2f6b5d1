// SPDX-License-Identifier: AGPL-3.0-only
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/seshasairaw/smarthub-operations/internal/api"
	"github.com/seshasairaw/smarthub-operations/internal/config"
	"github.com/seshasairaw/smarthub-operations/internal/jobs"
	"github.com/seshasairaw/smarthub-operations/internal/logging"
	"github.com/seshasairaw/smarthub-operations/internal/singleton"
	"github.com/seshasairaw/smarthub-operations/internal/store"
)

var (
	address    = flag.String("address", "", "The address to bind the server to")
	port       = flag.Int("port", 0, "The port to bind the server to")
	logLevel   = flag.String("log-level", "", "Logging level: debug, info, warn, error, fatal")
	logFile    = flag.String("log-file", "", "Log file path (default: stdout)")
	dbDriver   = flag.String("db-driver", "", "Database driver: sqlite or mysql")
	dbDSN      = flag.String("db-dsn", "", "Database DSN (file path for sqlite, DSN string for mysql)")
	corsOrigin = flag.String("cors-origin", "", "Allowed frontend origin for CORS")
	version    = flag.Bool("version", false, "Show version information and exit")
)

func main() {
	// .env is optional; environment takes precedence either way.
	_ = godotenv.Load()
	flag.Parse()

	cfg := loadConfig()

	if *version {
		log.Printf("%s version %s", cfg.Server.Name, cfg.Server.Version)
		os.Exit(0)
	}

	logger := logging.New(logging.Options{
		Level:    cfg.Logging.Level,
		FilePath: cfg.Logging.FilePath,
	})
	logging.SetDefaultLogger(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := createApp(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to create application: %v", err)
	}

	if err := app.Start(ctx); err != nil {
		logger.Fatalf("Failed to start application: %v", err)
	}

	waitForShutdown(cancel, app)
}

// loadConfig loads configuration from defaults, environment and flags.
func loadConfig() *config.Config {
	cfg := config.DefaultConfig()
	config.FromEnv(cfg)
	applyCommandLineFlagsToConfig(cfg)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

func applyCommandLineFlagsToConfig(cfg *config.Config) {
	if *address != "" {
		cfg.Server.Address = *address
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *logFile != "" {
		cfg.Logging.FilePath = *logFile
	}
	if *dbDriver != "" {
		cfg.Database.Driver = *dbDriver
	}
	if *dbDSN != "" {
		cfg.Database.DSN = *dbDSN
	}
	if *corsOrigin != "" {
		cfg.Server.CORSOrigin = *corsOrigin
	}
}

// Application bundles the API server, store and background jobs.
type Application struct {
	store        store.Store
	server       *api.Server
	recalculator *jobs.Recalculator
	jobLock      *singleton.Lock
	logger       *logging.Logger
}

func createApp(cfg *config.Config, logger *logging.Logger) (*Application, error) {
	st, err := store.New(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	app := &Application{
		store:  st,
		server: api.NewServer(cfg, st, logger),
		logger: logger,
	}

	// Background jobs run only in the instance holding the lock, so several
	// replicas can share one database without duplicate snapshots.
	if cfg.Jobs.Enabled {
		lock, acquired, err := singleton.TryAcquire(cfg.Jobs.LockPath)
		if err != nil {
			_ = st.Close()
			return nil, err
		}
		if acquired {
			app.jobLock = lock
			app.recalculator = jobs.NewRecalculator(st, cfg.Jobs.PerformanceSchedule, logger)
		} else {
			logger.Infof("Job lock held by another instance, skipping background jobs")
		}
	}

	return app, nil
}

// Start starts the application.
func (a *Application) Start(ctx context.Context) error {
	if a.recalculator != nil {
		if err := a.recalculator.Start(ctx); err != nil {
			return err
		}
		a.logger.Infof("Background jobs started")
	}

	if err := a.server.Start(ctx); err != nil {
		return err
	}
	a.logger.Infof("Dashboard API started")
	return nil
}

// Stop stops the application.
func (a *Application) Stop() error {
	if a.recalculator != nil {
		a.recalculator.Stop()
		a.logger.Infof("Background jobs stopped")
	}
	if a.jobLock != nil {
		if err := a.jobLock.Release(); err != nil {
			a.logger.Errorf("Error releasing job lock: %v", err)
		}
	}

	if err := a.server.Stop(); err != nil {
		a.logger.Errorf("Error stopping dashboard API: %v", err)
		return err
	}
	a.logger.Infof("Dashboard API stopped")

	return a.store.Close()
}

// waitForShutdown waits for termination signals and performs cleanup.
func waitForShutdown(cancel context.CancelFunc, app *Application) {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	<-signalCh
	app.logger.Infof("Received termination signal, shutting down...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	shutdownDone := make(chan struct{})
	go func() {
		if err := app.Stop(); err != nil {
			app.logger.Errorf("Error during shutdown: %v", err)
		}
		close(shutdownDone)
	}()

	select {
	case <-shutdownDone:
		app.logger.Infof("Graceful shutdown completed")
	case <-shutdownCtx.Done():
		app.logger.Warnf("Shutdown timed out")
	}
}
