// SPDX-License-Identifier: AGPL-3.0-only
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/seshasairaw/smarthub-operations/internal/agent"
	"github.com/seshasairaw/smarthub-operations/internal/bot"
	"github.com/seshasairaw/smarthub-operations/internal/config"
	"github.com/seshasairaw/smarthub-operations/internal/dataservice"
	"github.com/seshasairaw/smarthub-operations/internal/logging"
)

var (
	address    = flag.String("address", "", "The address to bind the assistant to")
	port       = flag.Int("port", 0, "The port to bind the assistant to")
	logLevel   = flag.String("log-level", "", "Logging level: debug, info, warn, error, fatal")
	logFile    = flag.String("log-file", "", "Log file path (default: stdout)")
	aiProvider = flag.String("ai-provider", "", "AI provider: openai or anthropic (default: openai)")
	aiBaseURL  = flag.String("ai-base-url", "", "Custom base URL for OpenAI-compatible endpoints (e.g. Groq, Ollama, vLLM)")
	aiModel    = flag.String("ai-model", "", "Model to use for chat completions")
	backendURL = flag.String("backend-url", "", "Base URL of the dashboard API the tools call")
)

func main() {
	// .env is optional; environment takes precedence either way.
	_ = godotenv.Load()
	flag.Parse()

	cfg := loadConfig()

	logger := logging.New(logging.Options{
		Level:    cfg.Logging.Level,
		FilePath: cfg.Logging.FilePath,
	})
	logging.SetDefaultLogger(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv, err := createServer(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to create assistant: %v", err)
	}

	if err := srv.Start(ctx); err != nil {
		logger.Fatalf("Failed to start assistant: %v", err)
	}

	waitForShutdown(cancel, srv, logger)
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
		cfg.Bot.Address = *address
	}
	if *port != 0 {
		cfg.Bot.Port = *port
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *logFile != "" {
		cfg.Logging.FilePath = *logFile
	}
	if *aiProvider != "" {
		cfg.AI.Provider = *aiProvider
	}
	if *aiBaseURL != "" {
		cfg.AI.BaseURL = *aiBaseURL
	}
	if *aiModel != "" {
		cfg.AI.Model = *aiModel
	}
	if *backendURL != "" {
		cfg.DataService.BaseURL = *backendURL
	}
}

func createServer(cfg *config.Config, logger *logging.Logger) (*bot.Server, error) {
	provider, err := agent.NewProvider(&cfg.AI)
	if err != nil {
		return nil, err
	}

	data := dataservice.New(cfg.DataService.BaseURL, cfg.DataService.Timeout)
	executor, err := bot.NewExecutor(data, cfg.AI.ToolTimeout, logger)
	if err != nil {
		return nil, err
	}

	orch := bot.NewOrchestrator(provider, executor, &cfg.AI, logger)
	return bot.NewServer(cfg, orch, logger), nil
}

// waitForShutdown waits for termination signals and performs cleanup.
func waitForShutdown(cancel context.CancelFunc, srv *bot.Server, logger *logging.Logger) {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	<-signalCh
	logger.Infof("Received termination signal, shutting down...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	shutdownDone := make(chan struct{})
	go func() {
		if err := srv.Stop(); err != nil {
			logger.Errorf("Error during shutdown: %v", err)
		}
		close(shutdownDone)
	}()

	select {
	case <-shutdownDone:
		logger.Infof("Graceful shutdown completed")
	case <-shutdownCtx.Done():
		logger.Warnf("Shutdown timed out")
	}
}
