// SPDX-License-Identifier: AGPL-3.0-only
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the root configuration for both the smarthub API server and the
// botbrain assistant.
type Config struct {
	Server      ServerConfig
	Bot         BotConfig
	Database    DatabaseConfig
	Auth        AuthConfig
	Logging     LoggingConfig
	AI          AIConfig
	DataService DataServiceConfig
	Jobs        JobsConfig
}

// ServerConfig configures the dashboard API server.
type ServerConfig struct {
	Name       string
	Version    string
	Address    string
	Port       int
	CORSOrigin string
}

// BotConfig configures the assistant HTTP server.
type BotConfig struct {
	Address string
	Port    int
}

// DatabaseConfig selects the SQL driver and DSN for the logistics database.
type DatabaseConfig struct {
	// Driver is "sqlite" or "mysql".
	Driver string
	DSN    string
}

// AuthConfig configures JWT issuance for the login endpoint.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// LoggingConfig defines logging configuration.
type LoggingConfig struct {
	Level    string
	FilePath string
}

// AIConfig configures the completion provider used by the assistant.
type AIConfig struct {
	// Provider is "openai" (default, covers any OpenAI-compatible endpoint
	// such as Groq) or "anthropic".
	Provider        string
	APIKey          string
	OpenAIAPIKey    string
	AnthropicAPIKey string
	// BaseURL overrides the OpenAI endpoint for compatible providers.
	BaseURL           string
	Model             string
	Temperature       float64
	MaxTokens         int64
	CompletionTimeout time.Duration
	ToolTimeout       time.Duration
}

// DataServiceConfig locates the dashboard API the assistant's tools call.
type DataServiceConfig struct {
	BaseURL string
	Timeout time.Duration
}

// JobsConfig configures background jobs run by the API server.
type JobsConfig struct {
	Enabled bool
	// PerformanceSchedule is a cron expression for the vendor performance
	// recalculation.
	PerformanceSchedule string
	// LockPath is the file lock guarding against concurrent recalculation
	// when several instances share a database.
	LockPath string
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name:       "smarthub-operations",
			Version:    "1.0.0",
			Address:    "0.0.0.0",
			Port:       8000,
			CORSOrigin: "http://localhost:3000",
		},
		Bot: BotConfig{
			Address: "0.0.0.0",
			Port:    8001,
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "smarthub.db",
		},
		Auth: AuthConfig{
			JWTSecret: "dev-secret-key-change-in-production-12345",
			TokenTTL:  24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		AI: AIConfig{
			Provider:          "openai",
			BaseURL:           "https://api.groq.com/openai/v1",
			Model:             "llama-3.3-70b-versatile",
			Temperature:       0.2,
			MaxTokens:         1024,
			CompletionTimeout: 30 * time.Second,
			ToolTimeout:       10 * time.Second,
		},
		DataService: DataServiceConfig{
			BaseURL: "http://localhost:8000",
			Timeout: 10 * time.Second,
		},
		Jobs: JobsConfig{
			Enabled:             true,
			PerformanceSchedule: "0 2 * * *",
			LockPath:            "smarthub-performance.lock",
		},
	}
}

// FromEnv overrides cfg fields from environment variables.
func FromEnv(cfg *Config) {
	cfg.Server.Address = getEnv("SERVER_ADDRESS", cfg.Server.Address)
	cfg.Server.Port = getIntEnv("SERVER_PORT", cfg.Server.Port)
	cfg.Server.CORSOrigin = getEnv("FRONTEND_URL", cfg.Server.CORSOrigin)

	cfg.Bot.Address = getEnv("BOT_ADDRESS", cfg.Bot.Address)
	cfg.Bot.Port = getIntEnv("BOT_PORT", cfg.Bot.Port)

	cfg.Database.Driver = getEnv("DB_DRIVER", cfg.Database.Driver)
	cfg.Database.DSN = getEnv("DB_DSN", cfg.Database.DSN)

	cfg.Auth.JWTSecret = getEnv("JWT_SECRET_KEY", cfg.Auth.JWTSecret)
	cfg.Auth.TokenTTL = getDurationEnv("JWT_TOKEN_TTL", cfg.Auth.TokenTTL)

	cfg.Logging.Level = getEnv("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.FilePath = getEnv("LOG_FILE", cfg.Logging.FilePath)

	cfg.AI.Provider = getEnv("AI_PROVIDER", cfg.AI.Provider)
	cfg.AI.APIKey = getEnv("AI_API_KEY", cfg.AI.APIKey)
	cfg.AI.OpenAIAPIKey = getEnv("OPENAI_API_KEY", cfg.AI.OpenAIAPIKey)
	// GROQ_API_KEY is accepted as an alias since Groq is the default endpoint.
	if cfg.AI.OpenAIAPIKey == "" {
		cfg.AI.OpenAIAPIKey = getEnv("GROQ_API_KEY", "")
	}
	cfg.AI.AnthropicAPIKey = getEnv("ANTHROPIC_API_KEY", cfg.AI.AnthropicAPIKey)
	cfg.AI.BaseURL = getEnv("AI_BASE_URL", cfg.AI.BaseURL)
	cfg.AI.Model = getEnv("AI_MODEL", cfg.AI.Model)
	cfg.AI.Temperature = getFloatEnv("AI_TEMPERATURE", cfg.AI.Temperature)
	cfg.AI.MaxTokens = int64(getIntEnv("AI_MAX_TOKENS", int(cfg.AI.MaxTokens)))
	cfg.AI.CompletionTimeout = getDurationEnv("AI_COMPLETION_TIMEOUT", cfg.AI.CompletionTimeout)
	cfg.AI.ToolTimeout = getDurationEnv("AI_TOOL_TIMEOUT", cfg.AI.ToolTimeout)

	cfg.DataService.BaseURL = getEnv("MAIN_BACKEND_URL", cfg.DataService.BaseURL)
	cfg.DataService.Timeout = getDurationEnv("MAIN_BACKEND_TIMEOUT", cfg.DataService.Timeout)

	cfg.Jobs.Enabled = getBoolEnv("JOBS_ENABLED", cfg.Jobs.Enabled)
	cfg.Jobs.PerformanceSchedule = getEnv("PERFORMANCE_SCHEDULE", cfg.Jobs.PerformanceSchedule)
	cfg.Jobs.LockPath = getEnv("JOBS_LOCK_PATH", cfg.Jobs.LockPath)
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Bot.Port < 1 || c.Bot.Port > 65535 {
		return fmt.Errorf("invalid bot port: %d", c.Bot.Port)
	}
	switch c.Database.Driver {
	case "sqlite", "mysql":
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database DSN is required")
	}
	switch strings.ToLower(c.AI.Provider) {
	case "", "openai", "anthropic":
	default:
		return fmt.Errorf("unsupported AI provider: %s", c.AI.Provider)
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return fmt.Errorf("AI temperature must be within [0, 2], got %v", c.AI.Temperature)
	}
	if c.AI.MaxTokens < 1 {
		return fmt.Errorf("AI max tokens must be positive, got %d", c.AI.MaxTokens)
	}
	if c.DataService.BaseURL == "" {
		return fmt.Errorf("data service base URL is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		value = strings.ToLower(strings.TrimSpace(value))
		return value == "true" || value == "1" || value == "yes" || value == "on"
	}
	return defaultValue
}

// getDurationEnv parses a duration from the environment, accepting either a
// bare number of seconds or a Go duration string such as "30s" or "10m".
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
