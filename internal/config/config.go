package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderDashScope = "dashscope"
	ProviderVenice    = "venice"
	ProviderOllama    = "ollama"
	ProviderMock      = "mock"

	ConsoleLine = "line"
	ConsoleTUI  = "tui"
)

// Providers lists the supported LLM_PROVIDER values.
var Providers = []string{ProviderAnthropic, ProviderOpenAI, ProviderDashScope, ProviderVenice, ProviderOllama, ProviderMock}

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	RawLogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogLevel    slog.Level
	LogFile     string `env:"LOG_FILE"`
	Debug       bool   `env:"DEBUG" envDefault:"false"`

	DataDir      string `env:"DATA_DIR" envDefault:"data"`
	ScenarioPath string `env:"SCENARIO_PATH"`
	ConsoleMode  string `env:"CONSOLE_MODE" envDefault:"line"`

	LLMProvider     string  `env:"LLM_PROVIDER" envDefault:"dashscope"`
	ModelName       string  `env:"MODEL_NAME"`
	Temperature     float64 `env:"LLM_TEMPERATURE" envDefault:"1"`
	AnthropicAPIKey string  `env:"ANTHROPIC_API_KEY"`
	OpenAIAPIKey    string  `env:"OPENAI_API_KEY"`
	DashScopeAPIKey string  `env:"DASHSCOPE_API_KEY"`
	VeniceAPIKey    string  `env:"VENICE_API_KEY"`
	OllamaURL       string  `env:"OLLAMA_URL" envDefault:"http://localhost:11434"`

	OracleTimeout    time.Duration `env:"ORACLE_TIMEOUT" envDefault:"60s"`
	OracleMaxRetries uint          `env:"ORACLE_MAX_RETRIES" envDefault:"3"`

	RedisURL string `env:"REDIS_URL"`
}

// Load reads an optional .env file, then the environment. The result is not
// validated; commands that talk to a model call Validate.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return Parse(nil)
}

// Parse builds a Config from vars, or from the process environment when vars is nil.
func Parse(vars map[string]string) (*Config, error) {
	opts := env.Options{Environment: vars}

	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	cfg.LogLevel = parseLogLevel(cfg.RawLogLevel)
	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	cfg.ConsoleMode = strings.ToLower(strings.TrimSpace(cfg.ConsoleMode))
	return &cfg, nil
}

// Validate checks provider credentials and enumerated settings.
func (c *Config) Validate() error {
	var errs []error
	switch c.LLMProvider {
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			errs = append(errs, errors.New("ANTHROPIC_API_KEY is required for the anthropic provider"))
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required for the openai provider"))
		}
	case ProviderDashScope:
		if c.DashScopeAPIKey == "" {
			errs = append(errs, errors.New("DASHSCOPE_API_KEY is required for the dashscope provider"))
		}
	case ProviderVenice:
		if c.VeniceAPIKey == "" {
			errs = append(errs, errors.New("VENICE_API_KEY is required for the venice provider"))
		}
	case ProviderOllama:
		if c.OllamaURL == "" {
			errs = append(errs, errors.New("OLLAMA_URL is required for the ollama provider"))
		}
	case ProviderMock:
	default:
		errs = append(errs, fmt.Errorf("unknown LLM_PROVIDER %q (supported: %s)", c.LLMProvider, strings.Join(Providers, ", ")))
	}

	if c.ConsoleMode != ConsoleLine && c.ConsoleMode != ConsoleTUI {
		errs = append(errs, fmt.Errorf("unknown CONSOLE_MODE %q (supported: line, tui)", c.ConsoleMode))
	}
	if c.OracleTimeout <= 0 {
		errs = append(errs, errors.New("ORACLE_TIMEOUT must be positive"))
	}
	if c.OracleMaxRetries == 0 {
		errs = append(errs, errors.New("ORACLE_MAX_RETRIES must be at least 1"))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether logs should be machine-readable.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
