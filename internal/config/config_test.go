package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, ProviderDashScope, cfg.LLMProvider)
	assert.Equal(t, ConsoleLine, cfg.ConsoleMode)
	assert.Equal(t, 60*time.Second, cfg.OracleTimeout)
	assert.Equal(t, uint(3), cfg.OracleMaxRetries)
	assert.Equal(t, 1.0, cfg.Temperature)
	assert.False(t, cfg.IsProduction())
}

func TestParse_Overrides(t *testing.T) {
	cfg, err := Parse(map[string]string{
		"ENVIRONMENT":        "production",
		"LOG_LEVEL":          "warning",
		"DEBUG":              "true",
		"LLM_PROVIDER":       " Anthropic ",
		"ANTHROPIC_API_KEY":  "sk-ant",
		"CONSOLE_MODE":       "TUI",
		"ORACLE_TIMEOUT":     "5s",
		"ORACLE_MAX_RETRIES": "7",
		"REDIS_URL":          "redis://localhost:6379/0",
	})
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	assert.True(t, cfg.Debug)
	assert.Equal(t, ProviderAnthropic, cfg.LLMProvider)
	assert.Equal(t, ConsoleTUI, cfg.ConsoleMode)
	assert.Equal(t, 5*time.Second, cfg.OracleTimeout)
	assert.Equal(t, uint(7), cfg.OracleMaxRetries)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.NoError(t, cfg.Validate())
}

func TestParse_InvalidValue(t *testing.T) {
	_, err := Parse(map[string]string{"ORACLE_TIMEOUT": "soon"})
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			LLMProvider:      ProviderMock,
			ConsoleMode:      ConsoleLine,
			OracleTimeout:    time.Second,
			OracleMaxRetries: 1,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "mock needs nothing", mutate: func(c *Config) {}},
		{name: "dashscope without key", mutate: func(c *Config) { c.LLMProvider = ProviderDashScope }, wantErr: "DASHSCOPE_API_KEY"},
		{name: "venice without key", mutate: func(c *Config) { c.LLMProvider = ProviderVenice }, wantErr: "VENICE_API_KEY"},
		{name: "openai without key", mutate: func(c *Config) { c.LLMProvider = ProviderOpenAI }, wantErr: "OPENAI_API_KEY"},
		{name: "anthropic without key", mutate: func(c *Config) { c.LLMProvider = ProviderAnthropic }, wantErr: "ANTHROPIC_API_KEY"},
		{name: "ollama without url", mutate: func(c *Config) { c.LLMProvider = ProviderOllama }, wantErr: "OLLAMA_URL"},
		{name: "unknown provider", mutate: func(c *Config) { c.LLMProvider = "parrot" }, wantErr: "unknown LLM_PROVIDER"},
		{name: "unknown console", mutate: func(c *Config) { c.ConsoleMode = "gui" }, wantErr: "unknown CONSOLE_MODE"},
		{name: "zero timeout", mutate: func(c *Config) { c.OracleTimeout = 0 }, wantErr: "ORACLE_TIMEOUT"},
		{name: "zero retries", mutate: func(c *Config) { c.OracleMaxRetries = 0 }, wantErr: "ORACLE_MAX_RETRIES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for input, want := range tests {
		assert.Equal(t, want, parseLogLevel(input), input)
	}
}
