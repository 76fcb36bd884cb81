package services

import (
	"fmt"
	"log/slog"

	"github.com/jwebster45206/scene-engine/internal/config"
)

// NewLLMService builds the provider named by cfg.LLMProvider.
func NewLLMService(cfg *config.Config, logger *slog.Logger) (LLMService, string, error) {
	switch cfg.LLMProvider {
	case config.ProviderAnthropic:
		s := NewAnthropicService(cfg.AnthropicAPIKey, cfg.ModelName, cfg.Temperature, logger)
		return s, s.modelName, nil
	case config.ProviderOpenAI:
		model := firstNonEmpty(cfg.ModelName, DefaultOpenAIModel)
		return NewOpenAIService(config.ProviderOpenAI, OpenAIBaseURL, cfg.OpenAIAPIKey, model, cfg.Temperature, logger), model, nil
	case config.ProviderDashScope:
		model := firstNonEmpty(cfg.ModelName, DefaultDashScopeModel)
		return NewOpenAIService(config.ProviderDashScope, DashScopeBaseURL, cfg.DashScopeAPIKey, model, cfg.Temperature, logger), model, nil
	case config.ProviderVenice:
		model := firstNonEmpty(cfg.ModelName, DefaultVeniceModel)
		return NewOpenAIService(config.ProviderVenice, VeniceBaseURL, cfg.VeniceAPIKey, model, cfg.Temperature, logger), model, nil
	case config.ProviderOllama:
		s := NewOllamaService(cfg.OllamaURL, cfg.ModelName, cfg.Temperature, logger)
		return s, s.modelName, nil
	case config.ProviderMock:
		return NewMockLLMAPI(), "mock", nil
	default:
		return nil, "", fmt.Errorf("unsupported LLM provider %q", cfg.LLMProvider)
	}
}

// NewOracle builds the configured provider and wraps it for retries.
func NewOracle(cfg *config.Config, logger *slog.Logger) (Oracle, LLMService, string, error) {
	llm, model, err := NewLLMService(cfg, logger)
	if err != nil {
		return nil, nil, "", err
	}
	oracle := NewRetryOracle(NewLLMOracle(llm, logger), cfg.OracleMaxRetries, cfg.OracleTimeout, logger)
	return oracle, llm, model, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
