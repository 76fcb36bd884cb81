package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jwebster45206/scene-engine/pkg/chat"
)

const (
	OpenAIBaseURL    = "https://api.openai.com/v1"
	DashScopeBaseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1"
	VeniceBaseURL    = "https://api.venice.ai/api/v1"

	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultDashScopeModel = "qwen-turbo"
	DefaultVeniceModel    = "venice-uncensored"
)

// OpenAIService implements LLMService for any endpoint speaking the OpenAI
// chat completions protocol: OpenAI itself, DashScope (Qwen) and Venice.
type OpenAIService struct {
	provider    string
	apiKey      string
	modelName   string
	baseURL     string
	temperature float64
	httpClient  *http.Client
	logger      *slog.Logger
}

// Ensure OpenAIService implements LLMService
var _ LLMService = (*OpenAIService)(nil)

// OpenAIChatRequest is the chat completions request body.
type OpenAIChatRequest struct {
	Model       string             `json:"model"`
	Messages    []chat.ChatMessage `json:"messages"`
	Temperature *float64           `json:"temperature,omitempty"`
	Stream      bool               `json:"stream"`
}

// OpenAIChatResponse is the subset of the chat completions reply we read.
type OpenAIChatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewOpenAIService creates a client for the given OpenAI-compatible endpoint.
// provider names the service in logs and errors.
func NewOpenAIService(provider, baseURL, apiKey, modelName string, temperature float64, logger *slog.Logger) *OpenAIService {
	return &OpenAIService{
		provider:    provider,
		apiKey:      apiKey,
		modelName:   modelName,
		baseURL:     strings.TrimRight(baseURL, "/"),
		temperature: temperature,
		httpClient: &http.Client{
			Timeout: 90 * time.Second,
		},
		logger: logger,
	}
}

// InitModel is a no-op; hosted models need no preparation.
func (s *OpenAIService) InitModel(ctx context.Context, modelName string) error {
	return nil
}

func (s *OpenAIService) Chat(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
	temperature := s.temperature
	reqBody, err := json.Marshal(OpenAIChatRequest{
		Model:       s.modelName,
		Messages:    messages,
		Temperature: &temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		s.logger.Error("Chat completions API returned error",
			"provider", s.provider,
			"status_code", resp.StatusCode,
			"response_body", string(body))
		return nil, &APIError{Provider: s.provider, StatusCode: resp.StatusCode, Body: string(body)}
	}

	var completion OpenAIChatResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if completion.Error != nil {
		return nil, fmt.Errorf("API error: %s", completion.Error.Message)
	}

	s.logger.Debug("Chat completions response",
		"provider", s.provider,
		"prompt_tokens", completion.Usage.PromptTokens,
		"completion_tokens", completion.Usage.CompletionTokens)

	if len(completion.Choices) == 0 {
		s.logger.Warn("Chat completions returned no choices", "provider", s.provider)
		return &chat.ChatResponse{}, nil
	}
	return &chat.ChatResponse{Message: completion.Choices[0].Message.Content}, nil
}
