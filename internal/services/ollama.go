package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/jwebster45206/scene-engine/pkg/chat"
)

const (
	DefaultOllamaModel = "llama3.2"
	ollamaReadyTries   = 5
)

// OllamaService talks to a self-hosted Ollama server.
type OllamaService struct {
	baseURL     string
	modelName   string
	temperature float64
	retryDelay  time.Duration // between readiness probes
	httpClient  *http.Client
	pullClient  *http.Client
	logger      *slog.Logger
}

// Ensure OllamaService implements LLMService
var _ LLMService = (*OllamaService)(nil)

type ollamaChatRequest struct {
	Model    string             `json:"model"`
	Messages []chat.ChatMessage `json:"messages"`
	Stream   bool               `json:"stream"`
	Options  ollamaOptions      `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
}

type ollamaChatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

type ollamaTagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// NewOllamaService creates a client for the server at baseURL.
func NewOllamaService(baseURL string, modelName string, temperature float64, logger *slog.Logger) *OllamaService {
	if modelName == "" {
		modelName = DefaultOllamaModel
	}
	return &OllamaService{
		baseURL:     strings.TrimRight(baseURL, "/"),
		modelName:   modelName,
		temperature: temperature,
		retryDelay:  2 * time.Second,
		httpClient:  &http.Client{Timeout: 120 * time.Second},
		// pulls download whole models
		pullClient: &http.Client{Timeout: 10 * time.Minute},
		logger:     logger,
	}
}

// InitModel waits for the server to answer, then pulls modelName if it is
// not installed yet.
func (s *OllamaService) InitModel(ctx context.Context, modelName string) error {
	s.logger.Info("Initializing LLM model", "provider", "ollama", "model", modelName)

	installed, err := s.waitForReady(ctx)
	if err != nil {
		return fmt.Errorf("ollama service is not ready: %w", err)
	}

	if slices.Contains(installed, modelName) || slices.Contains(installed, modelName+":latest") {
		s.logger.Info("Model already available", "model", modelName)
		return nil
	}

	s.logger.Info("Model not installed, pulling it", "model", modelName)
	if err := s.pullModel(ctx, modelName); err != nil {
		return fmt.Errorf("failed to pull model %s: %w", modelName, err)
	}
	s.logger.Info("Model pulled", "model", modelName)
	return nil
}

// Chat sends the conversation in a single non-streaming request.
func (s *OllamaService) Chat(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
	body, err := json.Marshal(ollamaChatRequest{
		Model:    s.modelName,
		Messages: messages,
		Options:  ollamaOptions{Temperature: s.temperature},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	s.logger.Debug("Sending Ollama chat request", "model", s.modelName, "message_count", len(messages))

	raw, status, err := s.do(ctx, s.httpClient, http.MethodPost, "/api/chat", body)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		s.logger.Error("Ollama API returned error", "status_code", status, "response_body", string(raw))
		return nil, &APIError{Provider: "ollama", StatusCode: status, Body: string(raw)}
	}

	var resp ollamaChatResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		s.logger.Error("Failed to decode Ollama response", "error", err, "response_body", string(raw))
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &chat.ChatResponse{Message: resp.Message.Content}, nil
}

// waitForReady probes the tag list until the server answers and returns the
// installed model names.
func (s *OllamaService) waitForReady(ctx context.Context) ([]string, error) {
	attempt := 0
	models, err := backoff.Retry(ctx, func() ([]string, error) {
		attempt++
		names, err := s.listModels(ctx)
		if err != nil {
			s.logger.Debug("Ollama not ready yet", "attempt", attempt, "error", err)
		}
		return names, err
	},
		backoff.WithBackOff(backoff.NewConstantBackOff(s.retryDelay)),
		backoff.WithMaxTries(ollamaReadyTries),
	)
	if err != nil {
		return nil, fmt.Errorf("ollama did not become ready after %d attempts: %w", attempt, err)
	}
	s.logger.Info("Ollama service is ready", "models", len(models))
	return models, nil
}

func (s *OllamaService) listModels(ctx context.Context) ([]string, error) {
	raw, status, err := s.do(ctx, s.httpClient, http.MethodGet, "/api/tags", nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("listing models failed with status %d", status)
	}
	var tags ollamaTagsResponse
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil, fmt.Errorf("failed to decode model list: %w", err)
	}
	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

func (s *OllamaService) pullModel(ctx context.Context, modelName string) error {
	body, err := json.Marshal(map[string]interface{}{"name": modelName, "stream": false})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	raw, status, err := s.do(ctx, s.pullClient, http.MethodPost, "/api/pull", body)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return &APIError{Provider: "ollama", StatusCode: status, Body: string(raw)}
	}
	return nil
}

// do sends one request and reads the whole response body.
func (s *OllamaService) do(ctx context.Context, client *http.Client, method, path string, body []byte) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}
	return raw, resp.StatusCode, nil
}
