package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jwebster45206/scene-engine/pkg/chat"
)

// LLMService defines the interface for interacting with an LLM provider
type LLMService interface {
	// InitModel prepares the model on startup
	InitModel(ctx context.Context, modelName string) error

	// Chat sends messages and returns the model's reply
	Chat(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error)
}

// APIError is a non-200 reply from a provider.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API request failed with status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// Temporary reports whether the request may succeed if sent again.
// Rate limits and server-side failures are temporary; other client errors are not.
func (e *APIError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests ||
		e.StatusCode == http.StatusRequestTimeout ||
		e.StatusCode >= 500
}
