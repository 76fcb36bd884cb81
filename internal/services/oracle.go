package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jwebster45206/scene-engine/pkg/chat"
)

// Oracle turns a prompt into free text. It is the only capability the game
// needs from a language model; responses carry no structure.
type Oracle interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// OracleFunc adapts a function to the Oracle interface.
type OracleFunc func(ctx context.Context, prompt string) (string, error)

func (f OracleFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// LLMOracle sends each prompt to an LLMService as a single user message.
type LLMOracle struct {
	llm    LLMService
	logger *slog.Logger
}

// Ensure LLMOracle implements Oracle
var _ Oracle = (*LLMOracle)(nil)

// NewLLMOracle wraps an LLM provider.
func NewLLMOracle(llm LLMService, logger *slog.Logger) *LLMOracle {
	return &LLMOracle{llm: llm, logger: logger}
}

func (o *LLMOracle) Generate(ctx context.Context, prompt string) (string, error) {
	messages := []chat.ChatMessage{
		{Role: chat.ChatRoleUser, Content: prompt},
	}

	o.logger.Debug("Sending prompt to LLM", "prompt_length", len(prompt))
	resp, err := o.llm.Chat(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("LLM chat failed: %w", err)
	}
	if resp == nil {
		return "", fmt.Errorf("LLM chat returned no response")
	}
	o.logger.Debug("LLM response received", "response_length", len(resp.Message))
	return resp.Message, nil
}
