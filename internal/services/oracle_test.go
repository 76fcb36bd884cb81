package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/jwebster45206/scene-engine/pkg/chat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLLMOracle_Generate(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	llm := NewMockLLMAPI()
	llm.SetResponses("Quack! Who are you?")

	oracle := NewLLMOracle(llm, log)
	text, err := oracle.Generate(context.Background(), "You are now playing Duck.")
	require.NoError(t, err)
	assert.Equal(t, "Quack! Who are you?", text)

	_, calls := llm.GetCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, []chat.ChatMessage{{Role: chat.ChatRoleUser, Content: "You are now playing Duck."}}, calls[0].Messages)
}

func TestLLMOracle_GenerateError(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	llm := NewMockLLMAPI()
	boom := errors.New("boom")
	llm.SetGenerateResponseError(boom)

	_, err := NewLLMOracle(llm, log).Generate(context.Background(), "prompt")
	assert.ErrorIs(t, err, boom)
}

func TestLLMOracle_NilResponse(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	llm := NewMockLLMAPI()
	llm.GenerateResponseFunc = func(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
		return nil, nil
	}

	_, err := NewLLMOracle(llm, log).Generate(context.Background(), "prompt")
	assert.ErrorContains(t, err, "no response")
}
