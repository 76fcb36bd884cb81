package services

import (
	"context"
	"strings"
	"sync"

	"github.com/jwebster45206/scene-engine/pkg/chat"
)

const (
	// MockResponse is the default persona reply.
	MockResponse = "Mock response"

	// judgeQuestion identifies a goal check so the mock can rule on it.
	judgeQuestion = "Answer yes or no"
)

// MockLLMAPI is a mock implementation of LLMService for testing and offline play.
// By default it replies with MockResponse and rules every goal as met.
type MockLLMAPI struct {
	InitModelFunc        func(ctx context.Context, modelName string) error
	GenerateResponseFunc func(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error)

	// Track calls for testing
	InitModelCalls        []string
	GenerateResponseCalls []GenerateResponseCall

	mu sync.Mutex // protects all fields above
}

// Ensure MockLLMAPI implements LLMService
var _ LLMService = (*MockLLMAPI)(nil)

type GenerateResponseCall struct {
	Messages []chat.ChatMessage
}

// NewMockLLMAPI creates a new mock LLM service
func NewMockLLMAPI() *MockLLMAPI {
	return &MockLLMAPI{
		InitModelCalls:        make([]string, 0),
		GenerateResponseCalls: make([]GenerateResponseCall, 0),
	}
}

// InitModel mocks model initialization
func (m *MockLLMAPI) InitModel(ctx context.Context, modelName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InitModelCalls = append(m.InitModelCalls, modelName)

	if m.InitModelFunc != nil {
		return m.InitModelFunc(ctx, modelName)
	}

	// Default behavior - success
	return nil
}

// Chat mocks response generation
func (m *MockLLMAPI) Chat(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
	m.mu.Lock()
	m.GenerateResponseCalls = append(m.GenerateResponseCalls, GenerateResponseCall{
		Messages: append([]chat.ChatMessage(nil), messages...),
	})
	fn := m.GenerateResponseFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, messages)
	}

	for _, msg := range messages {
		if strings.Contains(msg.Content, judgeQuestion) {
			return &chat.ChatResponse{Message: "Yes."}, nil
		}
	}

	return &chat.ChatResponse{
		Message: MockResponse,
	}, nil
}

// Reset clears all call tracking
func (m *MockLLMAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InitModelCalls = make([]string, 0)
	m.GenerateResponseCalls = make([]GenerateResponseCall, 0)
}

// SetInitModelError sets up the mock to return an error on InitModel
func (m *MockLLMAPI) SetInitModelError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InitModelFunc = func(ctx context.Context, modelName string) error {
		return err
	}
}

// SetGenerateResponseError sets up the mock to return an error on Chat
func (m *MockLLMAPI) SetGenerateResponseError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerateResponseFunc = func(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
		return nil, err
	}
}

// SetResponses makes Chat return the given replies in order, repeating the last one.
func (m *MockLLMAPI) SetResponses(replies ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var next int
	var replyMu sync.Mutex
	m.GenerateResponseFunc = func(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
		replyMu.Lock()
		defer replyMu.Unlock()
		if len(replies) == 0 {
			return &chat.ChatResponse{}, nil
		}
		reply := replies[min(next, len(replies)-1)]
		next++
		return &chat.ChatResponse{Message: reply}, nil
	}
}

// GetCalls returns a copy of the call tracking data in a thread-safe way
func (m *MockLLMAPI) GetCalls() ([]string, []GenerateResponseCall) {
	m.mu.Lock()
	defer m.mu.Unlock()

	initCalls := make([]string, len(m.InitModelCalls))
	copy(initCalls, m.InitModelCalls)

	respCalls := make([]GenerateResponseCall, len(m.GenerateResponseCalls))
	copy(respCalls, m.GenerateResponseCalls)

	return initCalls, respCalls
}
