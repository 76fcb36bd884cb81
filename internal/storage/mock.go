package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/jwebster45206/scene-engine/pkg/scenario"
)

// MockStorage is an in-memory ScenarioStore for testing
type MockStorage struct {
	mu        sync.RWMutex
	scenarios map[string]*scenario.Scenario
	listError error
}

// Ensure MockStorage implements ScenarioStore interface
var _ ScenarioStore = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		scenarios: make(map[string]*scenario.Scenario),
	}
}

// SetListError configures the mock to fail on ListScenarios
func (m *MockStorage) SetListError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listError = err
}

// ListScenarios mocks listing scenarios
func (m *MockStorage) ListScenarios(ctx context.Context) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.listError != nil {
		return nil, m.listError
	}

	// Build map of scenario titles to filenames
	result := make(map[string]string)
	for filename, s := range m.scenarios {
		result[s.DisplayTitle(filename)] = filename
	}
	return result, nil
}

// GetScenario mocks getting a scenario by filename
func (m *MockStorage) GetScenario(ctx context.Context, filename string) (*scenario.Scenario, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, exists := m.scenarios[filename]
	if !exists {
		return nil, fmt.Errorf("scenario not found: %s", filename)
	}
	return s, nil
}

// AddScenario adds a scenario to the mock storage (for testing)
func (m *MockStorage) AddScenario(filename string, s *scenario.Scenario) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scenarios[filename] = s
}
