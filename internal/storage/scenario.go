package storage

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jwebster45206/scene-engine/pkg/scenario"
)

// ScenarioStore lists and loads authored scenarios.
type ScenarioStore interface {
	ListScenarios(ctx context.Context) (map[string]string, error)
	GetScenario(ctx context.Context, filename string) (*scenario.Scenario, error)
}

// FileStore serves scenarios from DATA_DIR/scenarios on the filesystem.
type FileStore struct {
	logger  *slog.Logger
	dataDir string
}

// Ensure FileStore implements ScenarioStore interface
var _ ScenarioStore = (*FileStore)(nil)

// NewFileStore creates a store rooted at dataDir.
func NewFileStore(dataDir string, logger *slog.Logger) *FileStore {
	if dataDir == "" {
		dataDir = "./data"
	}
	return &FileStore{
		logger:  logger,
		dataDir: dataDir,
	}
}

// ScenariosDir is where scenario files live.
func (f *FileStore) ScenariosDir() string {
	return filepath.Join(f.dataDir, "scenarios")
}

// ListScenarios maps each scenario's display title to its filename.
// Unreadable or malformed files are skipped with a warning.
func (f *FileStore) ListScenarios(ctx context.Context) (map[string]string, error) {
	scenariosDir := f.ScenariosDir()
	scenarios := make(map[string]string)

	err := filepath.WalkDir(scenariosDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == scenariosDir {
				return err
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !scenario.IsScenarioFile(path) {
			return nil
		}

		s, err := scenario.LoadFile(path, false)
		if err != nil {
			f.logger.Warn("Failed to load scenario file", "path", path, "error", err)
			return nil
		}

		rel, err := filepath.Rel(scenariosDir, path)
		if err != nil {
			rel = filepath.Base(path)
		}
		scenarios[s.DisplayTitle(rel)] = rel
		return nil
	})

	if err != nil {
		f.logger.Error("Failed to walk scenarios directory", "error", err)
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}

	return scenarios, nil
}

// GetScenario loads a scenario by its filename under the scenarios directory.
func (f *FileStore) GetScenario(ctx context.Context, filename string) (*scenario.Scenario, error) {
	path := filepath.Join(f.ScenariosDir(), filepath.Clean("/"+filename))
	f.logger.Debug("Loading scenario", "filename", filename, "full_path", path, "dataDir", f.dataDir)
	return f.LoadScenario(ctx, path)
}

// LoadScenario loads a scenario from an explicit path.
func (f *FileStore) LoadScenario(ctx context.Context, path string) (*scenario.Scenario, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s, err := scenario.LoadFile(path, false)
	if err != nil {
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			f.logger.Error("Scenario file not found", "path", path)
		}
		return nil, err
	}
	return s, nil
}
