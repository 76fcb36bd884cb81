package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/jwebster45206/scene-engine/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_Production(t *testing.T) {
	var buf bytes.Buffer
	log := Setup(&config.Config{Environment: "production", LogLevel: slog.LevelInfo}, &buf)

	WithSession(log, "abc").Info("scene started", "scene", 1)
	log.Debug("hidden")

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "scene started", record["msg"])
	assert.Equal(t, "abc", record["session_id"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestSetup_Development(t *testing.T) {
	var buf bytes.Buffer
	log := Setup(&config.Config{Environment: "development", LogLevel: slog.LevelDebug}, &buf)

	WithError(log, errors.New("boom")).Debug("oracle failed")

	assert.Contains(t, buf.String(), "msg=\"oracle failed\"")
	assert.Contains(t, buf.String(), "error=boom")
}

func TestOutput(t *testing.T) {
	w, closeFn, err := Output(&config.Config{})
	require.NoError(t, err)
	assert.NotNil(t, w)
	assert.NoError(t, closeFn())

	path := filepath.Join(t.TempDir(), "scene.log")
	w, closeFn, err = Output(&config.Config{LogFile: path})
	require.NoError(t, err)
	_, err = w.Write([]byte("line\n"))
	require.NoError(t, err)
	assert.NoError(t, closeFn())
	assert.FileExists(t, path)
}
