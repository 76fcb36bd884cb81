package scenario

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a scenario file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the encoding from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported scenario file extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
}

// IsScenarioFile reports whether the path has a supported extension.
func IsScenarioFile(path string) bool {
	_, err := FormatFor(path)
	return err == nil
}

// Decode parses a scenario document. With strict set, unknown fields are rejected.
func Decode(data []byte, format Format, strict bool) (*Scenario, error) {
	var doc Document
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		if strict {
			dec.DisallowUnknownFields()
		}
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode scenario JSON: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(strict)
		if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode scenario YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown scenario format %q", format)
	}
	return &doc.Game, nil
}

// LoadFile reads and decodes a scenario file. It does not validate.
func LoadFile(path string, strict bool) (*Scenario, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("scenario not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	s, err := Decode(data, format, strict)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
