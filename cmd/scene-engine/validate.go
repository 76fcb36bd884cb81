package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jwebster45206/scene-engine/pkg/scenario"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <scenario-file>",
		Short: "Check a scenario file for unknown fields and missing references",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateFile(cmd.OutOrStdout(), args[0])
		},
	}
}

func validateFile(out io.Writer, filename string) error {
	fmt.Fprintf(out, "Validating %s...\n", filename)

	baseName := filepath.Base(filename)
	format, err := scenario.FormatFor(filename)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	nameWithoutExt := strings.TrimSuffix(baseName, filepath.Ext(baseName))
	if !isValidScenarioFilename(nameWithoutExt) {
		fmt.Fprintf(out, "Warning: scenario filename '%s' should be lowercase snake_case (e.g., my_scenario.%s)\n", baseName, format)
	}

	s, err := scenario.LoadFile(filename, true)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := s.Validate(); err != nil {
		var lines []string
		for _, e := range flatten(err) {
			lines = append(lines, "  - "+e.Error())
		}
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(lines, "\n"))
	}

	for _, w := range s.Warnings() {
		fmt.Fprintf(out, "Warning: %s\n", w)
	}
	fmt.Fprintf(out, "%s: %d episode(s), %d scene(s), %d npc(s)\n",
		s.DisplayTitle(baseName), len(s.Episodes), s.SceneCount(), len(s.NPCs))
	fmt.Fprintln(out, "Scenario file is valid!")
	return nil
}

// flatten expands an errors.Join result into its parts.
func flatten(err error) []error {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		return joined.Unwrap()
	}
	return []error{err}
}

var validFilenameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)

func isValidScenarioFilename(name string) bool {
	// Allow 'x.' prefix for experimental scenarios
	name = strings.TrimPrefix(name, "x.")
	return validFilenameRegex.MatchString(name)
}
