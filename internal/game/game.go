// Package game runs a scenario: a navigator walks episodes and scenes in
// order and a runner plays each scene as a conversation with one NPC until a
// judge rules the scene goal met.
package game

import (
	"fmt"
	"log/slog"

	"github.com/jwebster45206/scene-engine/internal/services"
	"github.com/jwebster45206/scene-engine/pkg/scenario"
)

// Options configures New. The zero value is usable.
type Options struct {
	// Debug traces every prompt and raw oracle response. Traces go to Tracer,
	// or to the console when it implements Tracer.
	Debug  bool
	Tracer Tracer

	Events EventPublisher // nil publishes nothing
	Policy SpeakerPolicy  // nil selects FirstEligible
	Logger *slog.Logger   // nil discards

	// Runner replaces the default scene runner
	Runner SceneRunner
}

// New validates s and wires a navigator ready to Run.
func New(s *scenario.Scenario, oracle services.Oracle, console Console, opts Options) (*Navigator, error) {
	if s == nil {
		return nil, fmt.Errorf("scenario is required")
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var tracer Tracer = nopTracer{}
	if opts.Debug {
		if opts.Tracer != nil {
			tracer = opts.Tracer
		} else if t, ok := console.(Tracer); ok {
			tracer = t
		}
	}

	runner := opts.Runner
	if runner == nil {
		if oracle == nil {
			return nil, fmt.Errorf("oracle is required")
		}
		runner = NewRunner(s, oracle, console, tracer, opts.Events, opts.Policy, logger)
	}

	return NewNavigator(s, runner, console, opts.Events, logger), nil
}
