package game

import (
	"context"
	"fmt"

	"github.com/jwebster45206/scene-engine/internal/services"
	"github.com/jwebster45206/scene-engine/pkg/prompts"
)

const judgeTraceSource = "system"

// Judge rules whether a scene goal has been met, with one oracle call per ruling.
type Judge struct {
	oracle services.Oracle
	tracer Tracer
}

// NewJudge creates a judge. A nil tracer disables tracing.
func NewJudge(oracle services.Oracle, tracer Tracer) *Judge {
	if tracer == nil {
		tracer = nopTracer{}
	}
	return &Judge{oracle: oracle, tracer: tracer}
}

// Verdict asks the oracle and parses its answer with prompts.ParseVerdict.
func (j *Judge) Verdict(ctx context.Context, goal, transcript string) (prompts.Verdict, error) {
	prompt, err := prompts.New().WithGoal(goal).WithTranscript(transcript).BuildJudge()
	if err != nil {
		return prompts.VerdictNotMet, fmt.Errorf("failed to build judge prompt: %w", err)
	}
	j.tracer.Trace(judgeTraceSource, prompt)

	answer, err := j.oracle.Generate(ctx, prompt)
	if err != nil {
		return prompts.VerdictNotMet, &OracleError{Op: OpJudge, Err: err}
	}
	j.tracer.Trace(judgeTraceSource, answer)
	return prompts.ParseVerdict(answer), nil
}

// IsGoalMet reports whether transcript shows goal achieved.
func (j *Judge) IsGoalMet(ctx context.Context, goal, transcript string) (bool, error) {
	v, err := j.Verdict(ctx, goal, transcript)
	return bool(v), err
}
