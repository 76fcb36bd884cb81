package game

import (
	"context"
	"fmt"

	"github.com/jwebster45206/scene-engine/internal/services"
	"github.com/jwebster45206/scene-engine/pkg/prompts"
	"github.com/jwebster45206/scene-engine/pkg/scenario"
)

// Agent speaks as one NPC. Its persona is fixed at construction.
type Agent struct {
	npc    scenario.NPC
	oracle services.Oracle
	tracer Tracer
}

// NewAgent creates an agent for npc. A nil tracer disables tracing.
func NewAgent(npc scenario.NPC, oracle services.Oracle, tracer Tracer) *Agent {
	if tracer == nil {
		tracer = nopTracer{}
	}
	return &Agent{npc: npc, oracle: oracle, tracer: tracer}
}

func (a *Agent) Name() string {
	return a.npc.Name
}

// Prompt renders the persona prompt for transcript.
func (a *Agent) Prompt(transcript string) (string, error) {
	return prompts.New().WithNPC(a.npc).WithTranscript(transcript).BuildPersona()
}

// Respond asks the oracle for the NPC's next line and returns it verbatim.
// The caller owns the conversation log.
func (a *Agent) Respond(ctx context.Context, transcript string) (string, error) {
	prompt, err := a.Prompt(transcript)
	if err != nil {
		return "", fmt.Errorf("failed to build persona prompt: %w", err)
	}
	a.tracer.Trace(a.npc.Name, prompt)

	reply, err := a.oracle.Generate(ctx, prompt)
	if err != nil {
		return "", &OracleError{Op: OpRespond, Speaker: a.npc.Name, Err: err}
	}
	a.tracer.Trace(a.npc.Name, reply)
	return reply, nil
}
