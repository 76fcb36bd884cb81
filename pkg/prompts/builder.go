package prompts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jwebster45206/scene-engine/pkg/scenario"
)

// Builder assembles oracle prompts using a fluent interface.
// Output depends only on the inputs, so identical inputs give identical prompts.
type Builder struct {
	npc        *scenario.NPC
	goal       string
	transcript string
}

// New creates an empty prompt builder.
func New() *Builder {
	return &Builder{}
}

// WithNPC sets the persona the model speaks as.
func (b *Builder) WithNPC(npc scenario.NPC) *Builder {
	b.npc = &npc
	return b
}

// WithGoal sets the scene goal the judge rules on.
func (b *Builder) WithGoal(goal string) *Builder {
	b.goal = goal
	return b
}

// WithTranscript sets the rendered conversation log.
func (b *Builder) WithTranscript(transcript string) *Builder {
	b.transcript = transcript
	return b
}

// BuildPersona returns the prompt for the NPC's next line.
func (b *Builder) BuildPersona() (string, error) {
	if b.npc == nil {
		return "", errors.New("npc is required")
	}
	if strings.TrimSpace(b.npc.Name) == "" {
		return "", errors.New("npc name is required")
	}
	return fmt.Sprintf(PersonaPromptTemplate, b.npc.Name, b.npc.Traits, b.npc.Backstory, b.transcript, b.npc.Name), nil
}

// BuildJudge returns the prompt asking whether the goal has been met.
func (b *Builder) BuildJudge() (string, error) {
	if strings.TrimSpace(b.goal) == "" {
		return "", errors.New("goal is required")
	}
	return fmt.Sprintf(JudgePromptTemplate, b.transcript, b.goal), nil
}
