package game

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jwebster45206/scene-engine/pkg/scenario"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgent_PromptIsDeterministic(t *testing.T) {
	npc := scenario.NPC{Name: "Bob", Traits: "grumpy but kind", Backstory: "Keeps the lighthouse."}
	agent := NewAgent(npc, &scriptedOracle{}, nil)
	transcript := strings.Join([]string{"Alice: hi", "Bob: hello"}, "\n")

	first, err := agent.Prompt(transcript)
	require.NoError(t, err)
	second, err := agent.Prompt(transcript)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Contains(t, first, "Alice: hi")
	assert.Contains(t, first, "Bob: hello")
	assert.Contains(t, first, "grumpy but kind")
	assert.Contains(t, first, "Keeps the lighthouse.")
	assert.True(t, strings.HasSuffix(first, "Bob:"), "prompt should end with the speaker cue")
}

func TestAgent_RespondReturnsRawText(t *testing.T) {
	oracle := &scriptedOracle{replies: []string{"  Quack!\nWho are you?  "}}
	tracer := newFakeConsole()
	agent := NewAgent(scenario.NPC{Name: "Duck"}, oracle, tracer)

	reply, err := agent.Respond(context.Background(), "Tadpole: hello")
	require.NoError(t, err)
	assert.Equal(t, "  Quack!\nWho are you?  ", reply)
	assert.Equal(t, "Duck", agent.Name())

	require.Len(t, oracle.prompts, 1)
	require.Len(t, tracer.traces, 2)
	assert.Equal(t, "Duck: "+oracle.prompts[0], tracer.traces[0])
	assert.Equal(t, "Duck:   Quack!\nWho are you?  ", tracer.traces[1])
}

func TestAgent_RespondOracleError(t *testing.T) {
	boom := errors.New("connection refused")
	agent := NewAgent(scenario.NPC{Name: "Duck"}, &scriptedOracle{replyErrs: []error{boom}}, nil)

	_, err := agent.Respond(context.Background(), "")
	var oracleErr *OracleError
	require.True(t, errors.As(err, &oracleErr))
	assert.Equal(t, OpRespond, oracleErr.Op)
	assert.Equal(t, "Duck", oracleErr.Speaker)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "oracle failed to respond as Duck: connection refused", err.Error())
}

func TestAgent_RespondWithoutName(t *testing.T) {
	oracle := &scriptedOracle{}
	_, err := NewAgent(scenario.NPC{}, oracle, nil).Respond(context.Background(), "")
	assert.Error(t, err)
	assert.Empty(t, oracle.prompts, "no oracle call without a persona")
}
