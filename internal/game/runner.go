package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jwebster45206/scene-engine/internal/services"
	"github.com/jwebster45206/scene-engine/pkg/chat"
	"github.com/jwebster45206/scene-engine/pkg/prompts"
	"github.com/jwebster45206/scene-engine/pkg/scenario"
)

// State is a Scene Runner state.
type State int

const (
	NotStarted State = iota
	AwaitingInput
	AgentResponding
	Judging
	Completed
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case AwaitingInput:
		return "awaiting_input"
	case AgentResponding:
		return "agent_responding"
	case Judging:
		return "judging"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// SceneRunner drives one scene to completion. It returns nil once the goal
// is met and the closing lines have been shown.
type SceneRunner interface {
	Run(ctx context.Context, at Cursor, scene *scenario.Scene, log *chat.Log) error
}

// Runner is the turn loop for a single scene: player input, NPC reply, goal check.
// There is no turn cap; a scene whose goal is never met keeps asking for input.
// A Runner is driven by one goroutine at a time.
type Runner struct {
	scenario *scenario.Scenario
	oracle   services.Oracle
	console  Console
	tracer   Tracer
	events   EventPublisher
	policy   SpeakerPolicy
	judge    *Judge
	agents   map[string]*Agent
	logger   *slog.Logger

	state State
}

// Ensure Runner implements SceneRunner
var _ SceneRunner = (*Runner)(nil)

// NewRunner creates a runner for s. Nil tracer, events, policy and logger
// select no-op defaults, with FirstEligible as the policy.
func NewRunner(s *scenario.Scenario, oracle services.Oracle, console Console, tracer Tracer, events EventPublisher, policy SpeakerPolicy, logger *slog.Logger) *Runner {
	if tracer == nil {
		tracer = nopTracer{}
	}
	if events == nil {
		events = nopEvents{}
	}
	if policy == nil {
		policy = FirstEligible{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{
		scenario: s,
		oracle:   oracle,
		console:  console,
		tracer:   tracer,
		events:   events,
		policy:   policy,
		judge:    NewJudge(oracle, tracer),
		agents:   make(map[string]*Agent),
		logger:   logger,
	}
}

// State returns the state of the scene being run, or of the last one.
func (r *Runner) State() State {
	return r.state
}

func (r *Runner) Run(ctx context.Context, at Cursor, scene *scenario.Scene, log *chat.Log) error {
	r.setState(ctx, at, NotStarted)

	agent, err := r.activeAgent(at, scene)
	if err != nil {
		return err
	}
	player := r.scenario.Player.Name
	logger := r.logger.With("cursor", at.String(), "npc", agent.Name())

	for _, line := range scene.StartDialogues {
		r.console.Say(line.Speaker, line.Text)
	}

	for turn := 1; ; turn++ {
		r.setState(ctx, at, AwaitingInput)
		input, err := r.console.ReadInput(ctx, player)
		if err != nil {
			return fmt.Errorf("failed to read player input: %w", err)
		}

		mark := log.Len()
		log.Append(player, input)

		r.setState(ctx, at, AgentResponding)
		reply, err := agent.Respond(ctx, log.Render())
		if err != nil {
			// drop the player line so the log holds complete turns only
			log.Truncate(mark)
			if err := r.turnFailed(ctx, logger, turn, err); err != nil {
				return err
			}
			continue
		}
		log.Append(agent.Name(), reply)
		// published together so subscribers never see a turn that was rolled back
		r.publishTurn(ctx, player, input)
		r.publishTurn(ctx, agent.Name(), reply)
		r.console.Say(agent.Name(), reply)

		r.setState(ctx, at, Judging)
		met, err := r.judge.IsGoalMet(ctx, scene.Target, log.Render())
		if err != nil {
			// the turn is complete; the next turn is judged on the whole transcript
			if err := r.turnFailed(ctx, logger, turn, err); err != nil {
				return err
			}
			continue
		}
		logger.Debug("Goal judged", "turn", turn, "met", met)
		if met {
			break
		}
	}

	for _, line := range scene.EndDialogues {
		r.console.Say(line.Speaker, line.Text)
	}
	r.setState(ctx, at, Completed)
	return nil
}

// activeAgent resolves the scene's speaking NPC against the roster.
func (r *Runner) activeAgent(at Cursor, scene *scenario.Scene) (*Agent, error) {
	idx, err := r.policy.Speaker(scene)
	if err != nil {
		return nil, &scenario.ConfigError{Episode: at.Episode, Scene: at.Scene, SceneID: scene.ID.String(), Field: "npcs", Msg: err.Error()}
	}
	if idx < 0 || idx >= len(scene.NPCs) {
		return nil, &scenario.ConfigError{Episode: at.Episode, Scene: at.Scene, SceneID: scene.ID.String(), Field: "npcs",
			Msg: fmt.Sprintf("speaker index %d out of range (%d npcs)", idx, len(scene.NPCs))}
	}
	name := scene.NPCs[idx]
	if agent, ok := r.agents[name]; ok {
		return agent, nil
	}
	npc, ok := r.scenario.NPC(name)
	if !ok {
		return nil, &scenario.ConfigError{Episode: at.Episode, Scene: at.Scene, SceneID: scene.ID.String(),
			Field: fmt.Sprintf("npcs[%d]", idx), Msg: fmt.Sprintf("npc %q is not defined", name)}
	}
	agent := NewAgent(npc, r.oracle, r.tracer)
	r.agents[name] = agent
	return agent, nil
}

func (r *Runner) publishTurn(ctx context.Context, speaker, text string) {
	if err := r.events.PublishTurnAppended(ctx, speaker, text); err != nil {
		r.logger.Warn("Failed to publish turn", "error", err)
	}
}

func (r *Runner) setState(ctx context.Context, at Cursor, s State) {
	r.state = s
	if err := r.events.PublishStateChanged(ctx, at.Episode, at.Scene, s.String()); err != nil {
		r.logger.Warn("Failed to publish state change", "error", err, "state", s.String())
	}
}

// turnFailed decides whether a failed oracle step ends the scene. Oracle
// failures are shown to the player and the scene goes on; cancellation and
// anything else is returned.
func (r *Runner) turnFailed(ctx context.Context, logger *slog.Logger, turn int, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("turn %d interrupted: %w", turn, ctxErr)
	}
	var oracleErr *OracleError
	if !errors.As(err, &oracleErr) {
		return err
	}
	logger.Error("Oracle unavailable, turn abandoned", "turn", turn, "op", oracleErr.Op, "error", oracleErr.Err)
	r.console.Notice(prompts.StorytellerUnavailable)
	return nil
}
