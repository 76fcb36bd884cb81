package game

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/jwebster45206/scene-engine/internal/services"
	"github.com/jwebster45206/scene-engine/pkg/chat"
	"github.com/jwebster45206/scene-engine/pkg/scenario"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// pondScenario has one episode with two scenes, each with one opening and one closing line.
func pondScenario() *scenario.Scenario {
	return &scenario.Scenario{
		Background: "Spring has come to the pond.",
		Player:     scenario.Player{Name: "Tadpole"},
		NPCs: []scenario.NPC{
			{Name: "Duck", Traits: "warm, chatty", Backstory: "Raises ducklings by the reeds."},
			{Name: "Frog", Traits: "gentle", Backstory: "Lost her eggs in the spring rain."},
		},
		Episodes: []scenario.Episode{
			{
				Number: "1",
				Scenes: []scenario.Scene{
					{
						ID:             "1",
						Description:    "The reeds",
						NPCs:           []string{"Duck"},
						Target:         "Learn what your mother looks like",
						StartDialogues: []scenario.Dialogue{{Speaker: "Duck", Text: "Quack! Who are you?"}},
						EndDialogues:   []scenario.Dialogue{{Speaker: "Duck", Text: "Good luck, little one."}},
					},
					{
						ID:             "2",
						Description:    "The lily pad",
						NPCs:           []string{"Frog", "Duck"},
						Target:         "Find your mother",
						StartDialogues: []scenario.Dialogue{{Speaker: "Frog", Text: "Ribbit."}},
						EndDialogues:   []scenario.Dialogue{{Speaker: "Frog", Text: "My child!"}},
					},
				},
			},
		},
	}
}

// fakeConsole feeds scripted player lines and records everything shown.
type fakeConsole struct {
	mu      sync.Mutex
	inputs  []string
	out     []string
	traces  []string
	onInput func(n int) // called before each read with the count of reads so far
	reads   int
}

func newFakeConsole(inputs ...string) *fakeConsole {
	return &fakeConsole{inputs: inputs}
}

func (c *fakeConsole) Narrate(text string) { c.record("[System]: " + text) }

func (c *fakeConsole) Say(speaker, text string) { c.record(fmt.Sprintf("[%s]: %s", speaker, text)) }

func (c *fakeConsole) Notice(text string) { c.record("[Notice]: " + text) }

func (c *fakeConsole) Trace(source, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.traces = append(c.traces, source+": "+text)
}

func (c *fakeConsole) ReadInput(ctx context.Context, player string) (string, error) {
	c.mu.Lock()
	n := c.reads
	c.reads++
	hook := c.onInput
	c.mu.Unlock()

	if hook != nil {
		hook(n)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.inputs) == 0 {
		return "", io.EOF
	}
	line := c.inputs[0]
	c.inputs = c.inputs[1:]
	c.out = append(c.out, fmt.Sprintf("[%s]> %s", player, line))
	return line, nil
}

func (c *fakeConsole) record(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.out = append(c.out, line)
}

func (c *fakeConsole) lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.out...)
}

// scriptedOracle answers persona prompts from replies and judge prompts from
// verdicts, in order. Exhausted scripts repeat their last entry. It records
// every prompt it sees.
type scriptedOracle struct {
	mu         sync.Mutex
	replies    []string
	verdicts   []string
	replyErrs  []error
	judgeErrs  []error
	prompts    []string
	judgeCalls []string
}

func (o *scriptedOracle) Generate(ctx context.Context, prompt string) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.prompts = append(o.prompts, prompt)

	if isJudgePrompt(prompt) {
		o.judgeCalls = append(o.judgeCalls, prompt)
		if err := pop(&o.judgeErrs); err != nil {
			return "", err
		}
		return next(&o.verdicts, "no"), nil
	}
	if err := pop(&o.replyErrs); err != nil {
		return "", err
	}
	return next(&o.replies, "..."), nil
}

var _ services.Oracle = (*scriptedOracle)(nil)

func isJudgePrompt(prompt string) bool {
	return strings.Contains(prompt, "Answer yes or no")
}

func next(script *[]string, fallback string) string {
	s := *script
	if len(s) == 0 {
		return fallback
	}
	if len(s) == 1 {
		return s[0]
	}
	*script = s[1:]
	return s[0]
}

func pop(errs *[]error) error {
	if len(*errs) == 0 {
		return nil
	}
	err := (*errs)[0]
	*errs = (*errs)[1:]
	return err
}

// recordingEvents collects published events as strings.
type recordingEvents struct {
	mu     sync.Mutex
	events []string
}

func (e *recordingEvents) add(s string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, s)
	return nil
}

func (e *recordingEvents) PublishSceneStarted(_ context.Context, episode, scene int, sceneID string) error {
	return e.add(fmt.Sprintf("scene.started %d/%d %s", episode, scene, sceneID))
}

func (e *recordingEvents) PublishStateChanged(_ context.Context, episode, scene int, state string) error {
	return e.add("state " + state)
}

func (e *recordingEvents) PublishTurnAppended(_ context.Context, speaker, text string) error {
	return e.add("turn " + speaker)
}

func (e *recordingEvents) PublishSceneCompleted(_ context.Context, episode, scene int, sceneID string) error {
	return e.add(fmt.Sprintf("scene.completed %d/%d %s", episode, scene, sceneID))
}

func (e *recordingEvents) PublishGameOver(context.Context) error {
	return e.add("game.over")
}

// countingRunner completes every scene at once and records where it ran.
type countingRunner struct {
	calls   []Cursor
	logLens []int
	turns   int // turns appended to the log per scene
	err     error
}

func (r *countingRunner) Run(ctx context.Context, at Cursor, scene *scenario.Scene, log *chat.Log) error {
	r.calls = append(r.calls, at)
	r.logLens = append(r.logLens, log.Len())
	for i := 0; i < r.turns; i++ {
		log.Append("Tadpole", "hi")
		log.Append(scene.NPCs[0], "hello")
	}
	return r.err
}
