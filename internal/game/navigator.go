package game

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jwebster45206/scene-engine/pkg/chat"
	"github.com/jwebster45206/scene-engine/pkg/scenario"
)

// GameOverText is narrated after the last scene.
const GameOverText = "Game over."

// Cursor is a zero-based (episode, scene) position.
type Cursor struct {
	Episode int
	Scene   int
}

// Less orders cursors by episode, then scene.
func (c Cursor) Less(o Cursor) bool {
	if c.Episode != o.Episode {
		return c.Episode < o.Episode
	}
	return c.Scene < o.Scene
}

func (c Cursor) String() string {
	return fmt.Sprintf("episode %d, scene %d", c.Episode+1, c.Scene+1)
}

// Navigator owns the progress cursor and the conversation log, and runs
// scenes in order until the last one completes.
type Navigator struct {
	scenario *scenario.Scenario
	runner   SceneRunner
	console  Console
	events   EventPublisher
	logger   *slog.Logger

	log    *chat.Log
	cursor Cursor
	over   bool
}

// NewNavigator creates a navigator positioned at the first scene. Nil events
// and logger select no-op defaults.
func NewNavigator(s *scenario.Scenario, runner SceneRunner, console Console, events EventPublisher, logger *slog.Logger) *Navigator {
	if events == nil {
		events = nopEvents{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Navigator{
		scenario: s,
		runner:   runner,
		console:  console,
		events:   events,
		logger:   logger,
		log:      chat.NewLog(),
		over:     len(s.Episodes) == 0,
	}
}

// Cursor returns the current position.
func (n *Navigator) Cursor() Cursor {
	return n.cursor
}

// Log returns the conversation log of the current scene.
func (n *Navigator) Log() *chat.Log {
	return n.log
}

// IsOver reports whether every scene has completed.
func (n *Navigator) IsOver() bool {
	return n.over
}

// Advance moves the cursor to the next scene, rolling over into the next
// episode, and clears the log. It returns false once the game is over.
func (n *Navigator) Advance() bool {
	if n.over {
		return false
	}
	n.cursor.Scene++
	if n.cursor.Scene >= len(n.scenario.Episodes[n.cursor.Episode].Scenes) {
		n.cursor.Scene = 0
		n.cursor.Episode++
	}
	n.log.Clear()
	if n.cursor.Episode >= len(n.scenario.Episodes) {
		n.over = true
	}
	return !n.over
}

// Run plays from the current scene to the end of the game.
func (n *Navigator) Run(ctx context.Context) error {
	if n.over {
		return nil
	}
	if n.cursor == (Cursor{}) && n.scenario.Background != "" {
		n.console.Narrate(n.scenario.Background)
	}

	for !n.over {
		ep, scene, err := n.scenario.SceneAt(n.cursor.Episode, n.cursor.Scene)
		if err != nil {
			return err
		}
		at := n.cursor

		n.logger.Info("Scene starting", "cursor", at.String(), "scene_id", scene.ID.String())
		n.console.Narrate(fmt.Sprintf("Episode %s, Scene %s: %s", ep.Number, scene.ID, scene.Description))
		if err := n.events.PublishSceneStarted(ctx, at.Episode, at.Scene, scene.ID.String()); err != nil {
			n.logger.Warn("Failed to publish scene start", "error", err)
		}

		if err := n.runner.Run(ctx, at, scene, n.log); err != nil {
			return fmt.Errorf("%s: %w", at, err)
		}

		n.logger.Info("Scene completed", "cursor", at.String(), "turns", n.log.Len()/2)
		if err := n.events.PublishSceneCompleted(ctx, at.Episode, at.Scene, scene.ID.String()); err != nil {
			n.logger.Warn("Failed to publish scene completion", "error", err)
		}
		n.Advance()
	}

	n.console.Narrate(GameOverText)
	if err := n.events.PublishGameOver(ctx); err != nil {
		n.logger.Warn("Failed to publish game over", "error", err)
	}
	n.logger.Info("Game over")
	return nil
}
