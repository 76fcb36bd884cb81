package game

import (
	"context"
	"fmt"

	"github.com/jwebster45206/scene-engine/pkg/scenario"
)

// Console is the player's terminal: narrative output and line input.
type Console interface {
	// Narrate shows system text such as the background or a scene heading
	Narrate(text string)
	// Say shows one line of dialogue
	Say(speaker, text string)
	// Notice shows a transient message that is not part of the story
	Notice(text string)
	// ReadInput blocks for the player's next line
	ReadInput(ctx context.Context, player string) (string, error)
}

// Tracer receives every prompt and raw oracle response when debugging.
type Tracer interface {
	Trace(source, text string)
}

type nopTracer struct{}

func (nopTracer) Trace(string, string) {}

// EventPublisher is notified as the game progresses.
// internal/services/events.Broadcaster implements it over Redis Pub/Sub.
type EventPublisher interface {
	PublishSceneStarted(ctx context.Context, episode, scene int, sceneID string) error
	PublishStateChanged(ctx context.Context, episode, scene int, state string) error
	PublishTurnAppended(ctx context.Context, speaker, text string) error
	PublishSceneCompleted(ctx context.Context, episode, scene int, sceneID string) error
	PublishGameOver(ctx context.Context) error
}

type nopEvents struct{}

func (nopEvents) PublishSceneStarted(context.Context, int, int, string) error   { return nil }
func (nopEvents) PublishStateChanged(context.Context, int, int, string) error   { return nil }
func (nopEvents) PublishTurnAppended(context.Context, string, string) error     { return nil }
func (nopEvents) PublishSceneCompleted(context.Context, int, int, string) error { return nil }
func (nopEvents) PublishGameOver(context.Context) error                         { return nil }

// SpeakerPolicy picks which of a scene's eligible NPCs answers the player.
// It returns an index into scene.NPCs.
type SpeakerPolicy interface {
	Speaker(scene *scenario.Scene) (int, error)
}

// FirstEligible always picks the first NPC the scene lists.
type FirstEligible struct{}

func (FirstEligible) Speaker(scene *scenario.Scene) (int, error) {
	if len(scene.NPCs) == 0 {
		return 0, fmt.Errorf("scene %s names no npc", scene.ID)
	}
	return 0, nil
}
