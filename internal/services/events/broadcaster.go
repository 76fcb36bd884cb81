package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// EventType represents the type of event being broadcast
type EventType string

const (
	EventTypeSceneStarted   EventType = "scene.started"
	EventTypeStateChanged   EventType = "scene.state_changed"
	EventTypeTurnAppended   EventType = "scene.turn_appended"
	EventTypeSceneCompleted EventType = "scene.completed"
	EventTypeGameOver       EventType = "game.over"
)

// Event represents a generic event structure
type Event struct {
	Type   EventType              `json:"type"`
	GameID string                 `json:"game_id,omitempty"`
	Data   map[string]interface{} `json:"data,omitempty"`
}

// Channel returns the Pub/Sub channel carrying a game's events.
func Channel(gameID uuid.UUID) string {
	return fmt.Sprintf("game-events:%s", gameID.String())
}

// Broadcaster publishes one game session's events to Redis Pub/Sub
type Broadcaster struct {
	redisClient *redis.Client
	gameID      uuid.UUID
	logger      *slog.Logger
}

// Connect parses a redis:// URL and checks the server answers.
func Connect(ctx context.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	logger.Info("Connected to Redis", "addr", opts.Addr, "db", opts.DB)
	return client, nil
}

// NewBroadcaster creates a new event broadcaster for gameID
func NewBroadcaster(redisClient *redis.Client, gameID uuid.UUID, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		redisClient: redisClient,
		gameID:      gameID,
		logger:      logger,
	}
}

// PublishSceneStarted publishes a scene.started event
func (b *Broadcaster) PublishSceneStarted(ctx context.Context, episode, scene int, sceneID string) error {
	return b.publishToGame(ctx, Event{
		Type: EventTypeSceneStarted,
		Data: map[string]interface{}{
			"episode":  episode,
			"scene":    scene,
			"scene_id": sceneID,
		},
	})
}

// PublishStateChanged publishes a scene.state_changed event
func (b *Broadcaster) PublishStateChanged(ctx context.Context, episode, scene int, state string) error {
	return b.publishToGame(ctx, Event{
		Type: EventTypeStateChanged,
		Data: map[string]interface{}{
			"episode": episode,
			"scene":   scene,
			"state":   state,
		},
	})
}

// PublishTurnAppended publishes a scene.turn_appended event
func (b *Broadcaster) PublishTurnAppended(ctx context.Context, speaker, text string) error {
	return b.publishToGame(ctx, Event{
		Type: EventTypeTurnAppended,
		Data: map[string]interface{}{
			"speaker": speaker,
			"text":    text,
		},
	})
}

// PublishSceneCompleted publishes a scene.completed event
func (b *Broadcaster) PublishSceneCompleted(ctx context.Context, episode, scene int, sceneID string) error {
	return b.publishToGame(ctx, Event{
		Type: EventTypeSceneCompleted,
		Data: map[string]interface{}{
			"episode":  episode,
			"scene":    scene,
			"scene_id": sceneID,
		},
	})
}

// PublishGameOver publishes a game.over event
func (b *Broadcaster) PublishGameOver(ctx context.Context) error {
	return b.publishToGame(ctx, Event{Type: EventTypeGameOver})
}

// publishToGame publishes an event to the game-specific channel
func (b *Broadcaster) publishToGame(ctx context.Context, event Event) error {
	channel := Channel(b.gameID)
	event.GameID = b.gameID.String()

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("Failed to marshal event", "error", err, "event", event)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish event", "error", err, "channel", channel)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debug("Event published",
		"channel", channel,
		"event_type", event.Type,
	)

	return nil
}
