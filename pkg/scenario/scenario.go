package scenario

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is the top-level shape of a scenario file.
type Document struct {
	Game Scenario `json:"game" yaml:"game"`
}

// Scenario is the authored narrative: background, NPC roster and episodes.
// It is loaded once and never mutated by the game.
type Scenario struct {
	Title      string    `json:"title,omitempty" yaml:"title,omitempty"` // Display name used when listing scenarios
	Background string    `json:"background" yaml:"background"`           // Narration shown before the first scene
	Player     Player    `json:"player" yaml:"player"`
	NPCs       []NPC     `json:"npcs" yaml:"npcs"`
	Episodes   []Episode `json:"episodes" yaml:"episodes"`
}

// Player identifies the human participant.
type Player struct {
	Name string `json:"name" yaml:"name"`
}

// NPC is a persona definition.
type NPC struct {
	Name      string `json:"name" yaml:"name"`
	Traits    string `json:"traits" yaml:"traits"`
	Backstory string `json:"backstory" yaml:"backstory"`
}

// Episode is an ordered group of scenes.
type Episode struct {
	Number Label   `json:"episodeNumber" yaml:"episodeNumber"` // display only
	Scenes []Scene `json:"scenes" yaml:"scenes"`
}

// Scene is the smallest narrative unit. It runs until its Target is judged met.
type Scene struct {
	ID             Label      `json:"sceneId" yaml:"sceneId"` // display only
	Description    string     `json:"description" yaml:"description"`
	NPCs           []string   `json:"npcs" yaml:"npcs"`     // eligible speakers; the first is active
	Target         string     `json:"target" yaml:"target"` // goal description given to the judge
	StartDialogues []Dialogue `json:"start_dialogues" yaml:"start_dialogues"`
	EndDialogues   []Dialogue `json:"end_dialogues" yaml:"end_dialogues"`
}

// Dialogue is a scripted line shown at the start or end of a scene.
type Dialogue struct {
	Speaker string `json:"speaker" yaml:"speaker"`
	Text    string `json:"text" yaml:"text"`
}

// Label holds a display identifier that authors write either as a number or a string.
type Label string

func (l Label) String() string {
	return string(l)
}

// UnmarshalJSON accepts strings and numbers.
func (l *Label) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = Label(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("label must be a string or number: %w", err)
	}
	*l = Label(n.String())
	return nil
}

// UnmarshalYAML accepts any scalar.
func (l *Label) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("label must be a scalar, line %d", value.Line)
	}
	*l = Label(value.Value)
	return nil
}

// NPC looks up a persona by name.
func (s *Scenario) NPC(name string) (NPC, bool) {
	for _, npc := range s.NPCs {
		if npc.Name == name {
			return npc, true
		}
	}
	return NPC{}, false
}

// SceneAt returns the episode and scene at the given indexes.
func (s *Scenario) SceneAt(episode, scene int) (*Episode, *Scene, error) {
	if episode < 0 || episode >= len(s.Episodes) {
		return nil, nil, &ConfigError{Episode: episode, Scene: -1, Field: "episodes", Msg: fmt.Sprintf("episode index %d out of range (%d episodes)", episode, len(s.Episodes))}
	}
	ep := &s.Episodes[episode]
	if scene < 0 || scene >= len(ep.Scenes) {
		return nil, nil, &ConfigError{Episode: episode, Scene: scene, Field: "scenes", Msg: fmt.Sprintf("scene index %d out of range (%d scenes)", scene, len(ep.Scenes))}
	}
	return ep, &ep.Scenes[scene], nil
}

// SceneCount returns the total number of scenes across all episodes.
func (s *Scenario) SceneCount() int {
	total := 0
	for _, ep := range s.Episodes {
		total += len(ep.Scenes)
	}
	return total
}

// DisplayTitle returns the title, or the fallback when none is set.
func (s *Scenario) DisplayTitle(fallback string) string {
	if t := strings.TrimSpace(s.Title); t != "" {
		return t
	}
	return fallback
}
