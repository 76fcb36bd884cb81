package scenario

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigError reports a malformed or missing scenario field.
// Episode and Scene are zero-based indexes, -1 when not applicable.
type ConfigError struct {
	Episode int
	Scene   int
	SceneID string
	Field   string
	Msg     string
}

func (e *ConfigError) Error() string {
	var where []string
	if e.Episode >= 0 {
		where = append(where, fmt.Sprintf("episode %d", e.Episode+1))
	}
	if e.Scene >= 0 {
		if e.SceneID != "" {
			where = append(where, fmt.Sprintf("scene %d (id %s)", e.Scene+1, e.SceneID))
		} else {
			where = append(where, fmt.Sprintf("scene %d", e.Scene+1))
		}
	}
	if e.Field != "" {
		where = append(where, e.Field)
	}
	if len(where) == 0 {
		return e.Msg
	}
	return strings.Join(where, ", ") + ": " + e.Msg
}

// Validate checks everything the game relies on at runtime. All problems are
// returned together, joined with errors.Join; each one is a *ConfigError.
func (s *Scenario) Validate() error {
	var errs []error
	add := func(ep, sc int, id Label, field, msg string) {
		errs = append(errs, &ConfigError{Episode: ep, Scene: sc, SceneID: id.String(), Field: field, Msg: msg})
	}

	if strings.TrimSpace(s.Player.Name) == "" {
		add(-1, -1, "", "player.name", "player name is required")
	}

	seen := make(map[string]bool, len(s.NPCs))
	for i, npc := range s.NPCs {
		field := fmt.Sprintf("npcs[%d]", i)
		if strings.TrimSpace(npc.Name) == "" {
			add(-1, -1, "", field, "npc name is required")
			continue
		}
		if seen[npc.Name] {
			add(-1, -1, "", field, fmt.Sprintf("npc %q is defined more than once", npc.Name))
		}
		seen[npc.Name] = true
	}

	if len(s.Episodes) == 0 {
		add(-1, -1, "", "episodes", "at least one episode is required")
	}

	for e, ep := range s.Episodes {
		if len(ep.Scenes) == 0 {
			add(e, -1, "", "scenes", "episode has no scenes")
		}
		for c, scene := range ep.Scenes {
			if strings.TrimSpace(scene.Target) == "" {
				add(e, c, scene.ID, "target", "goal description is required")
			}
			if err := s.checkSceneNPCs(e, c, &scene); err != nil {
				errs = append(errs, err)
			}
		}
	}

	return errors.Join(errs...)
}

// Warnings reports problems that do not stop the game with the default
// speaker: undefined secondary npcs and npcs named like the player.
func (s *Scenario) Warnings() []*ConfigError {
	var warns []*ConfigError
	for i, npc := range s.NPCs {
		if npc.Name != "" && npc.Name == s.Player.Name {
			warns = append(warns, &ConfigError{Episode: -1, Scene: -1, Field: fmt.Sprintf("npcs[%d]", i),
				Msg: fmt.Sprintf("npc %q shares the player's name", npc.Name)})
		}
	}
	for e, ep := range s.Episodes {
		for c, scene := range ep.Scenes {
			for i, name := range scene.NPCs[min(1, len(scene.NPCs)):] {
				if _, ok := s.NPC(name); !ok {
					warns = append(warns, &ConfigError{Episode: e, Scene: c, SceneID: scene.ID.String(),
						Field: fmt.Sprintf("npcs[%d]", i+1), Msg: fmt.Sprintf("npc %q is not defined", name)})
				}
			}
		}
	}
	return warns
}

// checkSceneNPCs verifies the first eligible NPC exists.
func (s *Scenario) checkSceneNPCs(episode, scene int, sc *Scene) error {
	if len(sc.NPCs) == 0 {
		return &ConfigError{Episode: episode, Scene: scene, SceneID: sc.ID.String(), Field: "npcs", Msg: "scene names no npc"}
	}
	if _, ok := s.NPC(sc.NPCs[0]); !ok {
		return &ConfigError{Episode: episode, Scene: scene, SceneID: sc.ID.String(), Field: "npcs[0]", Msg: fmt.Sprintf("npc %q is not defined", sc.NPCs[0])}
	}
	return nil
}
