package chat

import "strings"

// Turn is one line of scene dialogue.
type Turn struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// String renders the turn the way it appears in prompts.
func (t Turn) String() string {
	return t.Speaker + ": " + t.Text
}

// Log is the ordered record of turns for the active scene.
// It has a single owner and is not safe for concurrent use.
type Log struct {
	turns []Turn
}

// NewLog returns an empty conversation log.
func NewLog() *Log {
	return &Log{turns: make([]Turn, 0)}
}

// Append adds a turn. Speaker and text are stored as given.
func (l *Log) Append(speaker, text string) {
	l.turns = append(l.turns, Turn{Speaker: speaker, Text: text})
}

// Render joins every turn as "speaker: text" lines in insertion order.
func (l *Log) Render() string {
	lines := make([]string, len(l.turns))
	for i, t := range l.turns {
		lines[i] = t.String()
	}
	return strings.Join(lines, "\n")
}

// Clear removes all turns.
func (l *Log) Clear() {
	l.turns = l.turns[:0]
}

// Len returns the number of turns.
func (l *Log) Len() int {
	return len(l.turns)
}

// Truncate drops every turn at index n and beyond.
// Used to roll back a turn whose response never arrived.
func (l *Log) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	if n < len(l.turns) {
		l.turns = l.turns[:n]
	}
}

// Turns returns a copy of the recorded turns.
func (l *Log) Turns() []Turn {
	out := make([]Turn, len(l.turns))
	copy(out, l.turns)
	return out
}
