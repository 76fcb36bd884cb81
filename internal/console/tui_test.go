package console

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func update(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(model)
	require.True(t, ok)
	return out
}

func newSizedModel(t *testing.T, inputs chan string) model {
	t.Helper()
	m := newModel("The Pond", inputs)
	return update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
}

func TestModel_SubmitOnlyWhenWaiting(t *testing.T) {
	inputs := make(chan string, 1)
	m := newSizedModel(t, inputs)

	m.textarea.SetValue("too early")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Empty(t, inputs, "no input is sent while the story is busy")

	m = update(t, m, awaitInputMsg{player: "Tadpole"})
	assert.True(t, m.waiting)

	m.textarea.SetValue("  Are you my mother?  ")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	require.Len(t, inputs, 1)
	assert.Equal(t, "Are you my mother?", <-inputs)
	assert.False(t, m.waiting)
	assert.Equal(t, "", m.textarea.Value())
	assert.Equal(t, "[Tadpole]: Are you my mother?", m.transcript())
}

func TestModel_BlankInputIgnored(t *testing.T) {
	inputs := make(chan string, 1)
	m := newSizedModel(t, inputs)
	m = update(t, m, awaitInputMsg{player: "Tadpole"})

	m.textarea.SetValue("   ")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Empty(t, inputs)
	assert.True(t, m.waiting)
}

func TestModel_TranscriptAndCopy(t *testing.T) {
	m := newSizedModel(t, make(chan string, 1))
	m = update(t, m, entryMsg{kind: entryNarration, text: "Spring has come to the pond."})
	m = update(t, m, entryMsg{kind: entryDialogue, speaker: "Duck", text: "Quack!"})
	m = update(t, m, entryMsg{kind: entryNotice, text: "The storyteller could not respond; please try again."})
	m = update(t, m, entryMsg{kind: entryTrace, speaker: "system", text: "no"})

	want := "[System]: Spring has come to the pond.\n" +
		"[Duck]: Quack!\n" +
		"[System]: The storyteller could not respond; please try again.\n" +
		"[DEBUG] system: no"
	assert.Equal(t, want, m.transcript())

	var copied string
	m.copyFn = func(s string) error {
		copied = s
		return nil
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.Equal(t, want, copied)
	assert.Equal(t, "Dialogue copied to clipboard.", m.status)

	m.copyFn = func(string) error { return errors.New("no clipboard") }
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.Contains(t, m.status, "no clipboard")
	assert.Contains(t, m.View(), "no clipboard")
}

func TestModel_QuitFlow(t *testing.T) {
	m := newSizedModel(t, make(chan string, 1))

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, m.quitting)
	assert.Contains(t, m.View(), "Quit Game?")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	assert.False(t, m.quitting)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_GameEnded(t *testing.T) {
	m := newSizedModel(t, make(chan string, 1))
	m = update(t, m, gameEndedMsg{err: errors.New("scenario broke")})

	assert.True(t, m.ended)
	view := m.View()
	assert.Contains(t, view, "scenario broke")
	assert.Contains(t, view, "Press Enter to exit.")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
