package console

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/scene-engine/internal/game"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/sync/errgroup"
)

const PlaceHolderText = "Type your line here..."

// ErrQuit is returned by ReadInput after the player closes the UI.
var ErrQuit = errors.New("player quit")

type entryKind int

const (
	entryNarration entryKind = iota
	entryDialogue
	entryPlayer
	entryNotice
	entryTrace
)

// entry is one line of the transcript panel.
type entry struct {
	kind    entryKind
	speaker string
	text    string
}

// plain renders the entry the way the line console would.
func (e entry) plain() string {
	switch e.kind {
	case entryNarration, entryNotice:
		return fmt.Sprintf("[%s]: %s", SystemSpeaker, e.text)
	case entryTrace:
		return fmt.Sprintf("[DEBUG] %s: %s", e.speaker, e.text)
	default:
		return fmt.Sprintf("[%s]: %s", e.speaker, e.text)
	}
}

type entryMsg entry

type awaitInputMsg struct {
	player string
}

type gameEndedMsg struct {
	err error
}

var (
	chatPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(3).
			PaddingRight(3)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	narratorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

// model is the bubbletea model behind TUI.
// https://github.com/charmbracelet/bubbletea
type model struct {
	title    string
	entries  []entry
	viewport viewport.Model
	textarea textarea.Model
	width    int
	height   int
	ready    bool

	player  string
	waiting bool // the game is blocked in ReadInput
	inputs  chan<- string

	ended    bool
	endErr   error
	status   string
	copyFn   func(string) error
	quitting bool // quit confirmation is showing
}

func newModel(title string, inputs chan<- string) model {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 1000
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	vp := viewport.New(50, 20)
	vp.MouseWheelEnabled = true

	return model{
		title:    title,
		viewport: vp,
		textarea: ta,
		inputs:   inputs,
		copyFn:   clipboard.WriteAll,
	}
}

func (m model) Init() tea.Cmd {
	return textarea.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = max(m.width-6, 10)
		m.viewport.Height = max(m.height-8, 3)
		m.textarea.SetWidth(max(m.width-6, 10))
		m.ready = true
		m.refresh()

	case entryMsg:
		m.entries = append(m.entries, entry(msg))
		m.refresh()
		return m, nil

	case awaitInputMsg:
		m.player = msg.player
		m.waiting = true
		m.refresh()
		return m, nil

	case gameEndedMsg:
		m.ended = true
		m.endErr = msg.err
		m.waiting = false
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			if m.ended {
				return m, tea.Quit
			}
			m.quitting = true
			return m, nil
		case tea.KeyCtrlY:
			if err := m.copyFn(m.transcript()); err != nil {
				m.status = errorStyle.Render("Copy failed: " + err.Error())
			} else {
				m.status = "Dialogue copied to clipboard."
			}
			return m, nil
		case tea.KeyEnter:
			if m.ended {
				return m, tea.Quit
			}
			input := strings.TrimSpace(m.textarea.Value())
			if !m.waiting || input == "" {
				return m, nil
			}
			m.textarea.Reset()
			m.waiting = false
			m.status = ""
			m.entries = append(m.entries, entry{kind: entryPlayer, speaker: m.player, text: input})
			m.refresh()
			// buffered; the game is waiting for it
			m.inputs <- input
			return m, nil
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd)
}

func (m model) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case entryMsg:
		m.entries = append(m.entries, entry(msg))
		m.refresh()

	case awaitInputMsg:
		m.player = msg.player
		m.waiting = true

	case gameEndedMsg:
		m.ended = true
		m.endErr = msg.err

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.quitting = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}
	return m, nil
}

// transcript is the plain text of everything shown so far.
func (m model) transcript() string {
	lines := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		lines = append(lines, e.plain())
	}
	return strings.Join(lines, "\n")
}

// refresh rebuilds the transcript panel for the current width.
func (m *model) refresh() {
	width := m.viewport.Width - 2
	if width < 10 {
		width = 10
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render(strings.ToUpper(m.title)) + "\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", width)) + "\n\n")

	for _, e := range m.entries {
		content.WriteString(formatEntry(e, width) + "\n\n")
	}
	if m.ended {
		if m.endErr != nil {
			content.WriteString(errorStyle.Render(wordwrap.String("Error: "+m.endErr.Error(), width)) + "\n\n")
		}
		content.WriteString(promptStyle.Render("Press Enter to exit.") + "\n")
	}

	m.viewport.SetContent(content.String())
	m.viewport.GotoBottom()
}

func formatEntry(e entry, width int) string {
	switch e.kind {
	case entryNarration:
		return narratorStyle.Render(wordwrap.String(e.text, width))
	case entryNotice:
		return errorStyle.Render(wordwrap.String(e.text, width))
	case entryTrace:
		return promptStyle.Render(wordwrap.String("[DEBUG] "+e.speaker+": "+e.text, width))
	case entryPlayer:
		return userStyle.Render(e.speaker+": ") + wordwrap.String(e.text, width-len(e.speaker)-2)
	default:
		return speakerStyle.Render(e.speaker+":") + " " + wordwrap.String(e.text, width-len(e.speaker)-2)
	}
}

func (m model) renderQuitModal() string {
	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to leave the story?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m model) View() string {
	if m.quitting && m.width > 0 {
		return m.renderQuitModal()
	}
	if !m.ready {
		return "\n  Initializing..."
	}

	help := "Enter: send • Ctrl+Y: copy dialogue • Esc: quit"
	if m.waiting {
		help = m.player + ", it is your turn. " + help
	} else if !m.ended {
		help = "The story continues... " + help
	}
	status := promptStyle.Render(help)
	if m.status != "" {
		status = m.status
	}

	return chatPanelStyle.Width(m.width).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.viewport.View(),
			separatorStyle.Render(strings.Repeat("─", max(m.width-6, 1))),
			m.textarea.View(),
			status,
		),
	)
}

// TUI is a full-screen terminal console. The game loop and the bubbletea
// program run in separate goroutines and talk only through messages and
// the inputs channel.
type TUI struct {
	title   string
	opts    []tea.ProgramOption
	program *tea.Program
	inputs  chan string
	done    chan struct{}
}

// Ensure TUI implements game.Console and game.Tracer
var (
	_ game.Console = (*TUI)(nil)
	_ game.Tracer  = (*TUI)(nil)
)

// NewTUI creates a terminal UI titled title. Extra program options are
// passed to bubbletea; tests use them to replace the terminal.
func NewTUI(title string, opts ...tea.ProgramOption) *TUI {
	return &TUI{
		title:  title,
		opts:   opts,
		inputs: make(chan string, 1),
		done:   make(chan struct{}),
	}
}

// Run starts the UI and calls play with the UI as its console. It returns
// once the player leaves the UI. Quitting mid-game cancels play and is not an error.
func (t *TUI) Run(ctx context.Context, play func(ctx context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)

	opts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(gctx)}, t.opts...)
	t.program = tea.NewProgram(newModel(t.title, t.inputs), opts...)

	g.Go(func() error {
		defer close(t.done)
		if _, err := t.program.Run(); err != nil {
			if ctxErr := gctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return fmt.Errorf("terminal UI failed: %w", err)
		}
		return ErrQuit
	})
	g.Go(func() error {
		err := play(gctx)
		t.send(gameEndedMsg{err: err})
		if errors.Is(err, ErrQuit) {
			return nil
		}
		return err
	})

	err := g.Wait()
	if errors.Is(err, ErrQuit) {
		return nil
	}
	return err
}

func (t *TUI) Narrate(text string) {
	t.send(entryMsg{kind: entryNarration, text: text})
}

func (t *TUI) Say(speaker, text string) {
	t.send(entryMsg{kind: entryDialogue, speaker: speaker, text: text})
}

func (t *TUI) Notice(text string) {
	t.send(entryMsg{kind: entryNotice, text: text})
}

func (t *TUI) Trace(source, text string) {
	t.send(entryMsg{kind: entryTrace, speaker: source, text: text})
}

// ReadInput waits for the player to submit a line.
func (t *TUI) ReadInput(ctx context.Context, player string) (string, error) {
	t.send(awaitInputMsg{player: player})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-t.done:
		return "", ErrQuit
	case line := <-t.inputs:
		return line, nil
	}
}

// send delivers msg unless the program has exited.
func (t *TUI) send(msg tea.Msg) {
	select {
	case <-t.done:
	default:
		t.program.Send(msg)
	}
}
