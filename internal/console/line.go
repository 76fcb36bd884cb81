// Package console implements the player's terminal for the game: a plain
// line console and a bubbletea terminal UI.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/jwebster45206/scene-engine/internal/game"
	"github.com/muesli/reflow/wordwrap"
)

const (
	SystemSpeaker = "System"
	DefaultWidth  = 80
	maxLineBytes  = 1 << 20
)

type readResult struct {
	line string
	err  error
}

// Line is a line-oriented console over a reader and a writer.
// Output is formatted "[speaker]: text" and word-wrapped to Width columns.
type Line struct {
	out   io.Writer
	width int

	in    io.Reader
	start sync.Once
	lines chan readResult

	mu sync.Mutex // serializes writes
}

// Ensure Line implements game.Console and game.Tracer
var (
	_ game.Console = (*Line)(nil)
	_ game.Tracer  = (*Line)(nil)
)

// NewLine creates a console. width <= 0 selects DefaultWidth.
func NewLine(in io.Reader, out io.Writer, width int) *Line {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Line{
		out:   out,
		width: width,
		in:    in,
		lines: make(chan readResult),
	}
}

func (l *Line) Narrate(text string) {
	l.printf("[%s]: %s\n", SystemSpeaker, l.wrap(text))
}

func (l *Line) Say(speaker, text string) {
	l.printf("[%s]: %s\n", speaker, l.wrap(text))
}

func (l *Line) Notice(text string) {
	l.printf("[%s]: %s\n", SystemSpeaker, l.wrap(text))
}

// Trace prints debug output unwrapped so prompts stay verbatim.
func (l *Line) Trace(source, text string) {
	l.printf("[DEBUG] %s: %s\n", source, text)
}

// ReadInput prompts the player and waits for one line. It returns io.EOF
// when input is exhausted and ctx.Err() when ctx ends first.
func (l *Line) ReadInput(ctx context.Context, player string) (string, error) {
	l.start.Do(func() { go l.scan() })
	l.printf("[%s]: ", player)

	select {
	case <-ctx.Done():
		l.printf("\n")
		return "", ctx.Err()
	case res, ok := <-l.lines:
		if !ok {
			return "", io.EOF
		}
		return res.line, res.err
	}
}

// scan feeds lines from the reader until it is exhausted.
func (l *Line) scan() {
	defer close(l.lines)
	scanner := bufio.NewScanner(l.in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		l.lines <- readResult{line: strings.TrimRight(scanner.Text(), "\r")}
	}
	if err := scanner.Err(); err != nil {
		l.lines <- readResult{err: fmt.Errorf("failed to read input: %w", err)}
	}
}

func (l *Line) wrap(text string) string {
	return wordwrap.String(text, l.width)
}

func (l *Line) printf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = fmt.Fprintf(l.out, format, args...)
}
