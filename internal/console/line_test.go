package console

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLine_Output(t *testing.T) {
	var out bytes.Buffer
	c := NewLine(strings.NewReader(""), &out, 20)

	c.Narrate("Spring has come to the pond.")
	c.Say("Duck", "Quack!")
	c.Notice("try again")
	c.Trace("Duck", "a prompt that is much longer than twenty columns")

	assert.Equal(t, "[System]: Spring has come to\nthe pond.\n"+
		"[Duck]: Quack!\n"+
		"[System]: try again\n"+
		"[DEBUG] Duck: a prompt that is much longer than twenty columns\n", out.String())
}

func TestLine_ReadInput(t *testing.T) {
	var out bytes.Buffer
	c := NewLine(strings.NewReader("hello\r\n\nwhere is my mother?\n"), &out, 0)
	ctx := context.Background()

	for _, want := range []string{"hello", "", "where is my mother?"} {
		got, err := c.ReadInput(ctx, "Tadpole")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := c.ReadInput(ctx, "Tadpole")
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, strings.Repeat("[Tadpole]: ", 4), out.String())
}

func TestLine_ReadInputCanceled(t *testing.T) {
	pr, pw := io.Pipe()
	defer func() { _ = pw.Close() }()
	c := NewLine(pr, io.Discard, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.ReadInput(ctx, "Tadpole")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
