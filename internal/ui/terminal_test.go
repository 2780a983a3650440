package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTerminal(input string) (*Terminal, *bytes.Buffer) {
	color.NoColor = true
	out := &bytes.Buffer{}
	return NewTerminal(strings.NewReader(input), out, false), out
}

func TestChooseOne(t *testing.T) {
	options := []string{"alpha", "beta", "gamma"}

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "by number", input: "2\n", want: "beta"},
		{name: "by name", input: "gamma\n", want: "gamma"},
		{name: "retry after invalid", input: "7\nalpha\n", want: "alpha"},
		{name: "empty cancels", input: "\n", wantErr: ErrCancelled},
		{name: "eof cancels", input: "", wantErr: ErrCancelled},
		{name: "too many attempts", input: "x\ny\nz\nalpha\n", wantErr: ErrCancelled},
		{name: "last line without newline", input: "3", want: "gamma"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term, out := newTestTerminal(tt.input)

			got, err := term.ChooseOne("Pick one", options)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "1) alpha")
		})
	}
}

func TestChooseOne_NoOptions(t *testing.T) {
	term, _ := newTestTerminal("1\n")

	_, err := term.ChooseOne("Pick one", nil)
	assert.ErrorIs(t, err, ErrNoOptions)
}

func TestAskText(t *testing.T) {
	term, out := newTestTerminal("  hello world  \nsecond\n")

	got, err := term.AskText("You")
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "You: ", out.String())

	got, err = term.AskText("You")
	require.NoError(t, err)
	assert.Equal(t, "second", got)

	_, err = term.AskText("You")
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestRenderPlain(t *testing.T) {
	term, _ := newTestTerminal("")
	assert.Equal(t, "**bold**", term.Render("**bold**"))
}

func TestFormatLines(t *testing.T) {
	color.NoColor = true

	assert.Equal(t, "model:           gpt", Field("model", "gpt"))
	assert.True(t, strings.HasPrefix(MessageLine("assistant", fixedTime()), "assistant "))
	assert.True(t, strings.HasPrefix(ChatLine("work", true, fixedTime()), "* work "))
	assert.True(t, strings.HasPrefix(ChatLine("home", false, fixedTime()), "  home "))
}

func fixedTime() time.Time {
	return time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
}
