package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
)

var (
	ErrNoOptions = errors.New("nothing to choose from")
	ErrCancelled = errors.New("selection cancelled")
)

var (
	promptColor = color.New(color.FgCyan, color.Bold)
	markColor   = color.New(color.FgGreen)
	dimColor    = color.New(color.FgHiBlack)
	errColor    = color.New(color.FgRed)
)

// Terminal implements the interactive capabilities over a line-based reader
// and writer: pick one option, ask for text, print a line.
type Terminal struct {
	in       *bufio.Reader
	out      io.Writer
	markdown bool
	renderer *glamour.TermRenderer
}

func NewTerminal(in io.Reader, out io.Writer, markdown bool) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out, markdown: markdown}
}

// ChooseOne lists options by number and returns the one picked. The user may
// type the number or the option itself; an empty answer cancels.
func (t *Terminal) ChooseOne(prompt string, options []string) (string, error) {
	if len(options) == 0 {
		return "", ErrNoOptions
	}

	promptColor.Fprintln(t.out, prompt)
	for i, o := range options {
		fmt.Fprintf(t.out, "  %s %s\n", markColor.Sprintf("%d)", i+1), o)
	}

	for attempt := 0; attempt < 3; attempt++ {
		answer, err := t.AskText(fmt.Sprintf("Choice [1-%d]", len(options)))
		if err != nil {
			return "", err
		}
		if answer == "" {
			return "", ErrCancelled
		}
		if choice, ok := pick(answer, options); ok {
			return choice, nil
		}
		errColor.Fprintf(t.out, "invalid choice %q\n", answer)
	}
	return "", ErrCancelled
}

func pick(answer string, options []string) (string, bool) {
	if n, err := strconv.Atoi(answer); err == nil {
		if n >= 1 && n <= len(options) {
			return options[n-1], true
		}
		return "", false
	}
	for _, o := range options {
		if o == answer {
			return o, true
		}
	}
	return "", false
}

// AskText reads one trimmed line. EOF with no input is ErrCancelled.
func (t *Terminal) AskText(prompt string) (string, error) {
	promptColor.Fprintf(t.out, "%s: ", prompt)
	line, err := t.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrCancelled
		}
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (t *Terminal) PrintLine(text string) {
	fmt.Fprintln(t.out, text)
}

// Notice prints a dimmed status line.
func (t *Terminal) Notice(format string, args ...any) {
	dimColor.Fprintf(t.out, format+"\n", args...)
}

// Warn prints a highlighted problem the user can act on.
func (t *Terminal) Warn(format string, args ...any) {
	errColor.Fprintf(t.out, format+"\n", args...)
}

// Delta writes a streamed fragment as is.
func (t *Terminal) Delta(fragment string) {
	fmt.Fprint(t.out, fragment)
}

// Render formats markdown for the terminal. Plain text is returned when
// rendering is disabled or fails.
func (t *Terminal) Render(md string) string {
	if !t.markdown {
		return md
	}
	if t.renderer == nil {
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
		if err != nil {
			t.markdown = false
			return md
		}
		t.renderer = r
	}
	out, err := t.renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}
