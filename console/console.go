// Package console prints colored result messages and asks the user for input.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")) // green
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")) // red
	promptStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
)

type Console struct {
	Out io.Writer
	In  *os.File
}

func New() *Console {
	return &Console{Out: os.Stdout, In: os.Stdin}
}

// Discard returns a console that prints nothing and never prompts.
func Discard() *Console {
	return &Console{Out: io.Discard}
}

func (c *Console) Success(msg string) {
	_, _ = fmt.Fprintln(c.Out, successStyle.Render(msg))
}

func (c *Console) Failed(msg string) {
	_, _ = fmt.Fprintln(c.Out, failedStyle.Render(msg))
}

// Interactive reports whether stdin is a terminal a prompt can be shown on.
func (c *Console) Interactive() bool {
	return c.In != nil && term.IsTerminal(int(c.In.Fd()))
}

// Prompt asks for a single value. Without a terminal, or on an empty answer,
// def is returned.
func (c *Console) Prompt(title, def string) (string, error) {
	if !c.Interactive() {
		return def, nil
	}
	var value string
	input := huh.NewInput().
		Title(promptStyle.Render(title)).
		Placeholder(def).
		Value(&value)
	if err := huh.NewForm(huh.NewGroup(input)).Run(); err != nil {
		return "", fmt.Errorf("prompt: %w", err)
	}
	if value = strings.TrimSpace(value); value == "" {
		return def, nil
	}
	return value, nil
}
