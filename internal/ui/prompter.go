package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// OperatorPrompter asks the person at the device under test to verify
// behavior the harness cannot observe on the bus, such as an OSD string
// actually appearing on screen.
type OperatorPrompter struct {
	Out io.Writer
}

func NewOperatorPrompter(out io.Writer) *OperatorPrompter {
	return &OperatorPrompter{Out: out}
}

// Confirm asks a yes/no question and blocks until the operator answers.
func (p *OperatorPrompter) Confirm(question string) (bool, error) {
	var ok bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(question).
			Affirmative("Yes").
			Negative("No").
			Value(&ok),
	))
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("confirm prompt: %w", err)
	}
	return ok, nil
}

// Announce prints an instruction for the operator.
func (p *OperatorPrompter) Announce(text string) error {
	prefix := lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true).Render(">>")
	_, err := fmt.Fprintf(p.Out, "%s %s\n", prefix, text)
	return err
}
