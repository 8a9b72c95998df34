package session

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/teranos/efmig/errors"
)

// Prompt reads line-oriented answers from the user.
// It implements workflow.Prompter.
type Prompt struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompt reads from in and writes questions to out.
func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{in: bufio.NewReader(in), out: out}
}

// Line prints label and reads one line without its terminator.
// io.EOF is returned only when no input is left at all.
func (p *Prompt) Line(label string) (string, error) {
	if label != "" {
		fmt.Fprintf(p.out, "%s: ", pterm.LightCyan(label))
	}
	line, err := p.in.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// OutputDir asks where the first migration is created.
func (p *Prompt) OutputDir(defaultDir string) (string, error) {
	answer, err := p.Line(fmt.Sprintf("Output directory for the first migration [%s]", defaultDir))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

// Confirm asks a yes/no question; anything but y or yes is a no.
func (p *Prompt) Confirm(message string) (bool, error) {
	answer, err := p.Line(message + " [y/N]")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Choose lists options numbered from 1 and returns the picked index.
// Invalid answers are re-asked until input runs out.
func (p *Prompt) Choose(title string, options []string) (int, error) {
	if len(options) == 0 {
		return -1, errors.New("nothing to choose from")
	}
	fmt.Fprintln(p.out, title)
	for i, opt := range options {
		fmt.Fprintf(p.out, "  %s %s\n", pterm.Yellow(fmt.Sprintf("%d)", i+1)), opt)
	}
	for {
		answer, err := p.Line(fmt.Sprintf("Choose 1-%d", len(options)))
		if err != nil {
			return -1, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(answer))
		if err == nil && n >= 1 && n <= len(options) {
			return n - 1, nil
		}
		fmt.Fprintln(p.out, pterm.Warning.Sprintf("%q is not between 1 and %d", answer, len(options)))
	}
}
