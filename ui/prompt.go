package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	siteerrors "github.com/siteship/siteship-cli/internal/errors"
	"golang.org/x/term"
)

// Prompter reads answers from the terminal. With a terminal on both ends it
// runs bubbletea prompts; otherwise it reads lines, falling back to
// term.ReadPassword for secrets when stdin alone is a terminal.
type Prompter struct {
	in     io.Reader
	out    io.Writer
	reader *bufio.Reader

	inFd        int
	inTerminal  bool
	outTerminal bool
}

// NewPrompter creates a Prompter on the process terminal.
func NewPrompter(in, out *os.File) *Prompter {
	p := NewLinePrompter(in, out)
	p.inFd = int(in.Fd())
	p.inTerminal = term.IsTerminal(p.inFd)
	p.outTerminal = term.IsTerminal(int(out.Fd()))
	return p
}

// NewLinePrompter creates a Prompter that reads plain lines from in.
func NewLinePrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: in, out: out, reader: bufio.NewReader(in)}
}

func (p *Prompter) interactive() bool {
	return p.inTerminal && p.outTerminal
}

// Input asks for a line of text.
func (p *Prompter) Input(label, placeholder string) (string, error) {
	if p.interactive() {
		return p.runInput(label, placeholder, false)
	}
	_, _ = fmt.Fprintf(p.out, "%s: ", label)
	return p.readLine()
}

// Password asks for a secret without echoing it.
func (p *Prompter) Password(label string) (string, error) {
	if p.interactive() {
		return p.runInput(label, "", true)
	}
	_, _ = fmt.Fprintf(p.out, "%s: ", label)
	if p.inTerminal {
		b, err := term.ReadPassword(p.inFd)
		_, _ = fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}
	return p.readLine()
}

// Confirm asks a yes/no question. Anything but an explicit yes declines.
func (p *Prompter) Confirm(question string) (bool, error) {
	if p.interactive() {
		m := NewConfirmModel(question)
		if err := p.run(m); err != nil {
			return false, err
		}
		confirmed, aborted := m.Result()
		if aborted {
			return false, siteerrors.ErrAborted
		}
		return confirmed, nil
	}

	_, _ = fmt.Fprintf(p.out, "%s [y/N]: ", question)
	answer, err := p.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (p *Prompter) runInput(label, placeholder string, secret bool) (string, error) {
	m := NewInputModel(label, placeholder, secret)
	if err := p.run(m); err != nil {
		return "", err
	}
	value, aborted := m.Value()
	if aborted {
		return "", siteerrors.ErrAborted
	}
	return value, nil
}

func (p *Prompter) run(m tea.Model) error {
	if _, err := tea.NewProgram(m, tea.WithInput(p.in), tea.WithOutput(p.out)).Run(); err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}
	return nil
}

// readLine returns the next trimmed line. A closed input with nothing left
// to read counts as an abort.
func (p *Prompter) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", siteerrors.ErrAborted
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
