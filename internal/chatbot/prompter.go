package chatbot

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"
)

// Prompter reads one line of user input after showing label.
type Prompter interface {
	Prompt(ctx context.Context, label string) (string, error)
}

var userLabel = color.New(color.FgGreen, color.Bold).SprintFunc()

// NewPrompter returns a TerminalPrompter when in is an interactive terminal
// and a LinePrompter otherwise.
func NewPrompter(in, out *os.File) Prompter {
	if isatty.IsTerminal(in.Fd()) || isatty.IsCygwinTerminal(in.Fd()) {
		return &TerminalPrompter{stdin: in, stdout: out}
	}
	return NewLinePrompter(in, out)
}

// LinePrompter reads newline-terminated input from a reader, e.g. a pipe.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter creates a LinePrompter reading from in and echoing labels to out.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

// Prompt prints "label: " and returns the next line without its line ending.
// It returns io.EOF once the input is exhausted.
func (p *LinePrompter) Prompt(ctx context.Context, label string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprintf(p.out, "%s ", userLabel(label+":"))

	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSuffix(line, "\r"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// TerminalPrompter reads input with line editing on an interactive terminal.
type TerminalPrompter struct {
	stdin  io.ReadCloser
	stdout io.WriteCloser
}

var promptTemplates = &promptui.PromptTemplates{
	Prompt:  "{{ . | green | bold }}: ",
	Valid:   "{{ . | green | bold }}: ",
	Invalid: "{{ . | green | bold }}: ",
	Success: "{{ . | green | bold }}: ",
}

// Prompt runs a promptui prompt. Ctrl-C and Ctrl-D end the input with io.EOF.
func (p *TerminalPrompter) Prompt(ctx context.Context, label string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	prompt := promptui.Prompt{
		Label:     label,
		Templates: promptTemplates,
		Stdin:     p.stdin,
		Stdout:    p.stdout,
	}
	line, err := prompt.Run()
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return "", io.EOF
	}
	if err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	return line, nil
}
