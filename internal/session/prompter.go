package session

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter is the synchronous request/response port for interactive input.
// The terminal implementation blocks on stdin; tests supply canned answers.
type Prompter interface {
	Line(prompt string) (string, error)
	Confirm(prompt string) (bool, error)
}

// TermPrompter reads answers line by line from a terminal.
type TermPrompter struct {
	r *bufio.Reader
	w io.Writer
}

func NewTermPrompter(r io.Reader, w io.Writer) *TermPrompter {
	return &TermPrompter{r: bufio.NewReader(r), w: w}
}

func (p *TermPrompter) Line(prompt string) (string, error) {
	fmt.Fprint(p.w, prompt)
	line, err := p.r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks a destructive-action question; only an explicit "yes"
// confirms.
func (p *TermPrompter) Confirm(prompt string) (bool, error) {
	answer, err := p.Line(prompt + " (yes/no): ")
	if err != nil {
		return false, err
	}
	return strings.EqualFold(answer, "yes"), nil
}
