package shell

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Input reads user input. Line echoes; Secret suppresses echo when the
// underlying reader is a terminal.
type Input interface {
	Line(prompt string) (string, error)
	Secret(prompt string) (string, error)
}

// TermInput reads from a file (normally os.Stdin), using the terminal's
// no-echo mode for secrets when available.
type TermInput struct {
	file *os.File
	r    *bufio.Reader
	out  io.Writer
}

// NewTermInput creates a TermInput reading from in and echoing prompts to
// out.
func NewTermInput(in *os.File, out io.Writer) *TermInput {
	return &TermInput{file: in, r: bufio.NewReader(in), out: out}
}

// Line prints the prompt and reads one line.
func (t *TermInput) Line(prompt string) (string, error) {
	fmt.Fprint(t.out, prompt)
	line, err := t.r.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Secret reads one line without echo when the input is a terminal, falling
// back to a plain line read otherwise (piped sessions, tests).
func (t *TermInput) Secret(prompt string) (string, error) {
	fd := int(t.file.Fd())
	if !term.IsTerminal(fd) {
		return t.Line(prompt)
	}
	fmt.Fprint(t.out, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(t.out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
