// Package prompt implements the interactive prompt loop shared by every
// stage of the preparation flow: display a prompt, read a line, and either
// accept the value, abort the whole run, or print a corrective message and
// ask again.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// AbortToken aborts the run when entered (case-insensitively) at any prompt.
const AbortToken = "exit"

// ErrAborted is returned by every prompt method when the user enters the
// abort token or closes the input stream. Callers treat it as a clean,
// user-requested stop, not a failure.
var ErrAborted = errors.New("aborted by user")

// Prompter reads validated answers from an input stream. Injecting the
// streams keeps the interactive flow testable with scripted input.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a Prompter reading from in and writing prompts to out.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// read returns the next input line with surrounding whitespace trimmed.
// A closed input stream is treated as an abort.
func (p *Prompter) read() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		p.notice()
		return "", ErrAborted
	}
	return strings.TrimSpace(line), nil
}

func (p *Prompter) isAbort(s string) bool {
	return strings.EqualFold(s, AbortToken)
}

func (p *Prompter) notice() {
	fmt.Fprintln(p.out, "Exiting.")
}

// Ack displays text and waits for acknowledgment: an empty line continues,
// the abort token stops the run, anything else re-prompts.
func (p *Prompter) Ack(text string) error {
	for {
		fmt.Fprint(p.out, text)
		line, err := p.read()
		if err != nil {
			return err
		}
		if p.isAbort(line) {
			p.notice()
			return ErrAborted
		}
		if line == "" {
			return nil
		}
		fmt.Fprintln(p.out, "Press Enter to continue, or type 'exit' to quit.")
	}
}

// Confirm asks a yes/no question. "y"/"yes" answers true, "n"/"no" answers
// false, the abort token stops the run, anything else re-prompts.
func (p *Prompter) Confirm(text string) (bool, error) {
	for {
		fmt.Fprint(p.out, text)
		line, err := p.read()
		if err != nil {
			return false, err
		}
		if p.isAbort(line) {
			p.notice()
			return false, ErrAborted
		}
		switch strings.ToLower(line) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(p.out, "Please answer 'y' or 'n', or type 'exit' to quit.")
	}
}

// Line reads one line of free text with abort detection and no further
// validation. The answer may be empty.
func (p *Prompter) Line(text string) (string, error) {
	fmt.Fprint(p.out, text)
	line, err := p.read()
	if err != nil {
		return "", err
	}
	if p.isAbort(line) {
		p.notice()
		return "", ErrAborted
	}
	return line, nil
}

// String repeatedly prompts until validate accepts the input, returning the
// value validate mapped it to. A rejected input prints the validation
// message and re-prompts; the loop only exits on a valid value or an abort.
func (p *Prompter) String(text string, validate func(string) (string, error)) (string, error) {
	for {
		fmt.Fprint(p.out, text)
		line, err := p.read()
		if err != nil {
			return "", err
		}
		if p.isAbort(line) {
			p.notice()
			return "", ErrAborted
		}
		value, err := validate(line)
		if err != nil {
			fmt.Fprintln(p.out, err)
			continue
		}
		return value, nil
	}
}
