// File: internal/ui/prompt/prompt.go
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrEmptyConfirmation = errors.New("expected confirmation value cannot be empty")

// Prompter asks the operator to confirm an operation that changes persisted state
type Prompter interface {
	// Returns true only when the operator types expectedValue exactly
	Confirm(message string, expectedValue string) (bool, error)
}

type StandardPrompter struct {
	reader *bufio.Reader
	writer io.Writer
}

func NewStandardPrompter(in io.Reader, out io.Writer) *StandardPrompter {
	return &StandardPrompter{
		reader: bufio.NewReader(in),
		writer: out,
	}
}

func (p *StandardPrompter) Confirm(message string, expectedValue string) (bool, error) {
	if expectedValue == "" {
		return false, ErrEmptyConfirmation
	}

	fmt.Fprintln(p.writer, message)
	fmt.Fprintf(p.writer, "To confirm, type '%s': ", expectedValue)

	input, err := p.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("error reading user input: %w", err)
	}

	// A closed input without a newline still counts when the value matches
	return strings.TrimSpace(input) == expectedValue, nil
}

// AutoConfirm skips the prompt, used with --force
type AutoConfirm struct{}

func (AutoConfirm) Confirm(string, string) (bool, error) {
	return true, nil
}
