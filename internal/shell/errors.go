package shell

import (
	"fmt"
	"strings"
)

// UnknownCommandError is returned when the typed command matches no registered
// command, no exit keyword, and no known abbreviation.
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("command %q not available. Type 'help' for available commands", e.Name)
}

// AmbiguousCommandError describes a typed prefix that matches more than one
// command. It is advisory: the dispatcher reports the candidate list and the
// shell loop continues.
type AmbiguousCommandError struct {
	Typed      string
	Candidates []string
}

func (e *AmbiguousCommandError) Error() string {
	return fmt.Sprintf("ambiguous command %q, candidates: %s", e.Typed, strings.Join(e.Candidates, ", "))
}

// WrongArgumentCountError is returned when the supplied token count falls
// outside a command's declared arity window. The handler is never invoked.
type WrongArgumentCountError struct {
	Command string
	Usage   string
}

func (e *WrongArgumentCountError) Error() string {
	if e.Usage != "" {
		return fmt.Sprintf("wrong argument count for command %q (usage: %s)", e.Command, e.Usage)
	}
	return fmt.Sprintf("wrong argument count for command %q", e.Command)
}

// SyntaxError is returned when a line cannot be tokenized, typically because
// of an unterminated quote.
type SyntaxError struct {
	Line string
	Err  error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %v", e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// InvalidArgumentError is returned by a command's own input validation, for
// example a malformed number or an unknown settings key.
type InvalidArgumentError struct {
	Command string
	Reason  string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("%s: %s", e.Command, e.Reason)
}
