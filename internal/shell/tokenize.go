package shell

import (
	shellwords "github.com/mattn/go-shellwords"
)

// Tokenize splits a command line into tokens using shell-style quoting and
// escaping rules. A malformed line (unterminated quote, trailing backslash)
// yields a SyntaxError and no tokens.
func Tokenize(line string) ([]string, error) {
	tokens, err := shellwords.Parse(line)
	if err != nil {
		return nil, &SyntaxError{Line: line, Err: err}
	}
	return tokens, nil
}
