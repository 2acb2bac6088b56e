package shell

import (
	"sort"
	"strings"

	"github.com/chzyer/readline"
)

// EntityCompleterFunc enumerates entity identifiers (subscription URLs)
// starting with the given prefix, in sorted order. Supplied by the client
// collaborator.
type EntityCompleterFunc func(prefix string) []string

// Completer answers tab completion queries from the line editor. It reuses
// the prefix resolver's view of the name set: the command-name position
// completes over all canonical command and exit keyword names, and the first
// argument of entity-taking commands completes over subscription URLs.
//
// Completer implements readline.AutoCompleter via Do; the incremental
// Complete/CompleteArgument pair underneath follows the classic line-editor
// protocol of repeated calls with an increasing attempt index until
// exhaustion.
type Completer struct {
	names    []string
	registry *Registry
	tables   *Tables
	entities EntityCompleterFunc
}

var _ readline.AutoCompleter = (*Completer)(nil)

// NewCompleter creates a completer over the registry's command names plus the
// exit keywords. The entity completer may be nil, disabling argument
// completion.
func NewCompleter(registry *Registry, tables *Tables, exitKeywords []string, entities EntityCompleterFunc) *Completer {
	names := append(registry.Names(), exitKeywords...)
	sort.Strings(names)

	return &Completer{
		names:    names,
		registry: registry,
		tables:   tables,
		entities: entities,
	}
}

// Complete returns the attempt-th canonical name starting with text, in
// sorted order, and false once the candidates are exhausted.
func (c *Completer) Complete(text string, attempt int) (string, bool) {
	seen := 0
	for _, name := range c.names {
		if !strings.HasPrefix(name, text) {
			continue
		}
		if seen == attempt {
			return name, true
		}
		seen++
	}
	return "", false
}

// CompleteArgument returns the attempt-th completion for an argument slot of
// the already-typed command. Only the first argument of entity-taking
// commands completes; every other slot yields nothing.
func (c *Completer) CompleteArgument(typedCommand, text string, argIndex, attempt int) (string, bool) {
	cmd, exists := c.registry.Get(c.tables.Resolve(typedCommand))
	if !exists || !cmd.EntityFirstArg || argIndex != 0 || c.entities == nil {
		return "", false
	}

	matches := c.entities(text)
	if attempt < len(matches) {
		return matches[attempt], true
	}
	return "", false
}

// Do implements readline.AutoCompleter. It returns the candidate suffixes for
// the word under the cursor and the length of that word.
func (c *Completer) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	sep := strings.LastIndexAny(text, " \t")
	if sep < 0 {
		return c.collect(text, func(attempt int) (string, bool) {
			return c.Complete(text, attempt)
		})
	}

	head := strings.Fields(text[:sep+1])
	if len(head) == 0 {
		return nil, 0
	}
	word := text[sep+1:]
	argIndex := len(head) - 1

	return c.collect(word, func(attempt int) (string, bool) {
		return c.CompleteArgument(head[0], word, argIndex, attempt)
	})
}

// collect drives an incremental completion source to exhaustion and shapes
// the results for readline: each candidate is reduced to the suffix beyond
// the current word, with a trailing space so the cursor lands on the next
// slot.
func (c *Completer) collect(word string, next func(attempt int) (string, bool)) ([][]rune, int) {
	var candidates [][]rune
	for attempt := 0; ; attempt++ {
		name, ok := next(attempt)
		if !ok {
			break
		}
		candidates = append(candidates, []rune(name[len(word):]+" "))
	}
	return candidates, len([]rune(word))
}
