package shell

import (
	"context"
)

// Outcome classifies the result of dispatching one command line.
type Outcome int

const (
	// OutcomeHandled means a command was resolved and its arity checked;
	// the line was consumed (including the empty line no-op).
	OutcomeHandled Outcome = iota
	// OutcomeAmbiguous means the leading token matched more than one command.
	OutcomeAmbiguous
	// OutcomeUnknown means the leading token matched nothing.
	OutcomeUnknown
)

// Dispatcher resolves a tokenized line against the prefix tables, validates
// arity and invokes the command handler. All failure modes are non-fatal and
// reported through the returned error; the shell loop decides what to do with
// them.
type Dispatcher struct {
	registry *Registry
	tables   *Tables
	logger   *Logger
}

// NewDispatcher creates a dispatcher over the given registry and tables.
func NewDispatcher(registry *Registry, tables *Tables, logger *Logger) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		tables:   tables,
		logger:   logger,
	}
}

// Dispatch resolves the leading token, validates the argument count and runs
// the handler. An empty token list is a handled no-op. An ambiguous prefix
// prints the candidate list as an advisory and returns OutcomeAmbiguous with
// no error.
func (d *Dispatcher) Dispatch(ctx context.Context, tokens []string) (Outcome, error) {
	if len(tokens) == 0 {
		return OutcomeHandled, nil
	}

	typed := tokens[0]
	canonical := d.tables.Resolve(typed)

	if cmd, exists := d.registry.Get(canonical); exists {
		args := tokens[1:]
		if err := cmd.ValidateArity(args); err != nil {
			return OutcomeHandled, err
		}
		return OutcomeHandled, cmd.Handler(ctx, args)
	}

	if candidates, ok := d.tables.Ambiguous[typed]; ok {
		d.logger.OutputLine("Ambiguous command %q. Did you mean one of these?", typed)
		for _, candidate := range candidates {
			d.logger.OutputLine("    %s", candidate)
		}
		return OutcomeAmbiguous, nil
	}

	return OutcomeUnknown, &UnknownCommandError{Name: typed}
}
