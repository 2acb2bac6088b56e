package shell

import (
	"context"
	"fmt"
	"sort"
)

// HandlerFunc is the callable behind a registered command. Arguments arrive
// already tokenized and arity-checked.
type HandlerFunc func(ctx context.Context, args []string) error

// Command describes one dispatchable operation: its handler plus the static
// arity contract the dispatcher validates before invoking it.
//
// MinArgs and MaxArgs bound the accepted token count; Variadic lifts the
// upper bound. EntityFirstArg marks commands whose first positional argument
// names a subscription, which enables entity tab completion for that slot.
type Command struct {
	Name           string
	MinArgs        int
	MaxArgs        int
	Variadic       bool
	EntityFirstArg bool
	Usage          string
	Description    string
	Handler        HandlerFunc
}

// ValidateArity checks the supplied argument count against the command's
// declared signature. The handler is not invoked on rejection.
func (c *Command) ValidateArity(args []string) error {
	if len(args) < c.MinArgs {
		return &WrongArgumentCountError{Command: c.Name, Usage: c.Usage}
	}
	if !c.Variadic && len(args) > c.MaxArgs {
		return &WrongArgumentCountError{Command: c.Name, Usage: c.Usage}
	}
	return nil
}

// Registry holds the full command set. It is populated once at startup and
// immutable afterwards; the prefix tables are derived from its snapshot.
type Registry struct {
	commands map[string]*Command
}

// NewRegistry creates an empty command registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]*Command)}
}

// Register adds a command. Registering two commands with the same name is a
// programming error, so it panics.
func (r *Registry) Register(cmd *Command) {
	if _, exists := r.commands[cmd.Name]; exists {
		panic(fmt.Sprintf("command %q registered twice", cmd.Name))
	}
	r.commands[cmd.Name] = cmd
}

// Get retrieves a command by its canonical name.
func (r *Registry) Get(name string) (*Command, bool) {
	cmd, exists := r.commands[name]
	return cmd, exists
}

// Names returns all registered command names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
