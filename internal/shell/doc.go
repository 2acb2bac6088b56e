// Package shell implements the command resolution and dispatch engine behind
// gopod's interactive and single-shot modes.
//
// At startup the command registry is populated with the full, fixed command
// set and the prefix resolver derives two lookup tables from its name
// snapshot (plus the exit keywords): one mapping every unambiguous
// abbreviation to its canonical command, one mapping every shared prefix to
// the candidates it could mean. Dispatching a line resolves the leading token
// through these tables, validates the argument count against the command's
// declared arity and invokes the handler; the same tables back tab
// completion.
//
// The interactive loop is built on chzyer/readline with history, completion
// and per-line interrupt recovery. All dispatch failures (unknown command,
// ambiguous abbreviation, wrong argument count, malformed quoting) are
// reported and the loop continues; only end-of-input or an exit keyword
// terminates it.
package shell
