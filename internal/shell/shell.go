package shell

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"gopod/internal/api"
	"gopod/internal/config"
)

// promptPrefix is the fixed branding part of the interactive prompt.
const promptPrefix = "gopod"

// promptChevronUnicode is the guillemet separator used in the prompt.
const promptChevronUnicode = "»"

// promptChevronASCII is the fallback chevron for terminals without unicode support.
const promptChevronASCII = ">"

// historyFileName is the readline history file kept in the temp directory.
const historyFileName = ".gopod_history"

// ExitKeywords terminate the interactive loop when typed alone, exactly or as
// a unique abbreviation. They carry no handler and share the prefix namespace
// with real commands.
var ExitKeywords = []string{"exit", "quit"}

// Shell is the interactive front end: it reads lines, intercepts exit
// keywords, tokenizes with shell quoting rules and dispatches. It also serves
// single-shot invocations through RunOnce.
//
// The shell is single-threaded: each dispatched command runs to completion
// before the next line is read. The prefix tables are built once from the
// registry snapshot at construction and never change.
type Shell struct {
	client      api.Client
	logger      *Logger
	registry    *Registry
	tables      *Tables
	completer   *Completer
	dispatcher  *Dispatcher
	rl          *readline.Instance
	interactive bool
	useUnicode  bool
}

// New creates a shell over the given client collaborator. The interactive
// flag is set once at startup and selects progress display and prompt
// behavior.
func New(client api.Client, settings *config.Settings, logger *Logger, interactive bool) *Shell {
	s := &Shell{
		client:      client,
		logger:      logger,
		registry:    NewRegistry(),
		interactive: interactive,
		useUnicode:  detectUnicodeSupport(),
	}

	s.registerCommands(settings)

	names := append(s.registry.Names(), ExitKeywords...)
	s.tables = BuildTables(names)
	// '?' resolves to help directly, bypassing the derived scheme.
	s.tables.AddAlias("?", "help")

	s.completer = NewCompleter(s.registry, s.tables, ExitKeywords, s.completeEntities)
	s.dispatcher = NewDispatcher(s.registry, s.tables, logger)

	return s
}

// Tables exposes the derived prefix tables, mainly for tests.
func (s *Shell) Tables() *Tables {
	return s.tables
}

// completeEntities enumerates subscription URLs starting with the given
// prefix for entity argument completion.
func (s *Shell) completeEntities(prefix string) []string {
	var matches []string
	for _, url := range s.client.SubscriptionURLs(context.Background()) {
		if strings.HasPrefix(url, prefix) {
			matches = append(matches, url)
		}
	}
	return matches
}

// detectUnicodeSupport checks if the terminal likely supports unicode
// characters. Returns false for dumb terminals or when uncertain.
func detectUnicodeSupport() bool {
	term := os.Getenv("TERM")
	if term == "" || term == "dumb" {
		return false
	}

	for _, v := range []string{os.Getenv("LANG"), os.Getenv("LC_ALL")} {
		lower := strings.ToLower(v)
		if strings.Contains(lower, "utf-8") || strings.Contains(lower, "utf8") {
			return true
		}
	}

	return true
}

// buildPrompt creates the interactive prompt, e.g. "gopod » ".
func (s *Shell) buildPrompt() string {
	chevron := promptChevronASCII
	if s.useUnicode {
		chevron = promptChevronUnicode
	}
	return promptPrefix + " " + chevron + " "
}

// isExitLine reports whether a bare input line resolves to an exit keyword.
// Only single-token lines qualify; "q 1" is an unknown command, not a quit.
func (s *Shell) isExitLine(line string) bool {
	if strings.ContainsAny(line, " \t") {
		return false
	}
	name := s.tables.Resolve(line)
	for _, keyword := range ExitKeywords {
		if name == keyword {
			return true
		}
	}
	return false
}

// filterInput filters input characters for readline
func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

// Run starts the interactive loop and blocks until the user exits.
//
// The loop reads one line at a time. Ctrl+C on an empty line is acknowledged
// and ignored; Ctrl+D or an exit keyword terminates. A syntax error or any
// dispatch failure is reported and the loop continues. An interrupt during a
// running command cancels that command's context but not the loop.
func (s *Shell) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          s.buildPrompt(),
		HistoryFile:     filepath.Join(os.TempDir(), historyFileName),
		AutoComplete:    s.completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return fmt.Errorf("failed to create readline instance: %w", err)
	}
	defer rl.Close()
	s.rl = rl

	s.logger.Info("gopod shell started. Type 'help' for available commands. Use TAB for completion.")

	for {
		select {
		case <-ctx.Done():
			return s.shutdown()
		default:
		}

		line, err := s.rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				continue
			}
		} else if err == io.EOF {
			return s.shutdown()
		} else if err != nil {
			return fmt.Errorf("readline error: %w", err)
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		if s.isExitLine(input) {
			return s.shutdown()
		}

		tokens, err := Tokenize(input)
		if err != nil {
			s.logger.Error("%v", err)
			continue
		}

		s.dispatchLine(ctx, tokens)
	}
}

// dispatchLine runs one dispatch with interrupt protection: Ctrl+C while a
// command runs cancels that command's context and is reported, the loop is
// unaffected.
func (s *Shell) dispatchLine(ctx context.Context, tokens []string) {
	dispatchCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	if _, err := s.dispatcher.Dispatch(dispatchCtx, tokens); err != nil {
		s.logger.Error("%v", err)
		return
	}
	if dispatchCtx.Err() != nil && ctx.Err() == nil {
		s.logger.Error("Interrupted")
	}
}

// RunOnce dispatches exactly one already-tokenized command line without
// entering the loop, for single-shot invocations. Unknown and ambiguous
// outcomes surface as errors so the process exit code reflects that no
// command ran.
func (s *Shell) RunOnce(ctx context.Context, tokens []string) error {
	outcome, err := s.dispatcher.Dispatch(ctx, tokens)
	if err == nil && outcome == OutcomeAmbiguous {
		err = &AmbiguousCommandError{Typed: tokens[0], Candidates: s.tables.Ambiguous[tokens[0]]}
	}
	if closeErr := s.client.Close(); err == nil {
		err = closeErr
	}
	return err
}

// shutdown runs the client collaborator's cleanup on loop termination.
func (s *Shell) shutdown() error {
	s.logger.Info("Goodbye!")
	return s.client.Close()
}
