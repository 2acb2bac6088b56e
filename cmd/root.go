package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"gopod/internal/client"
	"gopod/internal/config"
	"gopod/internal/shell"
)

// Exit codes for the gopod process.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, unknown command).
	ExitCodeError = 1
	// ExitCodeStartupFailed indicates the podcast client could not initialize.
	ExitCodeStartupFailed = 2
)

var verbose bool

// rootCmd represents the base command for the gopod application. gopod has a
// single entry surface: arguments are a podcast command to run once, no
// arguments on a terminal starts the interactive shell.
var rootCmd = &cobra.Command{
	Use:   "gopod [command [args...]]",
	Short: "Manage podcast subscriptions from the command line",
	Long: `gopod is a podcast client for the command line.

Called with a command it executes that one command and exits. Called without
arguments on a terminal it starts an interactive shell with command history
and tab completion. Command names may be abbreviated to any unique prefix,
e.g. 'dow' for download.`,
	Args: cobra.ArbitraryArgs,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage: true,
	RunE:         run,
}

// run selects the process mode: single-shot dispatch, interactive shell, or
// usage output when neither applies.
func run(cmd *cobra.Command, args []string) error {
	settings, err := config.Load()
	if err != nil {
		return err
	}

	interactive := len(args) == 0 && term.IsTerminal(int(os.Stdin.Fd()))
	useColor := settings.Color && term.IsTerminal(int(os.Stdout.Fd()))
	logger := shell.NewLogger(verbose, useColor)

	cl, err := client.New(settings, interactive)
	if err != nil {
		return err
	}

	sh := shell.New(cl, settings, logger, interactive)

	switch {
	case len(args) > 0:
		return sh.RunOnce(cmd.Context(), args)
	case interactive:
		return sh.Run(cmd.Context())
	default:
		// Not a terminal and no command given: emit usage, dispatch nothing.
		if err := cl.Close(); err != nil {
			return err
		}
		return cmd.Help()
	}
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the
// application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// It is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "gopod version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the exit code based on the error type. Only a
// client startup failure is distinguished; every dispatch-level failure is a
// general error.
func getExitCode(err error) int {
	var startup *client.StartupError
	if errors.As(err, &startup) {
		return ExitCodeStartupFailed
	}
	return ExitCodeError
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug output")
	rootCmd.AddCommand(newVersionCmd())

	// 'help' and 'completion' are podcast-shell concerns here, not Cobra
	// subcommands; single-shot 'gopod help' must reach the dispatcher.
	rootCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
