// Package commands implements the CLI commands for borg-helper.
package commands

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/borg-helper/internal/borg"
	"github.com/thoreinstein/borg-helper/internal/config"
	bherrors "github.com/thoreinstein/borg-helper/internal/errors"
	"github.com/thoreinstein/borg-helper/internal/logging"
)

// debugFlag holds the value of the -d flag.
var debugFlag bool

// interactiveFlag holds the value of the -i flag.
var interactiveFlag bool

// helpRequested records that the help flag or command ran, so Execute can
// exit non-zero: printing usage is never a successful borg run.
var helpRequested bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&interactiveFlag, "interactive", "i", false,
		"ask before executing each borg command")

	// Flag parsing stops at the repository name; everything after it,
	// flags included, belongs to borg.
	rootCmd.Flags().SetInterspersed(false)

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		helpRequested = true
		printUsage(cmd.ErrOrStderr())
	})

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.AddCommand(listCmd, versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "borg-helper [-d] [-i] <repository> [borg arguments...]",
	Short: "Profile-aware front end for BorgBackup",
	Long: `borg-helper wraps the borg binary with named repository profiles.

A profile bundles the repository location, passphrase, SSH key, and
per-repository command aliases. Profiles are merged from layered JSON
config files (/etc, the XDG config directory, the working directory, and
any paths listed in BORG_HELPER_CONFIGS); later sources override earlier
ones field by field.

Besides pass-through invocations, two composite commands orchestrate
multiple borg calls: "list-archives" lists every archive's contents, and
"list-removed-items" diffs the two most recent archives and reports
removed files and directories.`,
	Args: cobra.ArbitraryArgs,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		setupLogging(debugFlag)
	},
	RunE: runRoot,
}

func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		printUsage(cmd.ErrOrStderr())
		return bherrors.NewExitError(nil, bherrors.ExitUser)
	}

	state, err := loadState()
	if err != nil {
		return bherrors.NewExitError(err, bherrors.ExitUser)
	}
	if len(state.Repositories) == 0 {
		return bherrors.NewExitError(bherrors.ErrNoRepositories, bherrors.ExitUser)
	}

	state.AskBeforeExecute = interactiveFlag

	engine := borg.NewEngine(state)
	code, err := engine.Execute(args[0], args[1:])
	if err != nil {
		return bherrors.NewExitError(err, bherrors.ExitUser)
	}
	if code != bherrors.ExitSuccess {
		return bherrors.NewExitError(nil, code)
	}
	return nil
}

// loadState builds the merged config state for this run.
// It is a variable so tests can substitute a fixed state.
var loadState = func() (*config.State, error) {
	return config.Load(config.SearchPaths())
}

// setupLogging configures the default logger based on the -d flag.
func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(logging.New(logging.Config{Level: level}))
}

// printUsage writes the classic usage text to the diagnostic stream.
func printUsage(w io.Writer) {
	const name = "borg-helper"
	fmt.Fprintf(w, "Usage: %s [-d] [-i] <repository> [borg arguments]\n", name)
	fmt.Fprintf(w, "       %s list\n", name)
	fmt.Fprintf(w, "       %s <repository> list-archives [borg list arguments]\n", name)
	fmt.Fprintf(w, "       %s <repository> list-removed-items [--fail] [--color] [path]\n", name)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  -d   Enable debug logging")
	fmt.Fprintln(w, "  -h   Display this help message")
	fmt.Fprintln(w, "  -i   Ask before executing each borg command")
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	// A logger must exist even when flag parsing itself fails.
	slog.SetDefault(logging.Default())

	err := rootCmd.Execute()
	if err == nil {
		if helpRequested {
			return bherrors.ExitUser
		}
		return bherrors.ExitSuccess
	}

	var exitErr *bherrors.ExitError
	if stderrors.As(err, &exitErr) {
		if exitErr.Err != nil {
			slog.Error(exitErr.Error())
		}
		if exitErr.Suggestion != "" {
			fmt.Fprintln(os.Stderr, exitErr.Suggestion)
		}
		return exitErr.Code
	}

	slog.Error(err.Error())
	return bherrors.ExitUser
}
