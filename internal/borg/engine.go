package borg

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"

	"github.com/thoreinstein/borg-helper/internal/cli/prompt"
	"github.com/thoreinstein/borg-helper/internal/config"
	bherrors "github.com/thoreinstein/borg-helper/internal/errors"
)

// confirmQuestion is asked before every dispatch when -i is set.
const confirmQuestion = "Are you sure to execute the command above? [Y/n] "

// echoColor highlights the assembled command line on stderr.
var echoColor = color.New(color.FgGreen)

// ConfirmFunc asks the user whether a pending command should run.
type ConfirmFunc func(question string) (bool, error)

// Result is the outcome of one dispatch.
type Result struct {
	// Skipped is true when the user declined the interactive confirmation.
	// No subprocess ran; ExitCode and Stdout are meaningless.
	Skipped bool

	// ExitCode is the borg process's exit code.
	ExitCode int

	// Stdout holds the captured standard output when the caller asked for it.
	Stdout string
}

// Engine dispatches borg invocations for the repositories of one loaded
// config state. It owns no mutable state of its own; the config state is
// read-only for the engine's lifetime.
type Engine struct {
	state   *config.State
	runner  Runner
	confirm ConfirmFunc
	stdout  io.Writer
	stderr  io.Writer
}

// NewEngine creates an Engine wired to the real borg binary, the process
// streams, and an interactive terminal confirmer.
func NewEngine(state *config.State) *Engine {
	return &Engine{
		state: state,
		runner: &ShellRunner{
			Stdin:  os.Stdin,
			Stdout: os.Stdout,
			Stderr: os.Stderr,
		},
		confirm: prompt.NewConfirmer().Confirm,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
}

// Dispatch runs one borg invocation against the named repository.
//
// The subprocess environment is the current process environment overlaid
// with BORG_REPO, BORG_PASSPHRASE, and BORG_RSH as far as the profile
// defines them. Arguments are alias-resolved against the repository table
// first, then the global table, one pass each. The final command line is
// echoed to stderr before anything runs.
//
// An unknown repository fails with bherrors.ErrUnknownRepository before any
// subprocess is started. A declined confirmation yields a Skipped result,
// not an error.
func (e *Engine) Dispatch(name string, args []string, capture bool) (*Result, error) {
	repo := e.state.Repository(name)
	if repo == nil {
		return nil, errors.Mark(errors.Newf("unknown repository: %s", name), bherrors.ErrUnknownRepository)
	}

	env := os.Environ()
	if repo.Location != nil {
		env = append(env, "BORG_REPO="+*repo.Location)
	}
	if repo.Passphrase != nil {
		env = append(env, "BORG_PASSPHRASE="+*repo.Passphrase)
	}
	if repo.SSHKey != nil {
		// ssh expands a leading tilde in the identity path itself.
		env = append(env, fmt.Sprintf("BORG_RSH=ssh -i '%s'", *repo.SSHKey))
	}

	if len(args) > 0 {
		args = ResolveAlias(args, repo.Aliases)
		args = ResolveAlias(args, e.state.Aliases)
	}

	// One shell-interpreted string, not an argument vector: the echoed
	// line below is exactly what runs, and values containing spaces or
	// shell metacharacters are the user's responsibility. Compatibility
	// behavior, kept on purpose.
	cmdline := strings.Join(append([]string{e.state.BorgBinary}, args...), " ")

	fmt.Fprintf(e.stderr, "> %s\n", echoColor.Sprint(cmdline))
	slog.Debug("dispatching", "repository", name, "command", cmdline)

	if e.state.AskBeforeExecute {
		ok, err := e.confirm(confirmQuestion)
		if err != nil {
			return nil, err
		}
		if !ok {
			slog.Debug("dispatch declined", "repository", name)
			return &Result{Skipped: true}, nil
		}
	}

	exitCode, stdout, err := e.runner.Run(cmdline, env, capture)
	if err != nil {
		return nil, err
	}

	return &Result{ExitCode: exitCode, Stdout: stdout}, nil
}

// Execute is the top-level dispatch policy: composite commands are
// recognized by the first argument; everything else passes straight through
// to borg. The returned int is the process exit code.
func (e *Engine) Execute(name string, args []string) (int, error) {
	if len(args) > 0 {
		switch args[0] {
		case "list-archives":
			return e.ListArchives(name, args[1:])
		case "list-removed-items":
			return e.runListRemovedItems(name, args[1:])
		}
	}

	res, err := e.Dispatch(name, args, false)
	if err != nil {
		return bherrors.ExitUser, err
	}
	if res.Skipped {
		return bherrors.ExitUser, nil
	}
	return res.ExitCode, nil
}

// splitLines splits captured borg output into non-empty lines.
func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
