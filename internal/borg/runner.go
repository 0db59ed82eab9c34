package borg

import (
	"bytes"
	"io"
	"os/exec"

	"github.com/cockroachdb/errors"
)

// Runner executes a fully assembled shell command line and reports its exit
// code. The dispatcher talks to borg exclusively through this interface so
// tests can substitute a scripted fake.
type Runner interface {
	// Run executes cmdline through a shell with the given environment.
	// When capture is true, stdout is collected and returned instead of
	// streaming. A non-zero borg exit code is not an error; errors are
	// reserved for failures to run the process at all.
	Run(cmdline string, env []string, capture bool) (exitCode int, stdout string, err error)
}

// ShellRunner runs command lines through /bin/sh. The command line is passed
// as one shell-interpreted string, so arguments are not individually quoted.
// That mirrors the historical behavior and keeps the echoed command line
// literally what gets executed.
type ShellRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run implements Runner.
func (r *ShellRunner) Run(cmdline string, env []string, capture bool) (int, string, error) {
	cmd := exec.Command("/bin/sh", "-c", cmdline)
	cmd.Env = env
	cmd.Stdin = r.Stdin
	cmd.Stderr = r.Stderr

	var buf bytes.Buffer
	if capture {
		cmd.Stdout = &buf
	} else {
		cmd.Stdout = r.Stdout
	}

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), buf.String(), nil
		}
		return 0, "", errors.Wrapf(err, "running %q", cmdline)
	}

	return 0, buf.String(), nil
}
