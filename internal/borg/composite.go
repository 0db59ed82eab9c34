package borg

import (
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/spf13/pflag"

	bherrors "github.com/thoreinstein/borg-helper/internal/errors"
)

// archiveListing is the shape of `borg list --json` output we care about.
type archiveListing struct {
	Archives []struct {
		Name string `json:"archive"`
	} `json:"archives"`
}

// diffLine is one record of `borg diff --json-lines` output.
type diffLine struct {
	Path    string `json:"path"`
	Changes []struct {
		Type string `json:"type"`
	} `json:"changes"`
}

// ListArchives enumerates the repository's archives and dispatches a listing
// for each one, appending extra to every per-archive invocation.
//
// A single borg call lists one archive, so listing all of them is a
// client-side fan-out. Per-archive failures do not stop the iteration; the
// maximum exit code observed wins. Declined dispatches are skipped and do
// not count toward the result.
func (e *Engine) ListArchives(name string, extra []string) (int, error) {
	res, err := e.Dispatch(name, []string{"list", "--short"}, true)
	if err != nil {
		return bherrors.ExitUser, err
	}
	if res.Skipped || res.ExitCode != 0 {
		return bherrors.ExitUser, nil
	}

	highest := 0
	for _, archive := range splitLines(res.Stdout) {
		args := append([]string{"list", "::" + archive}, extra...)

		r, err := e.Dispatch(name, args, false)
		if err != nil {
			return bherrors.ExitUser, err
		}
		if r.Skipped {
			continue
		}
		if r.ExitCode > highest {
			highest = r.ExitCode
		}
	}

	return highest, nil
}

// RemovedItemsOptions are the flags of the list-removed-items subcommand.
type RemovedItemsOptions struct {
	// Fail makes any reported removal set the exit code to 1.
	Fail bool

	// Color highlights report lines in red, even when stdout is not a TTY.
	Color bool

	// Path limits the diff to one path within the backup.
	Path string
}

// runListRemovedItems parses the subcommand's own flags and runs it.
func (e *Engine) runListRemovedItems(name string, rawArgs []string) (int, error) {
	fs := pflag.NewFlagSet("list-removed-items", pflag.ContinueOnError)
	fs.SetOutput(e.stderr)

	var opts RemovedItemsOptions
	fs.BoolVar(&opts.Fail, "fail", false, "return with exit code 1 in case removed files or directories are found")
	fs.BoolVar(&opts.Color, "color", false, "use color to highlight removed items")

	if err := fs.Parse(rawArgs); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return bherrors.ExitUser, nil
		}
		return bherrors.ExitUser, errors.Wrap(err, "parsing list-removed-items arguments")
	}
	opts.Path = fs.Arg(0)

	return e.ListRemovedItems(name, opts)
}

// ListRemovedItems diffs the repository's two most recent archives and
// reports every removed file or directory.
//
// Fewer than two archives means there is nothing to compare, which is a
// success. With opts.Fail set, a single removal is enough to make the run
// exit 1; the flag never resets once set.
func (e *Engine) ListRemovedItems(name string, opts RemovedItemsOptions) (int, error) {
	res, err := e.Dispatch(name, []string{"list", "--last", "2", "--json"}, true)
	if err != nil {
		return bherrors.ExitUser, err
	}
	if res.Skipped || res.ExitCode != 0 {
		return bherrors.ExitUser, nil
	}

	var listing archiveListing
	if err := json.Unmarshal([]byte(res.Stdout), &listing); err != nil {
		return bherrors.ExitUser, errors.Wrap(err, "parsing borg list output")
	}

	if len(listing.Archives) < 2 {
		return bherrors.ExitSuccess, nil
	}

	older := listing.Archives[0].Name
	newer := listing.Archives[1].Name

	diffArgs := []string{"diff", "--json-lines", "::" + older, newer}
	if opts.Path != "" {
		diffArgs = append(diffArgs, opts.Path)
	}

	res, err = e.Dispatch(name, diffArgs, true)
	if err != nil {
		return bherrors.ExitUser, err
	}
	if res.Skipped || res.ExitCode != 0 {
		return bherrors.ExitUser, nil
	}

	highlight := color.New(color.FgRed)
	if opts.Color {
		highlight.EnableColor()
	}

	exitCode := bherrors.ExitSuccess
	for _, line := range splitLines(res.Stdout) {
		var d diffLine
		if err := json.Unmarshal([]byte(line), &d); err != nil {
			return bherrors.ExitUser, errors.Wrap(err, "parsing borg diff output")
		}

		for _, change := range d.Changes {
			var label string
			switch change.Type {
			case "removed":
				label = "Removed file"
			case "removed directory":
				label = "Removed directory"
			default:
				continue
			}

			msg := fmt.Sprintf("%s: %s", label, d.Path)
			if opts.Color {
				fmt.Fprintln(e.stdout, highlight.Sprint(msg))
			} else {
				fmt.Fprintln(e.stdout, msg)
			}

			if opts.Fail {
				exitCode = bherrors.ExitUser
			}
		}
	}

	return exitCode, nil
}
