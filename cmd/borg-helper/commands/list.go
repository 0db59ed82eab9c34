package commands

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/borg-helper/internal/config"
	bherrors "github.com/thoreinstein/borg-helper/internal/errors"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured repositories",
	Long:  `List every configured repository with its target location, sorted by name.`,
	Args:  cobra.ArbitraryArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, _ []string) error {
	state, err := loadState()
	if err != nil {
		return bherrors.NewExitError(err, bherrors.ExitUser)
	}
	if len(state.Repositories) == 0 {
		return bherrors.NewExitError(bherrors.ErrNoRepositories, bherrors.ExitUser)
	}

	listRepositories(cmd.OutOrStdout(), state)
	return nil
}

// listRepositories prints the repository names sorted lexicographically,
// regardless of config file load order.
func listRepositories(w io.Writer, state *config.State) {
	fmt.Fprintln(w, "Available repositories:")

	names := make([]string, 0, len(state.Repositories))
	for name := range state.Repositories {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		var location string
		if loc := state.Repositories[name].Location; loc != nil {
			location = *loc
		}
		fmt.Fprintf(w, "  %s (%s)\n", name, location)
	}
}
