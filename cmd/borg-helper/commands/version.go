package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/borg-helper/cmd"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the borg-helper version",
	Args:  cobra.NoArgs,
	Run: func(c *cobra.Command, _ []string) {
		fmt.Fprintf(c.OutOrStdout(), "borg-helper %s (commit %s, built %s)\n",
			cmd.Version, cmd.Commit, cmd.Date)
	},
}
