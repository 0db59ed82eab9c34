// Package main is the entry point for the borg-helper CLI.
package main

import (
	"os"

	"github.com/thoreinstein/borg-helper/cmd/borg-helper/commands"
)

func main() {
	os.Exit(commands.Execute())
}
