package borg

import "strings"

// ResolveAlias substitutes args[0] when it names an entry in aliases.
//
// The expansion string is split on single spaces and the remaining arguments
// are appended unchanged. Resolution is deliberately one pass and
// non-recursive: an alias may expand to another alias name without being
// expanded again against the same table.
func ResolveAlias(args []string, aliases map[string]string) []string {
	if len(args) == 0 {
		return nil
	}

	expansion, ok := aliases[args[0]]
	if !ok {
		return args
	}

	return append(strings.Split(expansion, " "), args[1:]...)
}
