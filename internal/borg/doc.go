// Package borg assembles and dispatches invocations of the external borg
// binary.
//
// The Engine resolves a named repository profile from the loaded config,
// builds the subprocess environment (BORG_REPO, BORG_PASSPHRASE, BORG_RSH),
// applies two-tier alias resolution (repository table first, then the global
// table, one non-recursive pass each), and runs the final command line
// through a shell — optionally after interactive confirmation.
//
// On top of single dispatches the package implements the two composite
// commands: list-archives (per-archive fan-out with max-exit-code
// aggregation) and list-removed-items (diff of the two most recent archives,
// reporting removed entries).
package borg
