// Package logging provides slog-based logging for the borg-helper CLI.
//
// The package ships a TTY-aware text handler that colorizes level names when
// stderr is a terminal (honoring NO_COLOR and TERM=dumb) and masks sensitive
// attribute values such as repository passphrases.
//
// The -d CLI flag lowers the level to slog.LevelDebug; every config-loading
// and dispatch step logs its progress at debug level.
package logging
