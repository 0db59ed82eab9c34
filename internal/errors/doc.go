// Package errors provides error handling conventions for the borg-helper CLI.
//
// This package defines sentinel errors for common failure conditions and an
// ExitError type carrying the process exit code.
//
// # Sentinel Errors
//
// Sentinel errors allow callers to check for specific error conditions
// using [errors.Is]:
//
//	if errors.Is(err, bherrors.ErrUnknownRepository) {
//	    // handle unknown repository
//	}
//
// # Exit Codes
//
// borg-helper only distinguishes success (0) and user/configuration errors
// (1) of its own; every other exit code is the external borg process's own,
// propagated unchanged.
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional
// suggestion. It supports unwrapping via [errors.Unwrap] and [errors.As]:
//
//	var exitErr *bherrors.ExitError
//	if errors.As(err, &exitErr) {
//	    os.Exit(exitErr.Code)
//	}
package errors
