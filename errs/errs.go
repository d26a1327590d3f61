// Package errs holds the four sentinel errors that make up the engine's
// user-visible error taxonomy (spec.md §7). Coordinate arithmetic, the
// formula lexer/parser/printer and the evaluator wrap one of these four
// with %w, and the engine wraps every store failure as DB, so a caller of
// the engine can classify a failure with errors.Is regardless of which
// layer raised it. The store adapter itself returns its errors unwrapped.
package errs

import "errors"

var (
	// Syntax covers a malformed formula, a malformed cell reference, or an
	// out-of-range coordinate discovered during parsing or printing.
	Syntax = errors.New("syntax error")

	// CircularRef is raised when the forward evaluation walk revisits a
	// cell already on its own call stack.
	CircularRef = errors.New("circular reference")

	// Limits covers a row or column index outside the configured maxima.
	Limits = errors.New("limits error")

	// DB wraps any failure surfaced by the store collaborator.
	DB = errors.New("store error")
)
