package snailfish

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedInput matches every *MalformedInputError.
	ErrMalformedInput = errors.New("malformed input")

	// ErrInvariantViolation marks engine logic bugs: a reduction that never
	// settles, a consumed operand used again, or an unknown node variant.
	ErrInvariantViolation = errors.New("internal invariant violation")

	// ErrEmptyInput is returned when a sum is requested over no trees.
	ErrEmptyInput = errors.New("no snailfish numbers to sum")

	// ErrNotEnoughTrees is returned when a pairwise search has fewer than two trees.
	ErrNotEnoughTrees = errors.New("at least two snailfish numbers are required")
)

// MalformedInputError reports where a line stopped matching the grammar.
// Offset is a 0-based byte offset into the line.
type MalformedInputError struct {
	Offset int
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input at offset %d: %s", e.Offset, e.Reason)
}

// Is lets errors.Is(err, ErrMalformedInput) match.
func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}

// LineError ties a parse failure to its 1-based line number.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

func invariantf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvariantViolation, fmt.Sprintf(format, args...))
}
