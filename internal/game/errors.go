package game

import (
	"errors"
	"fmt"
)

// Recoverable action-boundary errors. All are returned without mutating game
// state; callers match them with errors.Is.
var (
	// ErrCapacityExceeded is returned when an insertion would exceed a
	// zone's capacity bound.
	ErrCapacityExceeded = errors.New("zone capacity exceeded")
	// ErrNotFound is returned when an action references an entity that does
	// not exist or is not in the expected zone.
	ErrNotFound = errors.New("entity not found")
	// ErrIllegalAction is returned when an action fails a play requirement,
	// cost check, or targeting constraint at application time.
	ErrIllegalAction = errors.New("illegal action")
	// ErrInvalidChoice is returned when a pick is not among the currently
	// offered choice set.
	ErrInvalidChoice = errors.New("invalid choice")
)

// invariant panics when a core invariant does not hold. Invariant violations
// are engine bugs, not illegal user actions, and are not recoverable.
func invariant(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("game invariant violated: "+format, args...))
	}
}
