package strata

import (
	"errors"
	"fmt"

	"github.com/dshills/strata/nested"
)

// Errors returned by settings operations. The nested package's sentinels
// are re-exported so callers can match with errors.Is at this level.
var (
	// ErrNotFound indicates the path is absent from every scanned source.
	ErrNotFound = nested.ErrNotFound

	// ErrStructureConflict indicates a write attempted to nest underneath
	// an existing scalar leaf.
	ErrStructureConflict = nested.ErrStructureConflict

	// ErrInvalidPath indicates an invalid settings path format.
	ErrInvalidPath = nested.ErrInvalidPath

	// ErrInvalidTier indicates an unrecognized tier name or value.
	ErrInvalidTier = errors.New("invalid tier")

	// ErrInvalidSource indicates AddSource was given an unusable source,
	// such as a nonexistent file or the reserved runtime tier.
	ErrInvalidSource = errors.New("invalid source")

	// ErrTypeMismatch indicates the value type doesn't match the expected type.
	ErrTypeMismatch = errors.New("type mismatch")
)

// TypeError is returned when a typed accessor finds a value of the wrong type.
type TypeError struct {
	// Path is the setting path.
	Path string
	// Expected is the expected type name.
	Expected string
	// Actual is the actual type name.
	Actual string
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	return fmt.Sprintf("type error for %s: expected %s, got %s", e.Path, e.Expected, e.Actual)
}

// Is implements error matching for TypeError.
func (e *TypeError) Is(target error) bool {
	return target == ErrTypeMismatch
}
