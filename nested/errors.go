package nested

import "errors"

// Errors returned by tree operations.
var (
	// ErrNotFound indicates a path segment is absent, or an intermediate
	// segment resolves to a non-container.
	ErrNotFound = errors.New("key not found")

	// ErrStructureConflict indicates a write tried to nest beneath an
	// existing scalar leaf.
	ErrStructureConflict = errors.New("cannot change nesting structure")

	// ErrInvalidPath indicates an empty path or a path with an empty segment.
	ErrInvalidPath = errors.New("invalid settings path")
)
