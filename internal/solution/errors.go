package solution

import "errors"

// Sentinel errors for partitioning.
var (
	// ErrMissingVariant is a configuration error: the resources do not say
	// whether the solution should be removed.
	ErrMissingVariant = errors.New("resources must set remove_solution")

	// ErrNoSolutionMarker means the notebook is malformed: nothing marks
	// where the solution starts, so it cannot be redacted.
	ErrNoSolutionMarker = errors.New("no solution marker found")
)
