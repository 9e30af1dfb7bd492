package core

import "errors"

// Error classes shared by the generator packages. Callers test for them with
// errors.Is; the concrete errors carry context added via fmt.Errorf("%w").
var (
	// ErrConfig reports an invalid bit depth, seed position, connectivity or
	// a canvas whose area does not equal the color count. Surfaced at
	// construction, never retried.
	ErrConfig = errors.New("configuration error")

	// ErrInconsistent reports a broken placement invariant, such as an empty
	// frontier while colors remain or a second commit to the same position.
	// It is fatal for the run.
	ErrInconsistent = errors.New("internal consistency failure")

	// ErrLifecycle reports a worker operation invalid in its current state.
	ErrLifecycle = errors.New("lifecycle misuse")
)
