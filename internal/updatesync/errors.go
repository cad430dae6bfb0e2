package updatesync

import "errors"

// Construction errors for the synchronization engine.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNilSource is returned by New when no configuration source is provided.
	ErrNilSource = errors.New("updatesync: configuration source is required")

	// ErrNilSink is returned by New when no update sink is provided.
	ErrNilSink = errors.New("updatesync: update sink is required")
)
