package session

import "errors"

// Session manager errors.
var (
	// ErrNilDevice indicates no device was provided.
	ErrNilDevice = errors.New("session: device is required")

	// ErrAlreadyStarted indicates Start was called twice.
	ErrAlreadyStarted = errors.New("session: manager already started")
)
