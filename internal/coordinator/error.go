package coordinator

import "errors"

var (
	// ErrNoSnapshot is an error that occurs when the snapshot is requested
	// before the first successful pipeline run has published one.
	ErrNoSnapshot = errors.New("no snapshot available yet")
)
