package output

import "errors"

var (
	// ErrUnknownFormat is an error that occurs when an unsupported output
	// format is requested.
	ErrUnknownFormat = errors.New("unknown output format")
)
