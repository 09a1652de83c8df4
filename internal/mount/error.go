package mount

import "errors"

var (
	// ErrUnknownTarget is an error that occurs when an unmount resolution
	// names a device the snapshot does not contain.
	ErrUnknownTarget = errors.New("unknown target device")
)
