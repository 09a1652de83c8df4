package probe

import "errors"

var (
	// ErrMalformedVolumeList is an error that occurs when the btrfs volume
	// listing cannot be parsed.
	ErrMalformedVolumeList = errors.New("malformed volume list")

	// ErrMalformedUsage is an error that occurs when btrfs space accounting
	// output cannot be parsed.
	ErrMalformedUsage = errors.New("malformed usage output")
)
