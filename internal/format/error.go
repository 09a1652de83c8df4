package format

import "errors"

var (
	// ErrInvalidMode is an error that occurs when the requested profile is
	// not one of the supported btrfs profile keywords.
	ErrInvalidMode = errors.New("invalid format mode")

	// ErrNoTargets is an error that occurs when the target list is empty or
	// contains an empty device name.
	ErrNoTargets = errors.New("no target devices")

	// ErrUnknownDevice is an error that occurs when a target does not exist
	// in the current snapshot.
	ErrUnknownDevice = errors.New("unknown target device")

	// ErrNotADisk is an error that occurs when a target is a partition
	// rather than a whole disk.
	ErrNotADisk = errors.New("target is not a disk")

	// ErrUnformattable is an error that occurs when a target, or one of its
	// partitions, currently backs something formatting must not destroy.
	ErrUnformattable = errors.New("target is unformattable")

	// ErrDeviceVanished is an error that occurs when a formatted target no
	// longer appears in the post-format snapshot.
	ErrDeviceVanished = errors.New("device vanished after format")
)
