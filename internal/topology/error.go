package topology

import "errors"

var (
	// ErrDuplicateBlockName is an error that occurs when two probed blocks
	// carry the same kernel device name within one cycle.
	ErrDuplicateBlockName = errors.New("duplicate block name")

	// ErrUnknownParent is an error that occurs when a partition's resolved
	// parent does not name an existing disk block.
	ErrUnknownParent = errors.New("parent is not an existing disk")

	// ErrUnknownVolumeDevice is an error that occurs when a present volume
	// member device does not correlate to any probed block.
	ErrUnknownVolumeDevice = errors.New("volume member is not an existing block")
)
