package format

import (
	"fmt"
	"sort"

	"github.com/voidwatch/blockd/internal/topology"
)

// Modes are the btrfs profile keywords accepted by [Handler.Format]:
// single-device, striped and mirrored.
const (
	ModeSingle = "single"
	ModeRaid0  = "raid0"
	ModeRaid1  = "raid1"
)

var validModes = map[string]struct{}{
	ModeSingle: {},
	ModeRaid0:  {},
	ModeRaid1:  {},
}

func validateMode(mode string) error {
	if _, ok := validModes[mode]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	return nil
}

// normalizeTargets deduplicates and sorts the target device names, so the
// operation is deterministic regardless of request ordering.
func normalizeTargets(targets []string) ([]string, error) {
	seen := map[string]struct{}{}
	normalized := []string{}

	for _, name := range targets {
		if name == "" {
			return nil, ErrNoTargets
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		normalized = append(normalized, name)
	}

	if len(normalized) == 0 {
		return nil, ErrNoTargets
	}

	sort.Strings(normalized)

	return normalized, nil
}

// validateTargets checks every target against the snapshot: it must exist,
// must be a whole disk, and must carry no unformattable reason. Any
// violation aborts before any destructive action. The targets' device paths
// are returned in target order.
func validateTargets(snap *topology.Snapshot, targets []string) ([]string, error) {
	devices := make([]string, 0, len(targets))

	for _, name := range targets {
		b, ok := snap.Block(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownDevice, name)
		}
		if !b.IsDisk() {
			return nil, fmt.Errorf("%w: %s", ErrNotADisk, name)
		}
		if b.Stats.Unformattable != "" {
			return nil, fmt.Errorf("%w: %s (%s)", ErrUnformattable, name, b.Stats.Unformattable)
		}

		devices = append(devices, b.Device)
	}

	return devices, nil
}
