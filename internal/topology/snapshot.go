package topology

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/zeebo/blake3"
)

// Snapshot is the published, immutable result of one pipeline run. Once
// produced it is never mutated; a new refresh produces a wholly new snapshot
// that atomically replaces the published one.
type Snapshot struct {
	Ports   []Port    `json:"ports"`
	Blocks  []*Block  `json:"blocks"`
	Volumes []*Volume `json:"volumes"`
}

// BuildSnapshot merges the annotated raw state of one cycle into a new
// [Snapshot]. It classifies formattability, attaches per-volume usage by
// mountpoint and validates the model's structural invariants.
func BuildSnapshot(ports []Port, blocks []*Block, volumes []*Volume, usages map[string]*Usage) (*Snapshot, error) {
	applyUnformattable(blocks)

	names := make(map[string]*Block, len(blocks))
	devices := make(map[string]*Block, len(blocks))
	for _, b := range blocks {
		if _, exists := names[b.Name]; exists {
			return nil, fmt.Errorf("(topology) %w: %s", ErrDuplicateBlockName, b.Name)
		}
		names[b.Name] = b
		devices[b.Device] = b
	}

	for _, b := range blocks {
		if b.ParentName == "" {
			continue
		}
		parent, ok := names[b.ParentName]
		if !ok || !parent.IsDisk() {
			return nil, fmt.Errorf("(topology) %w: %s -> %s", ErrUnknownParent, b.Name, b.ParentName)
		}
	}

	for _, v := range volumes {
		for _, d := range v.Devices {
			// A missing member is reported by the volume probe without a
			// present block; only present members must correlate.
			if _, ok := devices[d.Path]; !ok && !v.Missing {
				return nil, fmt.Errorf("(topology) %w: volume %s member %s", ErrUnknownVolumeDevice, v.UUID, d.Path)
			}
		}

		if v.Stats.IsMounted {
			if u, ok := usages[v.Stats.MountPoint]; ok {
				v.Usage = u
			}
		}
	}

	return &Snapshot{
		Ports:   ports,
		Blocks:  blocks,
		Volumes: volumes,
	}, nil
}

// Clone returns a deep copy of the snapshot, so that readers can never reach
// into the published value's internal structures.
func (s *Snapshot) Clone() *Snapshot {
	clone := &Snapshot{
		Ports:   make([]Port, len(s.Ports)),
		Blocks:  make([]*Block, len(s.Blocks)),
		Volumes: make([]*Volume, len(s.Volumes)),
	}
	copy(clone.Ports, s.Ports)

	for i, b := range s.Blocks {
		blockCopy := *b
		if b.Properties != nil {
			blockCopy.Properties = make(map[string]string, len(b.Properties))
			for k, v := range b.Properties {
				blockCopy.Properties[k] = v
			}
		}
		clone.Blocks[i] = &blockCopy
	}

	for i, v := range s.Volumes {
		volumeCopy := *v
		volumeCopy.Devices = make([]VolumeDevice, len(v.Devices))
		copy(volumeCopy.Devices, v.Devices)
		if v.Usage != nil {
			usageCopy := *v.Usage
			usageCopy.Devices = make([]UsageDevice, len(v.Usage.Devices))
			copy(usageCopy.Devices, v.Usage.Devices)
			volumeCopy.Usage = &usageCopy
		}
		clone.Volumes[i] = &volumeCopy
	}

	return clone
}

// Fingerprint returns a stable hash over the snapshot's topology, excluding
// the inherently time-varying usage counters. Two snapshots of an unchanged
// system yield the same fingerprint.
func (s *Snapshot) Fingerprint() (string, error) {
	stripped := s.Clone()
	for _, v := range stripped.Volumes {
		v.Usage = nil
		for i := range v.Devices {
			v.Devices[i].Used = 0
		}
	}

	data, err := json.Marshal(stripped)
	if err != nil {
		return "", fmt.Errorf("(topology) failed to encode snapshot: %w", err)
	}

	hasher := blake3.New()
	_, _ = hasher.Write(data)

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// Block looks up a block by its kernel device name.
func (s *Snapshot) Block(name string) (*Block, bool) {
	for _, b := range s.Blocks {
		if b.Name == name {
			return b, true
		}
	}

	return nil, false
}

// Volume looks up a volume by its UUID.
func (s *Snapshot) Volume(uuid string) (*Volume, bool) {
	for _, v := range s.Volumes {
		if v.UUID == uuid {
			return v, true
		}
	}

	return nil, false
}
