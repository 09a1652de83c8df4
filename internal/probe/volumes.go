package probe

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/voidwatch/blockd/internal/topology"
)

// Volumes probes all btrfs volumes known to the kernel, including volumes
// with missing member devices.
func (h *Handler) Volumes(ctx context.Context) ([]*topology.Volume, error) {
	out, err := h.runner.Run(ctx, BtrfsCommand, "filesystem", "show", "--all-devices", "--raw")
	if err != nil {
		return nil, fmt.Errorf("(probe-volumes) failed to list volumes: %w", err)
	}

	volumes, err := parseVolumeList(out)
	if err != nil {
		return nil, fmt.Errorf("(probe-volumes) %w", err)
	}

	return volumes, nil
}

// parseVolumeList parses `btrfs filesystem show --raw` output. Every volume
// starts with a Label line carrying its UUID, followed by devid member lines
// and, for incomplete volumes, a missing-devices warning.
func parseVolumeList(out []byte) ([]*topology.Volume, error) {
	volumes := []*topology.Volume{}

	var current *topology.Volume

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case strings.HasPrefix(line, "Label:"):
			rawUUID := valueAfter(line, "uuid:")
			parsed, err := uuid.Parse(rawUUID)
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrMalformedVolumeList, rawUUID)
			}

			current = &topology.Volume{UUID: parsed.String()}
			volumes = append(volumes, current)

		case strings.HasPrefix(line, "devid"):
			if current == nil {
				return nil, fmt.Errorf("%w: devid before volume header", ErrMalformedVolumeList)
			}

			device, err := parseVolumeDevice(line)
			if err != nil {
				return nil, err
			}
			if device != nil {
				current.Devices = append(current.Devices, *device)
			} else {
				current.Missing = true
			}

		case strings.Contains(strings.ToLower(line), "missing"):
			if current != nil {
				current.Missing = true
			}
		}
	}

	return volumes, nil
}

// parseVolumeDevice parses one devid line, e.g.:
//
//	devid 1 size 1000204886016 used 22020096 path /dev/sdb
//
// A missing member is reported without a path; nil is returned for it.
func parseVolumeDevice(line string) (*topology.VolumeDevice, error) {
	fields := strings.Fields(line)

	device := &topology.VolumeDevice{}
	havePath := false

	for i := 0; i < len(fields)-1; i++ {
		switch fields[i] {
		case "devid":
			id, err := strconv.Atoi(fields[i+1])
			if err != nil {
				return nil, fmt.Errorf("%w: devid %q", ErrMalformedVolumeList, fields[i+1])
			}
			device.ID = id
		case "used":
			used, err := strconv.ParseInt(fields[i+1], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: used %q", ErrMalformedVolumeList, fields[i+1])
			}
			device.Used = used
		case "path":
			device.Path = fields[i+1]
			havePath = true
		}
	}

	if !havePath {
		return nil, nil //nolint: nilnil
	}

	return device, nil
}

// valueAfter extracts the whitespace-delimited token following a marker.
func valueAfter(line, marker string) string {
	idx := strings.Index(line, marker)
	if idx < 0 {
		return ""
	}

	fields := strings.Fields(line[idx+len(marker):])
	if len(fields) == 0 {
		return ""
	}

	return fields[0]
}
