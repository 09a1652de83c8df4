package probe

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/voidwatch/blockd/internal/topology"
)

// Usage probes the btrfs space accounting of one mounted volume.
func (h *Handler) Usage(ctx context.Context, mountpoint string) (*topology.Usage, error) {
	out, err := h.runner.Run(ctx, BtrfsCommand, "filesystem", "usage", "-b", mountpoint)
	if err != nil {
		return nil, fmt.Errorf("(probe-usage) failed to read usage of %s: %w", mountpoint, err)
	}

	usage, err := parseUsage(out)
	if err != nil {
		return nil, fmt.Errorf("(probe-usage) %w", err)
	}
	usage.MountPoint = mountpoint

	return usage, nil
}

// parseUsage parses `btrfs filesystem usage -b` output: an Overall section
// with global counters, followed by per-profile sections (Data, Metadata,
// System) listing member device contributions.
func parseUsage(out []byte) (*topology.Usage, error) {
	usage := &topology.Usage{}
	deviceUsed := map[string]int64{}
	deviceOrder := []string{}

	section := ""

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "Overall:"):
			section = "overall"
		case strings.HasPrefix(line, "Data"):
			section = "data"
			usage.Data = sectionSize(line)
		case strings.HasPrefix(line, "Metadata"):
			section = "metadata"
			usage.Metadata = sectionSize(line)
		case strings.HasPrefix(line, "System"):
			section = "system"
			usage.System = sectionSize(line)
		case strings.HasPrefix(line, "Unallocated:"):
			section = "unallocated"
		case section == "overall":
			switch {
			case strings.HasPrefix(line, "Device size:"):
				usage.Overall = trailingInt(line)
			case strings.HasPrefix(line, "Device unallocated:"):
				usage.Unallocated = trailingInt(line)
			}
		case strings.HasPrefix(line, "/dev/"):
			fields := strings.Fields(line)
			if len(fields) < 2 {
				return nil, fmt.Errorf("%w: %q", ErrMalformedUsage, line)
			}

			value, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrMalformedUsage, line)
			}

			// The unallocated section reports free space, not usage.
			if section == "unallocated" {
				continue
			}

			if _, seen := deviceUsed[fields[0]]; !seen {
				deviceOrder = append(deviceOrder, fields[0])
			}
			deviceUsed[fields[0]] += value
		}
	}

	for _, path := range deviceOrder {
		usage.Devices = append(usage.Devices, topology.UsageDevice{
			Path: path,
			Used: deviceUsed[path],
		})
	}

	return usage, nil
}

// sectionSize extracts the Size counter of a per-profile section header,
// e.g. `Data,RAID1: Size:1048576, Used:262144 (25.00%)`.
func sectionSize(line string) int64 {
	idx := strings.Index(line, "Size:")
	if idx < 0 {
		return 0
	}

	rest := line[idx+len("Size:"):]
	end := strings.IndexAny(rest, ", ")
	if end >= 0 {
		rest = rest[:end]
	}

	value, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0
	}

	return value
}

// trailingInt extracts the last whitespace-delimited integer of a line.
func trailingInt(line string) int64 {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return 0
	}

	value, err := strconv.ParseInt(fields[len(fields)-1], 10, 64)
	if err != nil {
		return 0
	}

	return value
}
