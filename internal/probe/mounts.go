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

// Mounts probes the kernel mount table.
func (h *Handler) Mounts(_ context.Context) ([]topology.Mount, error) {
	data, err := h.osHandler.ReadFile(ProcMountsFile)
	if err != nil {
		return nil, fmt.Errorf("(probe-mounts) failed to read %s: %w", ProcMountsFile, err)
	}

	mounts := []topology.Mount{}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			continue
		}

		mounts = append(mounts, topology.Mount{
			Device:     unescapeMountField(fields[0]),
			MountPoint: unescapeMountField(fields[1]),
			FSType:     fields[2],
		})
	}

	return mounts, nil
}

// Swaps probes the active swap table.
func (h *Handler) Swaps(_ context.Context) ([]topology.Swap, error) {
	data, err := h.osHandler.ReadFile(ProcSwapsFile)
	if err != nil {
		return nil, fmt.Errorf("(probe-swaps) failed to read %s: %w", ProcSwapsFile, err)
	}

	swaps := []topology.Swap{}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for line := 0; scanner.Scan(); line++ {
		if line == 0 {
			// Header row.
			continue
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		swaps = append(swaps, topology.Swap{Filename: unescapeMountField(fields[0])})
	}

	return swaps, nil
}

// unescapeMountField decodes the octal escapes the kernel uses for
// whitespace and special characters in mount table fields (e.g. \040).
func unescapeMountField(field string) string {
	if !strings.Contains(field, `\`) {
		return field
	}

	var sb strings.Builder
	for i := 0; i < len(field); i++ {
		if field[i] == '\\' && i+3 < len(field) {
			if code, err := strconv.ParseUint(field[i+1:i+4], 8, 8); err == nil {
				sb.WriteByte(byte(code))
				i += 3

				continue
			}
		}
		sb.WriteByte(field[i])
	}

	return sb.String()
}
