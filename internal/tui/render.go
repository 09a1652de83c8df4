package tui

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/voidwatch/blockd/internal/topology"
)

const sectorSize = 512

// renderSnapshot flattens a topology snapshot into a plain-text device tree
// for display inside the snapshot viewport.
func renderSnapshot(snap *topology.Snapshot) string {
	var s strings.Builder

	for _, b := range snap.Blocks {
		if !b.IsDisk() {
			continue
		}

		s.WriteString(blockLine(b, ""))

		for _, p := range snap.Blocks {
			if p.ParentName != b.Name {
				continue
			}

			s.WriteString(blockLine(p, "  └─ "))
		}
	}

	for _, v := range snap.Volumes {
		s.WriteString(volumeLine(v))
	}

	return strings.TrimSuffix(s.String(), "\n")
}

func blockLine(b *topology.Block, prefix string) string {
	details := []string{humanize.Bytes(uint64(b.Sectors) * sectorSize)}

	switch {
	case b.Stats.IsPartitioned:
		details = append(details, b.Stats.PartitionTableType+" table")
	case b.Stats.IsFileSystem:
		details = append(details, b.Stats.FileSystemType)
	}

	if b.Stats.IsMounted {
		details = append(details, "mounted at "+b.Stats.MountPoint)
	}
	if b.Stats.IsRootFS {
		details = append(details, "rootfs")
	}
	if b.Stats.IsActiveSwap {
		details = append(details, "active swap")
	}
	if b.Stats.Unformattable != "" {
		details = append(details, "unformattable: "+b.Stats.Unformattable)
	}
	if b.Stats.MountError != "" {
		details = append(details, "mount error: "+b.Stats.MountError)
	}

	return fmt.Sprintf("%s%s (%s)\n", prefix, b.Name, strings.Join(details, ", "))
}

func volumeLine(v *topology.Volume) string {
	details := []string{fmt.Sprintf("%d device(s)", len(v.Devices))}

	if v.Missing {
		details = append(details, "devices missing")
	}
	if v.Stats.IsMounted {
		details = append(details, "mounted at "+v.Stats.MountPoint)
	}
	if v.Usage != nil {
		used := v.Usage.Overall - v.Usage.Unallocated
		details = append(details,
			fmt.Sprintf("%s of %s used",
				humanize.Bytes(uint64(used)),
				humanize.Bytes(uint64(v.Usage.Overall))))
	}
	if v.Stats.MountError != "" {
		details = append(details, "mount error: "+v.Stats.MountError)
	}

	return fmt.Sprintf("volume %s (%s)\n", v.UUID, strings.Join(details, ", "))
}
