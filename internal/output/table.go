package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/voidwatch/blockd/internal/topology"
)

//nolint:gochecknoglobals
var headingStyle = lipgloss.NewStyle().Bold(true)

func renderTable(w io.Writer, snap *topology.Snapshot) error {
	fmt.Fprintln(w, headingStyle.Render("BLOCKS"))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPARENT\tDEVICE\tSIZE\tFS\tMOUNTPOINT\tFLAGS")

	for _, b := range snap.Blocks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			b.Name,
			orDash(b.ParentName),
			b.Device,
			humanize.Bytes(uint64(b.Sectors)*512), //nolint:mnd
			orDash(fsLabel(b)),
			orDash(b.Stats.MountPoint),
			orDash(blockFlags(b)),
		)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("(output-table) %w", err)
	}

	if len(snap.Volumes) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headingStyle.Render("VOLUMES"))

	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "UUID\tDEVICES\tMOUNTPOINT\tUSED\tFLAGS")

	for _, v := range snap.Volumes {
		used := "-"
		if v.Usage != nil {
			used = humanize.Bytes(uint64(v.Usage.Overall - v.Usage.Unallocated))
		}

		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n",
			v.UUID,
			len(v.Devices),
			orDash(v.Stats.MountPoint),
			used,
			orDash(volumeFlags(v)),
		)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("(output-table) %w", err)
	}

	return nil
}

func fsLabel(b *topology.Block) string {
	if b.Stats.IsPartitioned {
		return b.Stats.PartitionTableType + " table"
	}

	return b.Stats.FileSystemType
}

func blockFlags(b *topology.Block) string {
	flags := []string{}

	if b.Stats.IsRootFS {
		flags = append(flags, "rootfs")
	}
	if b.Stats.IsActiveSwap {
		flags = append(flags, "swap")
	}
	if b.Stats.IsExtended {
		flags = append(flags, "extended")
	}
	if b.Stats.IsUSB {
		flags = append(flags, "usb")
	}
	if b.Stats.Unformattable != "" {
		flags = append(flags, "unformattable="+b.Stats.Unformattable)
	}
	if b.Stats.MountError != "" {
		flags = append(flags, "mount-error")
	}

	return strings.Join(flags, ",")
}

func volumeFlags(v *topology.Volume) string {
	flags := []string{}

	if v.Stats.IsMissing {
		flags = append(flags, "missing")
	}
	if v.Stats.IsRootFS {
		flags = append(flags, "rootfs")
	}
	if v.Stats.MountError != "" {
		flags = append(flags, "mount-error")
	}

	return strings.Join(flags, ",")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}
