package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/voidwatch/blockd/internal/topology"
)

// pipeline executes one full probe cycle: probe the five raw sources
// concurrently, orchestrate mounts, re-probe the mount table, probe usage
// for mounted volumes, annotate and build the snapshot. A failed run leaves
// the previously published snapshot untouched.
func (c *Coordinator) pipeline(ctx context.Context) (*topology.Snapshot, error) {
	var (
		wg sync.WaitGroup

		ports   []topology.Port
		blocks  []*topology.Block
		volumes []*topology.Volume
		mounts  []topology.Mount
		swaps   []topology.Swap

		errPorts, errBlocks, errVolumes, errMounts, errSwaps error
	)

	wg.Add(5)
	go func() { defer wg.Done(); ports, errPorts = c.prober.Ports(ctx) }()
	go func() { defer wg.Done(); blocks, errBlocks = c.prober.Blocks(ctx) }()
	go func() { defer wg.Done(); volumes, errVolumes = c.prober.Volumes(ctx) }()
	go func() { defer wg.Done(); mounts, errMounts = c.prober.Mounts(ctx) }()
	go func() { defer wg.Done(); swaps, errSwaps = c.prober.Swaps(ctx) }()
	wg.Wait()

	if err := errors.Join(errPorts, errBlocks, errVolumes, errMounts, errSwaps); err != nil {
		return nil, fmt.Errorf("(coordinator) probe failure: %w", err)
	}

	// Standalone mount candidates are selected on classified block facts.
	topology.Classify(blocks)

	mountErrs := c.mounter.MountAll(ctx, blocks, volumes, mounts)

	// Mount commands mutate OS state out-of-band; give the kernel-reported
	// state a moment to catch up before re-reading the mount table.
	settle(ctx, c.settings.MountSettle)

	mounts, err := c.prober.Mounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("(coordinator) probe failure: %w", err)
	}

	usages := map[string]*topology.Usage{}
	for _, mountpoint := range volumeMountpoints(volumes, mounts) {
		usage, err := c.prober.Usage(ctx, mountpoint)
		if err != nil {
			return nil, fmt.Errorf("(coordinator) probe failure: %w", err)
		}
		usages[mountpoint] = usage
	}

	topology.Annotate(blocks, volumes, mounts, swaps, mountErrs)

	snap, err := topology.BuildSnapshot(ports, blocks, volumes, usages)
	if err != nil {
		return nil, fmt.Errorf("(coordinator) inconsistent topology: %w", err)
	}

	slog.Debug("Pipeline run complete.",
		"blocks", len(snap.Blocks),
		"volumes", len(snap.Volumes),
	)

	return snap, nil
}

// volumeMountpoints resolves one mountpoint per mounted volume from the
// mount table, excluding mountpoints nested inside another volume's
// mountpoint (internal bind or subvolume mounts).
func volumeMountpoints(volumes []*topology.Volume, mounts []topology.Mount) []string {
	memberDevices := map[string]struct{}{}
	for _, v := range volumes {
		for _, d := range v.Devices {
			memberDevices[d.Path] = struct{}{}
		}
	}

	candidates := []string{}
	seen := map[string]struct{}{}
	for _, m := range mounts {
		if m.FSType != topology.FSTypeBtrfs {
			continue
		}
		if _, ok := memberDevices[m.Device]; !ok {
			continue
		}
		if _, ok := seen[m.Device]; ok {
			continue
		}
		seen[m.Device] = struct{}{}
		candidates = append(candidates, m.MountPoint)
	}

	mountpoints := []string{}
	for _, mp := range candidates {
		if !nestedIn(mp, candidates) {
			mountpoints = append(mountpoints, mp)
		}
	}

	return mountpoints
}

func nestedIn(mountpoint string, all []string) bool {
	for _, other := range all {
		if other != mountpoint && strings.HasPrefix(mountpoint, other+"/") {
			return true
		}
	}

	return false
}

func settle(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}

	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}
