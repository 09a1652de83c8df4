package mount

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/voidwatch/blockd/internal/topology"
)

// UnmountFor resolves and releases the mountpoints standing in the way of
// destroying the given target devices, in three strictly ordered tiers:
// whole volumes first, then the mounted child partitions of partitioned-disk
// targets, then any remaining directly mounted target. Unmounting a parent
// before its children is unsafe, so each tier completes before the next
// begins. Unlike mount orchestration this is all-or-nothing: the first
// failure aborts the resolution and is surfaced to the caller, because a
// half-unmounted state must never be treated as success before a format.
func (h *Handler) UnmountFor(ctx context.Context, snap *topology.Snapshot, targets []string) error {
	done := map[string]struct{}{}

	// Tier 1: whole volumes reachable from any mounted volume-member target.
	volumeUUIDs := map[string]struct{}{}
	for _, name := range targets {
		b, ok := snap.Block(name)
		if !ok {
			return fmt.Errorf("(mount-resolver) %w: %s", ErrUnknownTarget, name)
		}
		if b.Stats.IsVolumeDevice && b.Stats.IsMounted {
			volumeUUIDs[b.Stats.VolumeUUID] = struct{}{}
		}
	}

	ordered := make([]string, 0, len(volumeUUIDs))
	for uuid := range volumeUUIDs {
		ordered = append(ordered, uuid)
	}
	sort.Strings(ordered)

	for _, uuid := range ordered {
		v, ok := snap.Volume(uuid)
		if !ok || !v.Stats.IsMounted {
			continue
		}
		if err := h.unmount(ctx, v.Stats.MountPoint, done); err != nil {
			return err
		}
	}

	// Tier 2: mounted child partitions of partitioned-disk targets.
	for _, name := range targets {
		target, _ := snap.Block(name)
		if !target.Stats.IsPartitioned {
			continue
		}
		for _, child := range snap.Blocks {
			if child.ParentName != name || !child.Stats.IsMounted {
				continue
			}
			if err := h.unmount(ctx, child.Stats.MountPoint, done); err != nil {
				return err
			}
		}
	}

	// Tier 3: remaining directly mounted targets.
	for _, name := range targets {
		target, _ := snap.Block(name)
		if !target.Stats.IsMounted {
			continue
		}
		if target.IsDisk() && (target.Stats.IsVolumeDevice || !target.Stats.IsFileSystem) {
			continue
		}
		if err := h.unmount(ctx, target.Stats.MountPoint, done); err != nil {
			return err
		}
	}

	return nil
}

// unmount releases one mountpoint once, removing the mountpoint directory
// afterwards when it is one of ours.
func (h *Handler) unmount(ctx context.Context, mountpoint string, done map[string]struct{}) error {
	if mountpoint == "" {
		return nil
	}
	if _, ok := done[mountpoint]; ok {
		return nil
	}

	if _, err := h.runner.Run(ctx, UmountCommand, mountpoint); err != nil {
		return fmt.Errorf("(mount-resolver) failed to unmount %s: %w", mountpoint, err)
	}
	done[mountpoint] = struct{}{}

	slog.Info("Unmounted.", "mountpoint", mountpoint)

	if h.managedMountpoint(mountpoint) {
		_ = h.osHandler.RemoveAll(mountpoint)
	}

	return nil
}

func (h *Handler) managedMountpoint(mountpoint string) bool {
	return strings.HasPrefix(mountpoint, h.settings.VolumeMountBase+"/") ||
		strings.HasPrefix(mountpoint, h.settings.DiskMountBase+"/")
}
