package mount

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/voidwatch/blockd/internal/topology"
)

// supportedStandaloneTypes are the standalone filesystem types eligible for
// mount orchestration; btrfs blocks are handled through their volume.
var supportedStandaloneTypes = map[string]struct{}{
	topology.FSTypeExt4: {},
	topology.FSTypeNTFS: {},
	topology.FSTypeVFAT: {},
}

// MountAll attempts to mount everything not yet mounted, volumes before
// standalone blocks. Candidate selection reads classified block facts, so
// [topology.Classify] must have run over the blocks beforehand.
// Every attempt is best-effort and isolated: a failure is
// recorded per device and never aborts or affects any sibling. The returned
// [topology.MountErrors] feed the annotation of the same cycle.
func (h *Handler) MountAll(ctx context.Context, blocks []*topology.Block, volumes []*topology.Volume, mounts []topology.Mount) topology.MountErrors {
	mountedDevices := make(map[string]struct{}, len(mounts))
	for _, m := range mounts {
		mountedDevices[m.Device] = struct{}{}
	}

	errs := topology.MountErrors{
		Volumes: map[string]string{},
		Blocks:  map[string]string{},
	}

	h.mountVolumes(ctx, volumes, mountedDevices, &errs)
	h.mountBlocks(ctx, blocks, mountedDevices, &errs)

	return errs
}

// mountVolumes mounts every volume with no member device in the mount table,
// at a deterministic mountpoint keyed by its UUID. A volume missing a member
// device is mounted degraded and read-only; all attempts run concurrently.
func (h *Handler) mountVolumes(ctx context.Context, volumes []*topology.Volume, mountedDevices map[string]struct{}, errs *topology.MountErrors) {
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, v := range volumes {
		if len(v.Devices) == 0 || volumeMounted(v, mountedDevices) {
			continue
		}

		wg.Add(1)
		go func(v *topology.Volume) {
			defer wg.Done()

			if err := h.mountVolume(ctx, v); err != nil {
				slog.Warn("Failed to mount volume.", "uuid", v.UUID, "err", err)

				mu.Lock()
				errs.Volumes[v.UUID] = err.Error()
				mu.Unlock()
			}
		}(v)
	}

	wg.Wait()
}

func volumeMounted(v *topology.Volume, mountedDevices map[string]struct{}) bool {
	for _, d := range v.Devices {
		if _, ok := mountedDevices[d.Path]; ok {
			return true
		}
	}

	return false
}

func (h *Handler) mountVolume(ctx context.Context, v *topology.Volume) error {
	mountpoint := filepath.Join(h.settings.VolumeMountBase, v.UUID)
	if err := h.osHandler.MkdirAll(mountpoint, mountpointPerm); err != nil {
		return err
	}

	args := []string{"-t", topology.FSTypeBtrfs}
	if v.Missing {
		args = append(args, "-o", "degraded,ro")
	}
	args = append(args, v.Devices[0].Path, mountpoint)

	_, err := h.runner.Run(ctx, MountCommand, args...)

	return err
}

// mountBlocks mounts every standalone filesystem block not in the mount
// table: disks without a partition table, or partitions, carrying one of the
// supported filesystem types. USB-attached candidates go through the
// removable-media helper, which self-assigns a mountpoint; all other
// candidates are mounted at a deterministic path keyed by device name.
func (h *Handler) mountBlocks(ctx context.Context, blocks []*topology.Block, mountedDevices map[string]struct{}, errs *topology.MountErrors) {
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, b := range blocks {
		if !standaloneCandidate(b) {
			continue
		}
		if _, ok := mountedDevices[b.Device]; ok {
			continue
		}

		wg.Add(1)
		go func(b *topology.Block) {
			defer wg.Done()

			if err := h.mountBlock(ctx, b); err != nil {
				slog.Warn("Failed to mount block.", "name", b.Name, "err", err)

				mu.Lock()
				errs.Blocks[b.Name] = err.Error()
				mu.Unlock()
			}
		}(b)
	}

	wg.Wait()
}

func standaloneCandidate(b *topology.Block) bool {
	if !b.Stats.IsFileSystem || b.Stats.IsVolumeDevice {
		return false
	}
	if b.IsDisk() && b.Stats.IsPartitioned {
		return false
	}

	_, supported := supportedStandaloneTypes[b.Stats.FileSystemType]

	return supported
}

func (h *Handler) mountBlock(ctx context.Context, b *topology.Block) error {
	if b.Stats.IsUSB {
		_, err := h.runner.Run(ctx, UdisksCommand, "mount", "-b", b.Device)

		return err
	}

	mountpoint := filepath.Join(h.settings.DiskMountBase, b.Name)
	if err := h.osHandler.MkdirAll(mountpoint, mountpointPerm); err != nil {
		return err
	}

	_, err := h.runner.Run(ctx, MountCommand, b.Device, mountpoint)

	return err
}
