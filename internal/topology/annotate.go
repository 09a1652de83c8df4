package topology

import (
	"path/filepath"
)

// Udev property keys consumed by the annotator.
const (
	PropDevType       = "DEVTYPE"
	PropBus           = "ID_BUS"
	PropFSUsage       = "ID_FS_USAGE"
	PropFSType        = "ID_FS_TYPE"
	PropFSUUID        = "ID_FS_UUID"
	PropFSSubUUID     = "ID_FS_UUID_SUB"
	PropPartTableType = "ID_PART_TABLE_TYPE"
	PropPartTableUUID = "ID_PART_TABLE_UUID"
	PropPartEntryType = "ID_PART_ENTRY_TYPE"
)

const (
	DevTypeDisk      = "disk"
	DevTypePartition = "partition"

	UsageFileSystem = "filesystem"
	UsageOther      = "other"
	UsageRaid       = "raid"
	UsageCrypto     = "crypto"

	FSTypeBtrfs = "btrfs"
	FSTypeExt4  = "ext4"
	FSTypeNTFS  = "ntfs"
	FSTypeVFAT  = "vfat"
	FSTypeSwap  = "swap"

	BusUSB  = "usb"
	BusATA  = "ata"
	BusSCSI = "scsi"

	RootMountPoint = "/"
)

// extendedPartitionTypes are the DOS partition-entry type codes of extended
// partitions (CHS, LBA and Linux extended).
var extendedPartitionTypes = map[string]struct{}{
	"0x5":  {},
	"0xf":  {},
	"0x85": {},
}

// MountErrors carries the per-device mount attempt failures recorded during
// one cycle's orchestration, keyed by volume UUID and block name.
type MountErrors struct {
	Volumes map[string]string
	Blocks  map[string]string
}

// Classify derives every block's intrinsic facts from its udev properties:
// partition parents, device roles and bus attachment. Mount orchestration
// gates its candidates on these facts, so classification must run before it.
// Classify is idempotent; [Annotate] reapplies it on the same cycle.
func Classify(blocks []*Block) {
	resolveParents(blocks)

	for _, b := range blocks {
		classifyBlock(b)
		classifyBus(b)
	}
}

// Annotate derives a stats record for every block and volume of one probe
// cycle. It classifies every block and cross-references the mount and swap
// tables. The raw inputs are consumed as-is and not referenced again
// afterwards.
func Annotate(blocks []*Block, volumes []*Volume, mounts []Mount, swaps []Swap, mountErrs MountErrors) {
	Classify(blocks)

	mountByDevice := normalizeMounts(mounts)

	for _, v := range volumes {
		annotateVolume(v, mountByDevice, mountErrs.Volumes[v.UUID])
	}

	for _, b := range blocks {
		crossReference(b, volumes, mountByDevice, swaps, mountErrs.Blocks[b.Name])
	}
}

// resolveParents assigns each partition's parent disk by sysfs path
// containment: the parent is the block whose sysfs path is the direct parent
// directory of the partition's path. The disk index is built once per cycle.
func resolveParents(blocks []*Block) {
	diskBySysPath := make(map[string]*Block, len(blocks))
	for _, b := range blocks {
		if b.Properties[PropDevType] != DevTypePartition {
			diskBySysPath[b.SysPath] = b
		}
	}

	for _, b := range blocks {
		if b.Properties[PropDevType] != DevTypePartition {
			continue
		}
		if parent, ok := diskBySysPath[filepath.Dir(b.SysPath)]; ok {
			b.ParentName = parent.Name
		}
	}
}

// normalizeMounts indexes the mount table by device path. The first entry
// per device wins, so at most one mount is ever attributed to a device.
func normalizeMounts(mounts []Mount) map[string]Mount {
	byDevice := make(map[string]Mount, len(mounts))
	for _, m := range mounts {
		if _, exists := byDevice[m.Device]; !exists {
			byDevice[m.Device] = m
		}
	}

	return byDevice
}

// classifyBlock derives the filesystem-related facts of one block. A disk
// carrying a recognized partition table is never examined for filesystem
// usage: partition-table presence overrides any leftover filesystem
// signature on the disk.
func classifyBlock(b *Block) {
	isPartition := b.Properties[PropDevType] == DevTypePartition

	if !isPartition {
		if tableType := b.Properties[PropPartTableType]; tableType != "" {
			b.Stats.IsPartitioned = true
			b.Stats.PartitionTableType = tableType
			b.Stats.PartitionTableUUID = b.Properties[PropPartTableUUID]

			return
		}
	}

	if usage := b.Properties[PropFSUsage]; usage != "" {
		classifyUsage(b, usage)

		return
	}

	if isPartition {
		if _, ok := extendedPartitionTypes[b.Properties[PropPartEntryType]]; ok {
			b.Stats.IsExtended = true
		}
	}
}

func classifyUsage(b *Block, usage string) {
	fsType := b.Properties[PropFSType]

	switch usage {
	case UsageFileSystem:
		b.Stats.IsFileSystem = true
		b.Stats.FileSystemType = fsType
		b.Stats.FileSystemUUID = b.Properties[PropFSUUID]

		switch fsType {
		case FSTypeBtrfs:
			b.Stats.IsBtrfs = true
			b.Stats.IsVolumeDevice = true
			b.Stats.VolumeUUID = b.Properties[PropFSUUID]
			b.Stats.DeviceUUID = b.Properties[PropFSSubUUID]
		case FSTypeExt4:
			b.Stats.IsExt4 = true
		case FSTypeNTFS:
			b.Stats.IsNTFS = true
		case FSTypeVFAT:
			b.Stats.IsVFAT = true
		}
	case UsageOther:
		if fsType == FSTypeSwap {
			b.Stats.IsLinuxSwap = true
		} else {
			b.Stats.IsUnsupportedFsUsage = true
		}
	case UsageRaid:
		b.Stats.IsRaidFileSystem = true
	case UsageCrypto:
		b.Stats.IsCryptoFileSystem = true
	default:
		b.Stats.IsUnsupportedFsUsage = true
	}
}

// classifyBus is independent of the role classification and always applied.
func classifyBus(b *Block) {
	switch b.Properties[PropBus] {
	case BusUSB:
		b.Stats.IsUSB = true
	case BusATA:
		b.Stats.IsATA = true
	case BusSCSI:
		b.Stats.IsSCSI = true
	}
}

// annotateVolume derives the stats of one volume. Every volume is
// definitionally a btrfs filesystem; mount state is resolved through any of
// its member device paths.
func annotateVolume(v *Volume, mountByDevice map[string]Mount, mountErr string) {
	v.Stats.IsFileSystem = true
	v.Stats.IsBtrfs = true
	v.Stats.FileSystemType = FSTypeBtrfs
	v.Stats.FileSystemUUID = v.UUID
	v.Stats.VolumeUUID = v.UUID
	v.Stats.IsMissing = v.Missing

	for _, d := range v.Devices {
		if m, ok := mountByDevice[d.Path]; ok {
			v.Stats.IsMounted = true
			v.Stats.MountPoint = m.MountPoint
			v.Stats.IsRootFS = m.MountPoint == RootMountPoint

			return
		}
	}

	if mountErr != "" {
		v.Stats.MountError = mountErr
	}
}

// crossReference resolves a block's mount and swap state. A btrfs member
// block inherits mount state from its owning volume; a standalone
// filesystem block is matched directly against the mount table; a swap
// block is matched against the swap table.
func crossReference(b *Block, volumes []*Volume, mountByDevice map[string]Mount, swaps []Swap, mountErr string) {
	switch {
	case b.Stats.IsVolumeDevice:
		if v := volumeForDevice(volumes, b.Device); v != nil {
			b.Stats.IsMounted = v.Stats.IsMounted
			b.Stats.MountPoint = v.Stats.MountPoint
			b.Stats.IsRootFS = v.Stats.IsRootFS
			if !v.Stats.IsMounted && v.Stats.MountError != "" {
				b.Stats.MountError = v.Stats.MountError
			}

			return
		}

		fallthrough
	case b.Stats.IsFileSystem:
		if m, ok := mountByDevice[b.Device]; ok {
			b.Stats.IsMounted = true
			b.Stats.MountPoint = m.MountPoint
			b.Stats.IsRootFS = m.MountPoint == RootMountPoint
		} else if mountErr != "" {
			b.Stats.MountError = mountErr
		}
	case b.Stats.IsLinuxSwap:
		for _, s := range swaps {
			if s.Filename == b.Device {
				b.Stats.IsActiveSwap = true

				break
			}
		}
	}
}

// volumeForDevice looks up the volume owning a device path, by membership.
func volumeForDevice(volumes []*Volume, devicePath string) *Volume {
	for _, v := range volumes {
		for _, d := range v.Devices {
			if d.Path == devicePath {
				return v
			}
		}
	}

	return nil
}
