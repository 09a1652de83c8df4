// Package topology derives a consistent, annotated model of the system's
// block devices and btrfs volumes from independently probed raw facts. It
// classifies every device's role, decides which devices are safe to
// reformat and merges everything into one immutable [Snapshot].
package topology

// Port is a physical controller port.
type Port struct {
	Path      string `json:"path"`
	Subsystem string `json:"subsystem"`
}

// Block is a raw block device or partition. Blocks form an implicit
// two-level forest: disks at the root, partitions as children.
type Block struct {
	// Name is the unique kernel device name (e.g. sdb, sdb1).
	Name string `json:"name"`

	// ParentName names the enclosing disk, set iff this is a partition. It
	// is resolved once per cycle by sysfs path containment.
	ParentName string `json:"parentName,omitempty"`

	// Device is the device node path (e.g. /dev/sdb).
	Device string `json:"device"`

	// SysPath is the resolved sysfs path of the device.
	SysPath string `json:"-"`

	Removable bool `json:"removable,omitempty"`

	// Sectors is the device size in 512-byte units.
	Sectors int64 `json:"sectors"`

	// Properties holds the raw udev property database of the device.
	Properties map[string]string `json:"-"`

	Stats Stats `json:"stats"`
}

// IsDisk reports whether the block is a whole disk rather than a partition.
func (b *Block) IsDisk() bool {
	return b.ParentName == ""
}

// VolumeDevice is a member device reference of a btrfs [Volume]. Member
// devices are correlated to [Block] by device path, never by ownership.
type VolumeDevice struct {
	Path string `json:"path"`
	ID   int    `json:"id"`
	Used int64  `json:"used"`
}

// Volume is a btrfs volume, identified by its UUID. A volume with not all
// member devices present is missing, but may still mount degraded.
type Volume struct {
	UUID    string         `json:"uuid"`
	Missing bool           `json:"missing,omitempty"`
	Devices []VolumeDevice `json:"devices"`

	Stats Stats  `json:"stats"`
	Usage *Usage `json:"usage,omitempty"`
}

// Mount is a raw mount-table entry.
type Mount struct {
	Device     string `json:"device"`
	MountPoint string `json:"mountPoint"`
	FSType     string `json:"fsType"`
}

// Swap is a raw active-swap entry.
type Swap struct {
	Filename string `json:"filename"`
}

// UsageDevice is the per-member-device part of a [Usage] breakdown.
type UsageDevice struct {
	Path string `json:"path"`
	Used int64  `json:"used"`
}

// Usage is per-volume btrfs space accounting, keyed by mountpoint.
type Usage struct {
	MountPoint  string        `json:"mountPoint"`
	Overall     int64         `json:"overall"`
	System      int64         `json:"system"`
	Metadata    int64         `json:"metadata"`
	Data        int64         `json:"data"`
	Unallocated int64         `json:"unallocated"`
	Devices     []UsageDevice `json:"devices,omitempty"`
}
