package topology

// Stats holds every fact derived for a [Block] or [Volume] during one
// annotation cycle. Raw probe structures are never referenced again once
// their stats record has been derived.
type Stats struct {
	IsPartitioned      bool   `json:"isPartitioned,omitempty"`
	PartitionTableType string `json:"partitionTableType,omitempty"`
	PartitionTableUUID string `json:"partitionTableUUID,omitempty"`

	IsFileSystem   bool   `json:"isFileSystem,omitempty"`
	FileSystemType string `json:"fileSystemType,omitempty"`
	FileSystemUUID string `json:"fileSystemUUID,omitempty"`

	IsBtrfs bool `json:"isBtrfs,omitempty"`
	IsExt4  bool `json:"isExt4,omitempty"`
	IsNTFS  bool `json:"isNTFS,omitempty"`
	IsVFAT  bool `json:"isVFAT,omitempty"`

	// IsVolumeDevice marks a block backing a btrfs volume; VolumeUUID and
	// DeviceUUID then carry the volume and member device identities.
	IsVolumeDevice bool   `json:"isVolumeDevice,omitempty"`
	VolumeUUID     string `json:"volumeUUID,omitempty"`
	DeviceUUID     string `json:"deviceUUID,omitempty"`

	IsLinuxSwap          bool `json:"isLinuxSwap,omitempty"`
	IsRaidFileSystem     bool `json:"isRaidFileSystem,omitempty"`
	IsCryptoFileSystem   bool `json:"isCryptoFileSystem,omitempty"`
	IsUnsupportedFsUsage bool `json:"isUnsupportedFsUsage,omitempty"`

	IsExtended bool `json:"isExtended,omitempty"`

	IsUSB  bool `json:"isUSB,omitempty"`
	IsATA  bool `json:"isATA,omitempty"`
	IsSCSI bool `json:"isSCSI,omitempty"`

	IsMounted  bool   `json:"isMounted,omitempty"`
	MountPoint string `json:"mountPoint,omitempty"`
	IsRootFS   bool   `json:"isRootFS,omitempty"`

	IsActiveSwap bool `json:"isActiveSwap,omitempty"`

	// MountError carries the mount attempt failure recorded during this
	// cycle's orchestration, for devices that remained unmounted.
	MountError string `json:"mountError,omitempty"`

	// IsMissing mirrors the raw missing flag of a volume.
	IsMissing bool `json:"isMissing,omitempty"`

	// Unformattable names the reason(s) destructive formatting must not
	// touch this device; empty means formattable.
	Unformattable string `json:"unformattable,omitempty"`
}
