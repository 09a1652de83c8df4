package configuration

import (
	"time"
)

const (
	// DefaultConfigFile is the configuration file read when none is given.
	DefaultConfigFile = "/etc/blockd/blockd.conf"

	SettingVolumeMountBase = "volumeMountBase"
	SettingDiskMountBase   = "diskMountBase"
	SettingMountSettleMS   = "mountSettleMS"
	SettingFormatSettleMS  = "formatSettleMS"
	SettingWatchSchedule   = "watchSchedule"
)

// Settings is the principal structure holding the application configuration.
type Settings struct {
	// VolumeMountBase is the directory under which btrfs volumes are
	// mounted, keyed by their volume UUID.
	VolumeMountBase string

	// DiskMountBase is the directory under which standalone filesystems are
	// mounted, keyed by their kernel device name.
	DiskMountBase string

	// MountSettle is waited after mount orchestration, before the mount
	// table is re-probed.
	MountSettle time.Duration

	// FormatSettle is waited after a format command, before partition
	// tables are re-read.
	FormatSettle time.Duration

	// WatchSchedule is the cron schedule for background refreshes in watch
	// mode.
	WatchSchedule string
}

// DefaultSettings returns a pointer to a new [Settings] with default values.
func DefaultSettings() *Settings {
	return &Settings{
		VolumeMountBase: "/mnt/volumes",
		DiskMountBase:   "/mnt/disks",
		MountSettle:     500 * time.Millisecond,
		FormatSettle:    2 * time.Second,
		WatchSchedule:   "@every 30s",
	}
}

// LoadSettings reads the given configuration files and returns a [Settings]
// with any configured values applied over the defaults. A missing or
// unreadable configuration file yields the defaults.
func (c *Handler) LoadSettings(filenames ...string) *Settings {
	settings := DefaultSettings()

	envMap, err := c.ReadGeneric(filenames...)
	if err != nil {
		return settings
	}

	if v := c.MapKeyToString(envMap, SettingVolumeMountBase); v != "" {
		settings.VolumeMountBase = v
	}
	if v := c.MapKeyToString(envMap, SettingDiskMountBase); v != "" {
		settings.DiskMountBase = v
	}
	if v := c.MapKeyToInt64(envMap, SettingMountSettleMS); v >= 0 {
		settings.MountSettle = time.Duration(v) * time.Millisecond
	}
	if v := c.MapKeyToInt64(envMap, SettingFormatSettleMS); v >= 0 {
		settings.FormatSettle = time.Duration(v) * time.Millisecond
	}
	if v := c.MapKeyToString(envMap, SettingWatchSchedule); v != "" {
		settings.WatchSchedule = v
	}

	return settings
}
