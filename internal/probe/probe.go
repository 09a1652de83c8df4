// Package probe collects the raw operating system facts the topology engine
// is derived from: controller ports, block devices, btrfs volumes, the mount
// table, the swap table and btrfs space usage. Each probe is independent and
// returns parsed raw state; an empty result set is valid and distinct from a
// probe failure.
package probe

import (
	"context"
	"os"
)

const (
	SysBlockDir      = "/sys/block"
	SysScsiHostDir   = "/sys/class/scsi_host"
	SysUSBDevicesDir = "/sys/bus/usb/devices"
	UdevDataDir      = "/run/udev/data"
	ProcMountsFile   = "/proc/self/mounts"
	ProcSwapsFile    = "/proc/swaps"
	DevDir           = "/dev"

	BtrfsCommand = "btrfs"
)

type osProvider interface {
	ReadDir(name string) ([]os.DirEntry, error)
	ReadFile(name string) ([]byte, error)
	Readlink(name string) (string, error)
}

type runnerProvider interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Handler is the principal implementation of the raw probes.
type Handler struct {
	osHandler osProvider
	runner    runnerProvider
}

// NewHandler returns a pointer to a new probe [Handler].
func NewHandler(osHandler osProvider, runner runnerProvider) *Handler {
	return &Handler{
		osHandler: osHandler,
		runner:    runner,
	}
}
