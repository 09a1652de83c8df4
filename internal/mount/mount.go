// Package mount changes the system's mount state: it mounts any btrfs
// volume or supported standalone filesystem not yet mounted, and resolves
// the ordered set of mountpoints that must be released before a set of
// devices is destroyed. Mount commands mutate global OS state out-of-band;
// callers must re-probe the mount table afterwards to see the effect.
package mount

import (
	"context"
	"os"

	"github.com/voidwatch/blockd/internal/configuration"
)

const (
	MountCommand   = "mount"
	UmountCommand  = "umount"
	UdisksCommand  = "udisksctl"
	mountpointPerm = 0o755
)

type osProvider interface {
	MkdirAll(path string, perm os.FileMode) error
	RemoveAll(path string) error
}

type runnerProvider interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Handler is the principal implementation for mount and unmount operations.
type Handler struct {
	osHandler osProvider
	runner    runnerProvider
	settings  *configuration.Settings
}

// NewHandler returns a pointer to a new mount [Handler].
func NewHandler(osHandler osProvider, runner runnerProvider, settings *configuration.Settings) *Handler {
	return &Handler{
		osHandler: osHandler,
		runner:    runner,
		settings:  settings,
	}
}
