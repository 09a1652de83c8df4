// Package format implements the destructive reformat operation: it validates
// a format request against a fresh topology snapshot, releases the affected
// mountpoints, invokes the format utility and re-probes. Only one format
// operation is ever active system-wide.
package format

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/voidwatch/blockd/internal/configuration"
	"github.com/voidwatch/blockd/internal/topology"
)

const (
	MkfsCommand     = "mkfs.btrfs"
	BlockdevCommand = "blockdev"
)

type refresher interface {
	Refresh(ctx context.Context) (*topology.Snapshot, error)
}

type unmounter interface {
	UnmountFor(ctx context.Context, snap *topology.Snapshot, targets []string) error
}

type runnerProvider interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Handler is the principal implementation of the format operation.
type Handler struct {
	// formatMu makes format operations mutually exclusive. The coordinator
	// only serializes pipeline runs; without this, two operations could
	// interleave their unmount and format phases.
	formatMu sync.Mutex

	refresher refresher
	unmounter unmounter
	runner    runnerProvider
	settings  *configuration.Settings
}

// NewHandler returns a pointer to a new format [Handler].
func NewHandler(refresher refresher, unmounter unmounter, runner runnerProvider, settings *configuration.Settings) *Handler {
	return &Handler{
		refresher: refresher,
		unmounter: unmounter,
		runner:    runner,
		settings:  settings,
	}
}

// Format destroys the given disks and creates a new btrfs volume across them
// with the requested profile. It validates against a freshly refreshed
// snapshot, releases affected mountpoints, formats, and returns the new
// filesystem UUID as annotated on the first target in the post-format
// snapshot. The cleanup refresh runs whether or not the destructive phase
// succeeded, so the published snapshot always reflects reality.
func (h *Handler) Format(ctx context.Context, mode string, targets []string) (string, error) {
	if err := validateMode(mode); err != nil {
		return "", err
	}

	targets, err := normalizeTargets(targets)
	if err != nil {
		return "", err
	}

	h.formatMu.Lock()
	defer h.formatMu.Unlock()

	// The safety checks below must see current state, not a stale cache.
	snap, err := h.refresher.Refresh(ctx)
	if err != nil {
		return "", fmt.Errorf("(format) pre-format refresh failed: %w", err)
	}

	devices, err := validateTargets(snap, targets)
	if err != nil {
		return "", err
	}

	if err := h.unmounter.UnmountFor(ctx, snap, targets); err != nil {
		return "", fmt.Errorf("(format) %w", err)
	}

	slog.Info("Formatting.", "mode", mode, "targets", targets)

	execErr := h.runFormat(ctx, mode, devices)

	// Unconditional: even a failed format may have changed on-disk state.
	snap, refreshErr := h.refresher.Refresh(ctx)

	if execErr != nil {
		return "", fmt.Errorf("(format) %w", execErr)
	}
	if refreshErr != nil {
		return "", fmt.Errorf("(format) post-format refresh failed: %w", refreshErr)
	}

	first, ok := snap.Block(targets[0])
	if !ok {
		return "", fmt.Errorf("(format) %w: %s", ErrDeviceVanished, targets[0])
	}

	return first.Stats.FileSystemUUID, nil
}

// runFormat invokes the format utility and asks the OS to re-read the
// partition tables of the affected devices after a settle delay.
func (h *Handler) runFormat(ctx context.Context, mode string, devices []string) error {
	args := []string{"-f", "-d", mode, "-m", mode}
	args = append(args, devices...)

	if _, err := h.runner.Run(ctx, MkfsCommand, args...); err != nil {
		return err
	}

	settle(ctx, h.settings.FormatSettle)

	for _, device := range devices {
		if _, err := h.runner.Run(ctx, BlockdevCommand, "--rereadpt", device); err != nil {
			return err
		}
	}

	return nil
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
