package format

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voidwatch/blockd/internal/configuration"
	"github.com/voidwatch/blockd/internal/topology"
)

const testNewUUID = "11111111-2222-3333-4444-555555555555"

// fakeRefresher is a fake implementation of refresher, returning queued
// snapshots in call order.
type fakeRefresher struct {
	snaps []*topology.Snapshot
	errs  []error
	calls int
}

func (f *fakeRefresher) Refresh(_ context.Context) (*topology.Snapshot, error) {
	idx := f.calls
	f.calls++

	if idx < len(f.errs) && f.errs[idx] != nil {
		return nil, f.errs[idx]
	}
	if idx < len(f.snaps) {
		return f.snaps[idx], nil
	}

	return f.snaps[len(f.snaps)-1], nil
}

// fakeUnmounter is a fake implementation of unmounter, recording targets.
type fakeUnmounter struct {
	err     error
	targets [][]string
}

func (f *fakeUnmounter) UnmountFor(_ context.Context, _ *topology.Snapshot, targets []string) error {
	f.targets = append(f.targets, targets)

	return f.err
}

// fakeRunner is a fake implementation of runnerProvider, keyed by the full
// command line.
type fakeRunner struct {
	errs  map[string]error
	calls []string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{errs: map[string]error{}}
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	key := strings.Join(append([]string{name}, args...), " ")
	f.calls = append(f.calls, key)

	if err, ok := f.errs[key]; ok {
		return nil, err
	}

	return nil, nil
}

func testSettings() *configuration.Settings {
	settings := configuration.DefaultSettings()
	settings.FormatSettle = time.Millisecond

	return settings
}

func cleanSnapshot() *topology.Snapshot {
	return &topology.Snapshot{
		Blocks: []*topology.Block{
			{Name: "sdb", Device: "/dev/sdb"},
			{Name: "sdc", Device: "/dev/sdc"},
		},
	}
}

func formattedSnapshot() *topology.Snapshot {
	stats := topology.Stats{
		IsFileSystem: true, IsBtrfs: true, IsVolumeDevice: true,
		FileSystemType: "btrfs", FileSystemUUID: testNewUUID, VolumeUUID: testNewUUID,
	}

	return &topology.Snapshot{
		Blocks: []*topology.Block{
			{Name: "sdb", Device: "/dev/sdb", Stats: stats},
			{Name: "sdc", Device: "/dev/sdc", Stats: stats},
		},
	}
}

// TestFormat_Success verifies the full happy path: fresh validation, unmount
// resolution, the format invocation, partition table re-reads and the UUID
// taken from the post-format snapshot.
func TestFormat_Success(t *testing.T) {
	t.Parallel()

	refresher := &fakeRefresher{snaps: []*topology.Snapshot{cleanSnapshot(), formattedSnapshot()}}
	unmounter := &fakeUnmounter{}
	runner := newFakeRunner()

	handler := NewHandler(refresher, unmounter, runner, testSettings())

	uuid, err := handler.Format(context.Background(), ModeRaid1, []string{"sdc", "sdb"})
	require.NoError(t, err)
	assert.Equal(t, testNewUUID, uuid)

	assert.Equal(t, 2, refresher.calls, "one pre-format and one post-format refresh")

	require.Len(t, unmounter.targets, 1)
	assert.Equal(t, []string{"sdb", "sdc"}, unmounter.targets[0], "targets are normalized")

	assert.Equal(t, []string{
		"mkfs.btrfs -f -d raid1 -m raid1 /dev/sdb /dev/sdc",
		"blockdev --rereadpt /dev/sdb",
		"blockdev --rereadpt /dev/sdc",
	}, runner.calls)
}

// TestFormat_InvalidMode verifies mode validation before any side effect.
func TestFormat_InvalidMode(t *testing.T) {
	t.Parallel()

	refresher := &fakeRefresher{snaps: []*topology.Snapshot{cleanSnapshot()}}
	runner := newFakeRunner()

	handler := NewHandler(refresher, &fakeUnmounter{}, runner, testSettings())

	_, err := handler.Format(context.Background(), "raid6", []string{"sdb"})
	require.ErrorIs(t, err, ErrInvalidMode)

	assert.Zero(t, refresher.calls)
	assert.Empty(t, runner.calls)
}

// TestFormat_NoTargets verifies target list validation.
func TestFormat_NoTargets(t *testing.T) {
	t.Parallel()

	handler := NewHandler(&fakeRefresher{snaps: []*topology.Snapshot{cleanSnapshot()}},
		&fakeUnmounter{}, newFakeRunner(), testSettings())

	_, err := handler.Format(context.Background(), ModeSingle, nil)
	require.ErrorIs(t, err, ErrNoTargets)

	_, err = handler.Format(context.Background(), ModeSingle, []string{""})
	require.ErrorIs(t, err, ErrNoTargets)
}

// TestFormat_RejectsUnsafeTargets verifies that protected or invalid targets
// abort the operation with zero destructive side effects.
func TestFormat_RejectsUnsafeTargets(t *testing.T) {
	t.Parallel()

	snap := &topology.Snapshot{
		Blocks: []*topology.Block{
			{Name: "sda", Device: "/dev/sda", Stats: topology.Stats{
				IsPartitioned: true, Unformattable: topology.ReasonRootFS,
			}},
			{Name: "sda1", ParentName: "sda", Device: "/dev/sda1", Stats: topology.Stats{
				IsRootFS: true, Unformattable: topology.ReasonRootFS,
			}},
			{Name: "sdb", Device: "/dev/sdb"},
		},
	}

	testCases := []struct {
		name    string
		targets []string
		wantErr error
	}{
		{"Error_RootFSDisk", []string{"sda"}, ErrUnformattable},
		{"Error_Partition", []string{"sda1"}, ErrNotADisk},
		{"Error_Unknown", []string{"sdz"}, ErrUnknownDevice},
		{"Error_MixedWithClean", []string{"sdb", "sda"}, ErrUnformattable},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			refresher := &fakeRefresher{snaps: []*topology.Snapshot{snap}}
			unmounter := &fakeUnmounter{}
			runner := newFakeRunner()

			handler := NewHandler(refresher, unmounter, runner, testSettings())

			_, err := handler.Format(context.Background(), ModeSingle, tc.targets)
			require.ErrorIs(t, err, tc.wantErr)

			assert.Empty(t, unmounter.targets, "no unmount for a rejected request")
			assert.Empty(t, runner.calls, "no command for a rejected request")
			assert.Equal(t, 1, refresher.calls, "no cleanup refresh for a rejected request")
		})
	}
}

// TestFormat_UnmountFailureAborts verifies that a failed unmount resolution
// aborts before the destructive phase.
func TestFormat_UnmountFailureAborts(t *testing.T) {
	t.Parallel()

	refresher := &fakeRefresher{snaps: []*topology.Snapshot{cleanSnapshot()}}
	unmounter := &fakeUnmounter{err: assert.AnError}
	runner := newFakeRunner()

	handler := NewHandler(refresher, unmounter, runner, testSettings())

	_, err := handler.Format(context.Background(), ModeSingle, []string{"sdb"})
	require.ErrorIs(t, err, assert.AnError)

	assert.Empty(t, runner.calls)
}

// TestFormat_ExecFailureStillRefreshes verifies that the cleanup refresh runs
// even when the format command fails, and that the command failure wins.
func TestFormat_ExecFailureStillRefreshes(t *testing.T) {
	t.Parallel()

	refresher := &fakeRefresher{snaps: []*topology.Snapshot{cleanSnapshot(), cleanSnapshot()}}
	runner := newFakeRunner()
	runner.errs["mkfs.btrfs -f -d single -m single /dev/sdb"] = assert.AnError

	handler := NewHandler(refresher, &fakeUnmounter{}, runner, testSettings())

	_, err := handler.Format(context.Background(), ModeSingle, []string{"sdb"})
	require.ErrorIs(t, err, assert.AnError)

	assert.Equal(t, 2, refresher.calls, "cleanup refresh runs after a failed format")
}

// TestFormat_DeviceVanished verifies the post-format snapshot check.
func TestFormat_DeviceVanished(t *testing.T) {
	t.Parallel()

	refresher := &fakeRefresher{snaps: []*topology.Snapshot{
		cleanSnapshot(),
		{Blocks: []*topology.Block{}},
	}}

	handler := NewHandler(refresher, &fakeUnmounter{}, newFakeRunner(), testSettings())

	_, err := handler.Format(context.Background(), ModeSingle, []string{"sdb"})
	require.ErrorIs(t, err, ErrDeviceVanished)
}

// TestNormalizeTargets verifies deduplication and deterministic ordering.
func TestNormalizeTargets(t *testing.T) {
	t.Parallel()

	normalized, err := normalizeTargets([]string{"sdc", "sdb", "sdc", "sdb"})
	require.NoError(t, err)
	assert.Equal(t, []string{"sdb", "sdc"}, normalized)
}
