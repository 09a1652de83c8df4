package probe

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPorts_Success verifies controller port discovery: SCSI hosts plus USB
// root hubs, with leaf USB devices excluded.
func TestPorts_Success(t *testing.T) {
	t.Parallel()

	fos := newFakeOS()
	fos.dirs[SysScsiHostDir] = []os.DirEntry{
		fakeDirEntry{name: "host0"},
		fakeDirEntry{name: "host1"},
	}
	fos.dirs[SysUSBDevicesDir] = []os.DirEntry{
		fakeDirEntry{name: "usb1"},
		fakeDirEntry{name: "usb2"},
		fakeDirEntry{name: "1-1"},
		fakeDirEntry{name: "1-1:1.0"},
	}

	handler := NewHandler(fos, newFakeRunner())

	ports, err := handler.Ports(context.Background())
	require.NoError(t, err)
	require.Len(t, ports, 4)

	assert.Equal(t, SysScsiHostDir+"/host0", ports[0].Path)
	assert.Equal(t, "scsi", ports[0].Subsystem)
	assert.Equal(t, SysUSBDevicesDir+"/usb1", ports[2].Path)
	assert.Equal(t, "usb", ports[2].Subsystem)
}

// TestPorts_MissingSubsystems verifies that absent subsystem directories
// yield an empty set rather than a failure.
func TestPorts_MissingSubsystems(t *testing.T) {
	t.Parallel()

	handler := NewHandler(newFakeOS(), newFakeRunner())

	ports, err := handler.Ports(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ports)
}
