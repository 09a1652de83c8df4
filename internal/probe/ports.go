package probe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/voidwatch/blockd/internal/topology"
)

// Ports probes the physical controller ports: SCSI host adapters and USB
// root hubs. A system without one of the subsystems yields an empty set for
// it, not a failure.
func (h *Handler) Ports(_ context.Context) ([]topology.Port, error) {
	ports := []topology.Port{}

	scsiHosts, err := h.osHandler.ReadDir(SysScsiHostDir)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("(probe-ports) failed to readdir %s: %w", SysScsiHostDir, err)
	}
	for _, entry := range scsiHosts {
		ports = append(ports, topology.Port{
			Path:      filepath.Join(SysScsiHostDir, entry.Name()),
			Subsystem: "scsi",
		})
	}

	usbDevices, err := h.osHandler.ReadDir(SysUSBDevicesDir)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("(probe-ports) failed to readdir %s: %w", SysUSBDevicesDir, err)
	}
	for _, entry := range usbDevices {
		// Root hubs only (usb1, usb2, ...); interfaces and leaf devices are
		// not controller ports.
		if !strings.HasPrefix(entry.Name(), "usb") {
			continue
		}
		ports = append(ports, topology.Port{
			Path:      filepath.Join(SysUSBDevicesDir, entry.Name()),
			Subsystem: "usb",
		})
	}

	return ports, nil
}
