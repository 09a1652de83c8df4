package probe

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/voidwatch/blockd/internal/topology"
)

// skippedBlockPrefixes are virtual device classes that never take part in
// the storage topology.
var skippedBlockPrefixes = []string{"loop", "ram", "zram"}

// Blocks probes every block device and partition from sysfs, enriched with
// the udev property database of each device.
func (h *Handler) Blocks(_ context.Context) ([]*topology.Block, error) {
	entries, err := h.osHandler.ReadDir(SysBlockDir)
	if err != nil {
		return nil, fmt.Errorf("(probe-blocks) failed to readdir %s: %w", SysBlockDir, err)
	}

	blocks := []*topology.Block{}

	for _, entry := range entries {
		name := entry.Name()
		if skipBlock(name) {
			continue
		}

		sysPath := h.resolveSysPath(name)

		disk, err := h.readBlock(name, sysPath)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, disk)

		parts, err := h.readPartitions(disk)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, parts...)
	}

	return blocks, nil
}

func skipBlock(name string) bool {
	for _, prefix := range skippedBlockPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}

	return false
}

// resolveSysPath dereferences the /sys/block symlink of a device into its
// canonical sysfs device path. Partition parents are later resolved by path
// containment within these canonical paths.
func (h *Handler) resolveSysPath(name string) string {
	linkPath := filepath.Join(SysBlockDir, name)

	target, err := h.osHandler.Readlink(linkPath)
	if err != nil {
		return linkPath
	}

	return filepath.Clean(filepath.Join(SysBlockDir, target))
}

// readBlock assembles one block from its sysfs directory and udev data.
func (h *Handler) readBlock(name, sysPath string) (*topology.Block, error) {
	block := &topology.Block{
		Name:    name,
		Device:  filepath.Join(DevDir, name),
		SysPath: sysPath,
	}

	if data, err := h.osHandler.ReadFile(filepath.Join(sysPath, "size")); err == nil {
		if sectors, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64); err == nil {
			block.Sectors = sectors
		}
	}

	if data, err := h.osHandler.ReadFile(filepath.Join(sysPath, "removable")); err == nil {
		block.Removable = strings.TrimSpace(string(data)) == "1"
	}

	majMinData, err := h.osHandler.ReadFile(filepath.Join(sysPath, "dev"))
	if err != nil {
		return nil, fmt.Errorf("(probe-blocks) failed to read dev numbers of %s: %w", name, err)
	}

	props, err := h.readUdevData(strings.TrimSpace(string(majMinData)))
	if err != nil {
		return nil, fmt.Errorf("(probe-blocks) failed to read udev data of %s: %w", name, err)
	}
	block.Properties = props

	return block, nil
}

// readPartitions collects the partition blocks nested under a disk's sysfs
// directory. A nested entry is a partition iff it carries a partition file.
func (h *Handler) readPartitions(disk *topology.Block) ([]*topology.Block, error) {
	entries, err := h.osHandler.ReadDir(disk.SysPath)
	if err != nil {
		return nil, fmt.Errorf("(probe-blocks) failed to readdir %s: %w", disk.SysPath, err)
	}

	parts := []*topology.Block{}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		partPath := filepath.Join(disk.SysPath, entry.Name())
		if _, err := h.osHandler.ReadFile(filepath.Join(partPath, "partition")); err != nil {
			continue
		}

		part, err := h.readBlock(entry.Name(), partPath)
		if err != nil {
			return nil, err
		}
		part.Removable = disk.Removable

		// The partition sysfs file is authoritative; a missing udev record
		// must not let the entry pass for a whole disk downstream.
		if part.Properties[topology.PropDevType] == "" {
			part.Properties[topology.PropDevType] = topology.DevTypePartition
		}

		parts = append(parts, part)
	}

	return parts, nil
}

// readUdevData parses the udev property database of one device
// (/run/udev/data/b<major>:<minor>). Property lines carry an E: prefix.
func (h *Handler) readUdevData(majMin string) (map[string]string, error) {
	data, err := h.osHandler.ReadFile(filepath.Join(UdevDataDir, "b"+majMin))
	if os.IsNotExist(err) {
		// Not yet processed by udev; the device still exists.
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}

	return parseUdevData(data), nil
}

func parseUdevData(data []byte) map[string]string {
	props := make(map[string]string)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "E:") {
			continue
		}

		key, value, found := strings.Cut(strings.TrimPrefix(line, "E:"), "=")
		if !found {
			continue
		}
		props[key] = value
	}

	return props
}
