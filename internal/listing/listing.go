// Package listing provides a thin directory listing helper over the
// mountpoints managed by the engine.
package listing

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/sys/unix"
)

// Entry type tags.
const (
	TypeFile      = "file"
	TypeDirectory = "directory"
	TypeLink      = "link"
	TypeSocket    = "socket"
	TypeFifo      = "fifo"
	TypeChar      = "char"
	TypeBlock     = "block"
	TypeUnknown   = "unknown"
)

type osProvider interface {
	ReadDir(name string) ([]os.DirEntry, error)
}

type unixProvider interface {
	Lstat(path string, stat *unix.Stat_t) error
}

// Entry is one directory entry of a listing.
type Entry struct {
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Size      int64     `json:"size"`
	ChangedAt time.Time `json:"changedAt"`
}

// Handler is the principal implementation of the directory listing helper.
type Handler struct {
	osHandler   osProvider
	unixHandler unixProvider
}

// NewHandler returns a pointer to a new listing [Handler].
func NewHandler(osHandler osProvider, unixHandler unixProvider) *Handler {
	return &Handler{
		osHandler:   osHandler,
		unixHandler: unixHandler,
	}
}

// List returns the entries of a directory, sorted by name.
func (h *Handler) List(path string) ([]Entry, error) {
	dirEntries, err := h.osHandler.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("(listing) failed to readdir: %w", err)
	}

	entries := make([]Entry, 0, len(dirEntries))

	for _, dirEntry := range dirEntries {
		var stat unix.Stat_t
		if err := h.unixHandler.Lstat(filepath.Join(path, dirEntry.Name()), &stat); err != nil {
			return nil, fmt.Errorf("(listing) failed to lstat %s: %w", dirEntry.Name(), err)
		}

		entries = append(entries, Entry{
			Name:      dirEntry.Name(),
			Type:      typeTag(stat.Mode),
			Size:      stat.Size,
			ChangedAt: time.Unix(stat.Ctim.Sec, stat.Ctim.Nsec),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})

	return entries, nil
}

func typeTag(mode uint32) string {
	switch mode & unix.S_IFMT {
	case unix.S_IFREG:
		return TypeFile
	case unix.S_IFDIR:
		return TypeDirectory
	case unix.S_IFLNK:
		return TypeLink
	case unix.S_IFSOCK:
		return TypeSocket
	case unix.S_IFIFO:
		return TypeFifo
	case unix.S_IFCHR:
		return TypeChar
	case unix.S_IFBLK:
		return TypeBlock
	default:
		return TypeUnknown
	}
}
