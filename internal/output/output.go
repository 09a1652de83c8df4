// Package output renders topology snapshots for the command line, as a
// human-readable table or as machine-readable JSON or YAML.
package output

import (
	"fmt"
	"io"

	"github.com/voidwatch/blockd/internal/topology"
)

// Supported output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Render writes a snapshot to the writer in the requested format.
func Render(w io.Writer, format string, snap *topology.Snapshot) error {
	switch format {
	case FormatTable:
		return renderTable(w, snap)
	case FormatJSON:
		return renderJSON(w, snap)
	case FormatYAML:
		return renderYAML(w, snap)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
