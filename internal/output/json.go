package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/voidwatch/blockd/internal/topology"
)

func renderJSON(w io.Writer, snap *topology.Snapshot) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(snap); err != nil {
		return fmt.Errorf("(output-json) %w", err)
	}

	return nil
}
