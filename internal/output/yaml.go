package output

import (
	"fmt"
	"io"

	"github.com/voidwatch/blockd/internal/topology"
	"gopkg.in/yaml.v3"
)

func renderYAML(w io.Writer, snap *topology.Snapshot) error {
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()

	if err := encoder.Encode(snap); err != nil {
		return fmt.Errorf("(output-yaml) %w", err)
	}

	return nil
}
