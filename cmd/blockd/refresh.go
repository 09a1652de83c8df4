package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

func newRefreshCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Probe the system and mount everything mountable",
		Long: "Run one full probe and mount cycle without printing the topology.\n" +
			"Useful from scripts and timers that only want the mounting side effects.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := NewApp(configFile)

			snap, err := app.coordinator.Refresh(cmd.Context())
			if err != nil {
				return fmt.Errorf("refresh failed: %w", err)
			}

			slog.Info("Refresh complete.",
				"blocks", len(snap.Blocks),
				"volumes", len(snap.Volumes),
				"ports", len(snap.Ports),
			)

			return nil
		},
	}
}
