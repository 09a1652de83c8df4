package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/voidwatch/blockd/internal/output"
)

func newStatusCommand() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Probe the system and print the annotated topology",
		Long: "Probe the system's block devices and btrfs volumes, mount what is\n" +
			"mountable and print the resulting annotated topology snapshot.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := NewApp(configFile)

			snap, err := app.coordinator.Refresh(cmd.Context())
			if err != nil {
				return fmt.Errorf("refresh failed: %w", err)
			}

			if err := output.Render(os.Stdout, outputFormat, snap); err != nil {
				return fmt.Errorf("render failed: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o",
		output.FormatTable, "output format (table, json, yaml)")

	return cmd
}
