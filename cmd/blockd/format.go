package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/voidwatch/blockd/internal/format"
)

func newFormatCommand() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "format <disk>...",
		Short: "Format whole disks into a new btrfs volume",
		Long: "Format one or more whole disks into a single new btrfs volume,\n" +
			"unmounting anything in the way first. Disks holding the root\n" +
			"filesystem, active swap or extended partitions are refused.\n\n" +
			"Example:\n  blockd format --mode raid1 sdb sdc",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := NewApp(configFile)

			uuid, err := app.formatHandler.Format(cmd.Context(), mode, args)
			if err != nil {
				return fmt.Errorf("format failed: %w", err)
			}

			fmt.Printf("Formatted %d disk(s) into btrfs volume %s\n", len(args), uuid)

			return nil
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m",
		format.ModeSingle, "btrfs profile (single, raid0, raid1)")

	return cmd
}
