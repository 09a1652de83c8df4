package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/voidwatch/blockd/internal/listing"
)

func newLsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ls <path>",
		Short: "List the contents of a directory",
		Long: "List the contents of a directory, such as a managed mountpoint,\n" +
			"with file types, sizes and change times.",
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			app := NewApp(configFile)

			entries, err := app.listingHandler.List(args[0])
			if err != nil {
				return fmt.Errorf("listing failed: %w", err)
			}

			tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "TYPE\tNAME\tSIZE\tCHANGED")

			for _, e := range entries {
				size := "-"
				if e.Type == listing.TypeFile {
					size = humanize.Bytes(uint64(e.Size))
				}

				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					e.Type, e.Name, size, humanize.Time(e.ChangedAt))
			}

			if err := tw.Flush(); err != nil {
				return fmt.Errorf("listing failed: %w", err)
			}

			return nil
		},
	}
}
