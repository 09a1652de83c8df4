package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"github.com/voidwatch/blockd/internal/tui"
)

func newWatchCommand() *cobra.Command {
	var schedule string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the topology in an interactive interface",
		Long: "Continuously probe the system on the configured schedule and show\n" +
			"the live topology alongside program logs in an interactive interface.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := NewApp(configFile)

			if schedule == "" {
				schedule = app.settings.WatchSchedule
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			uiHandler := tui.NewHandler(ctx, cancel, func() {
				if _, err := app.coordinator.Refresh(context.Background()); err != nil {
					slog.Error("Refresh failed.",
						"err", err,
					)
				}
			})

			updates := app.coordinator.Subscribe()
			go func() {
				for {
					select {
					case <-ctx.Done():
						return
					case update := <-updates:
						if update.Err != nil {
							uiHandler.PushError(update.Err)
						} else {
							uiHandler.Push(update.Snapshot)
						}
					}
				}
			}()

			scheduler := cron.New()
			if _, err := scheduler.AddFunc(schedule, func() {
				if _, err := app.coordinator.Refresh(context.Background()); err != nil {
					slog.Error("Scheduled refresh failed.",
						"err", err,
					)
				}
			}); err != nil {
				return fmt.Errorf("invalid watch schedule %q: %w", schedule, err)
			}

			scheduler.Start()
			defer scheduler.Stop()

			go func() {
				if _, err := app.coordinator.Refresh(ctx); err != nil {
					slog.Error("Initial refresh failed.",
						"err", err,
					)
				}
			}()

			// Logs are routed into the interface while it runs.
			setupLogging(uiHandler.LogWriter, true)
			defer setupLogging(os.Stderr, false)

			if err := uiHandler.Launch(); err != nil {
				return fmt.Errorf("interface failed: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&schedule, "schedule", "s",
		"", "cron schedule for automatic refreshes (defaults to the configured one)")

	return cmd
}
