package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/voidwatch/blockd/internal/configuration"
)

const (
	stackTraceBufMax = 1 << 24
)

//nolint:gochecknoglobals
var (
	ExitCode = 0
	Version  = "dev"

	configFile string
)

func setupLogging(w io.Writer, noColor bool) {
	slog.SetDefault(slog.New(
		tint.NewHandler(w, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			NoColor:    noColor,
		}),
	))
}

func setupSignalHandlers(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		<-sigChan
		cancel()
	}()

	sigChan2 := make(chan os.Signal, 1)
	signal.Notify(sigChan2, syscall.SIGUSR1)
	go func() {
		for range sigChan2 {
			buf := make([]byte, stackTraceBufMax)
			stacklen := runtime.Stack(buf, true)
			os.Stderr.Write(buf[:stacklen])
		}
	}()
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "blockd",
		Short:         "blockd probes, mounts and formats btrfs-centric storage",
		Long:          "blockd derives a consistent model of the system's block devices and\nbtrfs volumes, mounts what is mountable and formats what is safe to format.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configFile, "config",
		configuration.DefaultConfigFile, "configuration file to read")

	root.AddCommand(
		newStatusCommand(),
		newRefreshCommand(),
		newFormatCommand(),
		newLsCommand(),
		newWatchCommand(),
	)

	return root
}

func main() {
	defer func() {
		os.Exit(ExitCode)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	setupLogging(os.Stderr, false)
	setupSignalHandlers(cancel)

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		slog.Error("Command failed.",
			"err", err,
		)

		ExitCode = 1
	}
}
