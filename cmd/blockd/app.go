package main

import (
	"github.com/voidwatch/blockd/internal/configuration"
	"github.com/voidwatch/blockd/internal/coordinator"
	"github.com/voidwatch/blockd/internal/format"
	"github.com/voidwatch/blockd/internal/listing"
	"github.com/voidwatch/blockd/internal/mount"
	"github.com/voidwatch/blockd/internal/probe"
	"github.com/voidwatch/blockd/internal/schema"
)

// App bundles the application's wired handlers for use by the subcommands.
type App struct {
	settings *configuration.Settings

	probeHandler   *probe.Handler
	mountHandler   *mount.Handler
	coordinator    *coordinator.Coordinator
	formatHandler  *format.Handler
	listingHandler *listing.Handler
}

// NewApp wires all handlers against the real system providers, with the
// configuration read from the given file applied over the defaults.
func NewApp(configFile string) *App {
	osProvider := &schema.OS{}
	unixProvider := &schema.Unix{}
	execProvider := &schema.Exec{}
	configProvider := &configuration.GodotenvProvider{}

	configHandler := configuration.NewHandler(configProvider)
	settings := configHandler.LoadSettings(configFile)

	probeHandler := probe.NewHandler(osProvider, execProvider)
	mountHandler := mount.NewHandler(osProvider, execProvider, settings)
	coord := coordinator.New(probeHandler, mountHandler, settings)
	formatHandler := format.NewHandler(coord, mountHandler, execProvider, settings)
	listingHandler := listing.NewHandler(osProvider, unixProvider)

	return &App{
		settings:       settings,
		probeHandler:   probeHandler,
		mountHandler:   mountHandler,
		coordinator:    coord,
		formatHandler:  formatHandler,
		listingHandler: listingHandler,
	}
}
