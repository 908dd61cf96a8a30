package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/msharif/salat-cli-go/internal/cache"
	"github.com/msharif/salat-cli-go/internal/config"
	"github.com/msharif/salat-cli-go/internal/core"
	"github.com/msharif/salat-cli-go/internal/location"
	"github.com/msharif/salat-cli-go/internal/output"
	"github.com/msharif/salat-cli-go/internal/prayer"
	"github.com/msharif/salat-cli-go/internal/resolve"
)

func init() {
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(monthCmd)
	rootCmd.AddCommand(watchCmd)

	showCmd.Flags().BoolVarP(&forceRefresh, "force-refresh", "f", false, "Recompute the month even if the cache is fresh")
	showCmd.Flags().BoolVar(&raw, "raw", false, "Emit the resolution as JSON")
	monthCmd.Flags().BoolVarP(&forceRefresh, "force-refresh", "f", false, "Recompute the month even if the cache is fresh")
	monthCmd.Flags().BoolVar(&raw, "raw", false, "Emit the month record as JSON")
	watchCmd.Flags().String("cron", "", "Cron schedule for re-resolution (default from config)")
}

// showCmd resolves and renders today's and tomorrow's times.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show today's and tomorrow's prayer times",
	RunE:  handleShow,
}

// refreshCmd is the refresh button: show with a forced recomputation.
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Recompute the month and show today's times",
	RunE: func(cmd *cobra.Command, args []string) error {
		forceRefresh = true
		return handleShow(cmd, args)
	},
}

// monthCmd renders the whole cached (or recomputed) month.
var monthCmd = &cobra.Command{
	Use:   "month",
	Short: "Show the full month of prayer times",
	RunE:  handleMonth,
}

// app bundles everything a command needs to run a resolution.
type app struct {
	cfg      *config.Config
	resolver *resolve.Resolver
	source   location.Source
	loc      *time.Location
}

// buildApp loads config and assembles the resolver and location source.
func buildApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	settings, err := cfg.Settings()
	if err != nil {
		return nil, err
	}

	tzName := timezone
	if tzName == "" {
		tzName = cfg.Timezone
	}
	loc := core.GetTZ(tzName)

	store := cache.NewFilesystemStore(cfg.CacheDir)
	resolver := resolve.New(prayer.SolarCalculator{}, store, settings, loc)

	return &app{
		cfg:      cfg,
		resolver: resolver,
		source:   buildSource(cfg),
		loc:      loc,
	}, nil
}

// buildSource picks the location source: CLI flags win, then configured
// fixed coordinates, then IP geolocation when enabled.
func buildSource(cfg *config.Config) location.Source {
	if flagLat != 0 || flagLon != 0 {
		return location.StaticSource{Coords: prayer.Coordinates{Latitude: flagLat, Longitude: flagLon}}
	}
	if cfg.Coordinates != nil {
		return location.StaticSource{Coords: prayer.Coordinates{
			Latitude:  cfg.Coordinates.Latitude,
			Longitude: cfg.Coordinates.Longitude,
		}}
	}
	if !cfg.Geolocation.Enabled {
		return location.Disabled{}
	}
	client := location.NewClient(cfg.Geolocation.Endpoint, time.Duration(cfg.Geolocation.TimeoutSeconds)*time.Second)
	return location.NewHTTPSource(client)
}

// currentCoordinates asks the location source for a position. A location
// failure is a warning, not an error: the resolver's fallback path takes
// over with nil coordinates.
func (a *app) currentCoordinates(ctx context.Context) *prayer.Coordinates {
	coords, err := a.source.Current(ctx)
	if err != nil {
		var locErr *location.Error
		if errors.As(err, &locErr) {
			log.Warn().Stringer("reason", locErr.Kind).Msg("could not get location; trying cached times")
		} else {
			log.Warn().Err(err).Msg("could not get location; trying cached times")
		}
		return nil
	}
	log.Debug().Float64("lat", coords.Latitude).Float64("lon", coords.Longitude).Msg("location acquired")
	return &coords
}

func handleShow(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}

	coords := a.currentCoordinates(cmd.Context())
	res, err := a.resolver.Resolve(coords, forceRefresh)
	if err != nil {
		return fmt.Errorf("could not resolve prayer times: %w", err)
	}

	if raw {
		output.PrintJSON(res)
		return nil
	}
	output.PrintResult(os.Stdout, res, a.loc)
	return nil
}

func handleMonth(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}

	coords := a.currentCoordinates(cmd.Context())
	record, freshness, err := a.resolver.Month(coords, forceRefresh)
	if err != nil {
		return fmt.Errorf("could not resolve month: %w", err)
	}
	log.Debug().Str("freshness", string(freshness)).Msg("month resolved")

	if raw {
		output.PrintJSON(record)
		return nil
	}
	output.PrintMonth(os.Stdout, record, a.loc)
	return nil
}
