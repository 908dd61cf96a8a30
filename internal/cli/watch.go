package cli

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/msharif/salat-cli-go/internal/output"
)

// watchCmd keeps the month cache warm by re-resolving on a schedule, so
// the times remain servable offline.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Periodically re-resolve so the cache stays fresh",
	RunE:  handleWatch,
}

func handleWatch(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}

	spec, _ := cmd.Flags().GetString("cron")
	if spec == "" {
		spec = a.cfg.RefreshCron
	}

	// A tick that starts while the previous one still runs is skipped:
	// only one resolution may be in flight.
	var inFlight atomic.Bool
	tick := func() {
		if !inFlight.CompareAndSwap(false, true) {
			log.Warn().Msg("previous resolution still running; skipping tick")
			return
		}
		defer inFlight.Store(false)

		coords := a.currentCoordinates(cmd.Context())
		res, err := a.resolver.Resolve(coords, false)
		if err != nil {
			log.Error().Err(err).Msg("scheduled resolution failed")
			return
		}
		output.PrintResult(os.Stdout, res, a.loc)
	}

	c := cron.New()
	if _, err := c.AddFunc(spec, tick); err != nil {
		return err
	}

	log.Info().Str("schedule", spec).Msg("watching")
	tick() // resolve once immediately
	c.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	<-c.Stop().Done()
	return nil
}
