package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getmockd/transmock/pkg/beacon"
	"github.com/getmockd/transmock/pkg/cli/internal/output"
	"github.com/spf13/cobra"
)

// BeaconOutput is the JSON form of a started beacon.
type BeaconOutput struct {
	Endpoint string `json:"endpoint"`
	Session  string `json:"session"`
}

func newBeaconCmd(a *app) *cobra.Command {
	var hold time.Duration

	cmd := &cobra.Command{
		Use:   "beacon",
		Short: "Hold the presence beacon so mock transports activate",
		Long: `Hold the presence beacon until interrupted.

While the beacon is held every process on this host that probes it sees an
active test run, and the transport adapter redirects its messages to mock
endpoints. Only one beacon can be held per host.`,
		Example: `  transmock beacon
  transmock beacon --for 10m`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if hold > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, hold)
				defer cancel()
			}

			b := beacon.New(append(a.cfg.BeaconOptions(), beacon.WithLogger(a.logger))...)
			if err := b.Start(); err != nil {
				return fmt.Errorf("starting beacon: %w", err)
			}

			out := cmd.OutOrStdout()
			if a.jsonOutput {
				if err := output.JSON(out, BeaconOutput{Endpoint: b.Endpoint(), Session: b.Session()}); err != nil {
					_ = b.Stop()
					return err
				}
			} else {
				fmt.Fprintf(out, "beacon active at %s (session %s)\n", b.Endpoint(), b.Session())
			}

			<-ctx.Done()
			return b.Stop()
		},
	}

	cmd.Flags().DurationVar(&hold, "for", 0, "Release the beacon after this long (default: until interrupted)")
	return cmd
}
