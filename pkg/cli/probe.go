package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/getmockd/transmock/pkg/beacon"
	"github.com/getmockd/transmock/pkg/cli/internal/output"
	"github.com/spf13/cobra"
)

var errBeaconInactive = errors.New("beacon inactive")

// ProbeOutput is the JSON form of a probe result.
type ProbeOutput struct {
	Active   bool   `json:"active"`
	Endpoint string `json:"endpoint"`
}

func newProbeCmd(a *app) *cobra.Command {
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Report whether a beacon is held on this host",
		Long: `Probe the presence beacon and print "active" or "inactive".

The exit status is 0 when active and 1 when inactive. With --wait the probe
is retried with exponential backoff until a beacon appears or the wait ends.`,
		Example: `  transmock probe
  transmock probe --wait 5s --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b := beacon.New(append(a.cfg.BeaconOptions(), beacon.WithLogger(a.logger))...)

			active := b.IsActive()
			if !active && wait > 0 {
				active = a.waitForBeacon(cmd.Context(), b, wait)
			}

			out := cmd.OutOrStdout()
			if a.jsonOutput {
				if err := output.JSON(out, ProbeOutput{Active: active, Endpoint: b.Endpoint()}); err != nil {
					return err
				}
			} else if active {
				fmt.Fprintln(out, "active")
			} else {
				fmt.Fprintln(out, "inactive")
			}

			if !active {
				return &ExitError{Code: 1}
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&wait, "wait", 0, "Keep probing for up to this long")
	return cmd
}

func (a *app) waitForBeacon(ctx context.Context, b beacon.Signal, wait time.Duration) bool {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 20 * time.Millisecond
	bo.MaxInterval = 500 * time.Millisecond

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		if b.IsActive() {
			return struct{}{}, nil
		}
		return struct{}{}, errBeaconInactive
	},
		backoff.WithBackOff(bo),
		backoff.WithMaxElapsedTime(wait),
		backoff.WithNotify(func(_ error, next time.Duration) {
			a.logger.Debug("beacon not active yet", "retryIn", next)
		}),
	)
	return err == nil
}
