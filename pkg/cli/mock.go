package cli

import (
	"errors"
	"fmt"

	"github.com/getmockd/transmock/pkg/beacon"
	"github.com/getmockd/transmock/pkg/cli/internal/output"
	"github.com/getmockd/transmock/pkg/message"
	"github.com/getmockd/transmock/pkg/transport"
	"github.com/spf13/cobra"
)

// MockOutput is the JSON form of a mock run.
type MockOutput struct {
	Outcome       string           `json:"outcome"`
	Port          string           `json:"port"`
	Address       string           `json:"address,omitempty"`
	TransportType string           `json:"transportType,omitempty"`
	Properties    []PropertyOutput `json:"properties"`
}

// PropertyOutput is one message context property; Value is a string or a bool.
type PropertyOutput struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

func newMockCmd(a *app) *cobra.Command {
	var (
		port     string
		ctxPath  string
		behavior string
		write    bool
	)

	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Run the transport adapter over a message context",
		Long: `Run the transport adapter for a dynamic send port and print the outcome
together with the resulting message context properties.

The context is a YAML file:

  properties:
    WCF.Action: http://example.org/Submit
    WCF.UseSSO: true
  payload: "<Order/>"

Nothing is rewritten unless a beacon is held on this host.`,
		Example: `  transmock mock --port DynamicPortOut --context msg.yaml
  transmock mock --port DynamicPortOut --context msg.yaml --write`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if write && ctxPath == "" {
				return errors.New("--write requires --context")
			}

			msg := message.NewContext()
			if ctxPath != "" {
				loaded, err := message.LoadContext(ctxPath)
				if err != nil {
					return err
				}
				msg = loaded
			}

			signal := beacon.New(append(a.cfg.BeaconOptions(), beacon.WithLogger(a.logger))...)
			adapter := transport.NewAdapter(signal, append(a.cfg.AdapterOptions(), transport.WithLogger(a.logger))...)

			res := adapter.MockDynamicSendPort(port, behavior, msg)
			if res.Outcome == transport.Failed {
				return fmt.Errorf("mocking %s: %w", port, res.Err)
			}

			if write && res.Mocked() {
				if err := message.SaveContext(ctxPath, msg); err != nil {
					return err
				}
			}

			out := MockOutput{
				Outcome:    res.Outcome.String(),
				Port:       port,
				Properties: propertiesOutput(msg),
			}
			if d, ok := res.Descriptor(); ok {
				out.Address = d.Address()
				out.TransportType = d.TransportType()
			}

			w := cmd.OutOrStdout()
			if a.jsonOutput {
				return output.JSON(w, out)
			}

			fmt.Fprintf(w, "outcome: %s\n", out.Outcome)
			if out.Address != "" {
				fmt.Fprintf(w, "address: %s\n", out.Address)
				fmt.Fprintf(w, "transport: %s\n", out.TransportType)
			}
			if len(out.Properties) == 0 {
				return nil
			}
			fmt.Fprintln(w)
			tw := output.Table(w)
			fmt.Fprintln(tw, "PROPERTY\tVALUE")
			for _, p := range msg.Properties() {
				fmt.Fprintf(tw, "%s\t%s\n", p.Name, p.Value)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Dynamic send port name (required)")
	cmd.Flags().StringVar(&ctxPath, "context", "", "YAML message context file")
	cmd.Flags().StringVar(&behavior, "behavior", "", "Custom endpoint behavior configuration")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write the rewritten context back to --context")
	_ = cmd.MarkFlagRequired("port")
	return cmd
}

func propertiesOutput(msg *message.Context) []PropertyOutput {
	props := msg.Properties()
	out := make([]PropertyOutput, 0, len(props))
	for _, p := range props {
		var v any = p.Value.Str()
		if p.Value.Kind() == message.KindBool {
			v = p.Value.Bool()
		}
		out = append(out, PropertyOutput{Name: p.Name, Value: v})
	}
	return out
}
