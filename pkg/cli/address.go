package cli

import (
	"fmt"

	"github.com/getmockd/transmock/pkg/cli/internal/output"
	"github.com/getmockd/transmock/pkg/endpoint"
	"github.com/spf13/cobra"
)

// AddressOutput is the JSON form of a mock address.
type AddressOutput struct {
	Address string `json:"address"`
	Host    string `json:"host"`
	Name    string `json:"name"`
}

func newAddressCmd(a *app) *cobra.Command {
	var host string

	cmd := &cobra.Command{
		Use:   "address NAME",
		Short: "Print the mock address of a logical port name",
		Example: `  transmock address DynamicPortOut
  transmock address --host mocks.local DynamicPortOut`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if host == "" {
				host = a.cfg.Mock.Host
			}
			addr := endpoint.New(host, args[0])
			if err := addr.Validate(); err != nil {
				return err
			}

			if a.jsonOutput {
				return output.JSON(cmd.OutOrStdout(), AddressOutput{Address: addr.String(), Host: addr.Host, Name: addr.Name})
			}
			fmt.Fprintln(cmd.OutOrStdout(), addr.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Mock host (default: mock.host from config)")
	return cmd
}
