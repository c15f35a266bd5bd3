package cli

import (
	"fmt"

	"github.com/getmockd/transmock/pkg/cli/internal/output"
	"github.com/getmockd/transmock/pkg/config"
	"github.com/spf13/cobra"
)

func newConfigCmd(a *app) *cobra.Command {
	var (
		validate bool
		schema   bool
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Display the effective configuration",
		Long: `Display the configuration after defaults, ${VAR} expansion and
TRANSMOCK_* environment overrides have been applied.`,
		Example: `  transmock config
  transmock config --validate --config ci/transmock.yaml
  transmock config --schema`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			switch {
			case schema:
				_, err := w.Write(config.Schema())
				return err
			case validate:
				// Loading already validated it.
				fmt.Fprintln(w, "configuration is valid")
				return nil
			case a.jsonOutput:
				return output.JSON(w, a.cfg)
			}

			data, err := config.Marshal(a.cfg)
			if err != nil {
				return err
			}
			_, err = w.Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&validate, "validate", false, "Only check the configuration")
	cmd.Flags().BoolVar(&schema, "schema", false, "Print the configuration JSON Schema")
	return cmd
}
