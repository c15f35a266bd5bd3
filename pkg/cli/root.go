package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/getmockd/transmock/pkg/config"
	"github.com/getmockd/transmock/pkg/logging"
	"github.com/spf13/cobra"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// ExitError ends a command with a status code and no further message.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// app carries what the persistent flags resolve to.
type app struct {
	configPath string
	logLevel   string
	logFormat  string
	jsonOutput bool

	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCommand builds the transmock command tree.
func NewRootCommand() *cobra.Command {
	a := &app{logger: logging.Nop()}

	root := &cobra.Command{
		Use:   "transmock",
		Short: "transmock redirects dynamic send ports to mock endpoints during tests",
		Long: `transmock lets a test run announce itself to production code on the same host.

While a beacon is held, the transport adapter rewrites outbound messages so
they target mock://<host>/<port> instead of the live transport.

Configuration is read from transmock.yaml in the working directory, the file
named by TRANSMOCK_CONFIG, or --config.`,
		SilenceUsage:  true,
		SilenceErrors: true, // Run prints errors
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to transmock.yaml")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "Log format (text, json)")
	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "Output command results in JSON format")

	root.AddCommand(
		newBeaconCmd(a),
		newProbeCmd(a),
		newMockCmd(a),
		newAddressCmd(a),
		newConfigCmd(a),
		newVersionCmd(a),
	)
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Logging.Format = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = cfg.LoggerTo(cmd.ErrOrStderr())
	return nil
}

// Run executes the command line args and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		var exit *ExitError
		if errors.As(err, &exit) {
			return exit.Code
		}
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

// Main runs transmock with the process arguments.
func Main() int {
	return Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}
