// transmock CLI - holds the presence beacon and drives the mock transport adapter
package main

import (
	"os"

	"github.com/getmockd/transmock/pkg/cli"
)

// Build-time variables set via ldflags
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	cli.Version = Version
	cli.Commit = Commit
	cli.BuildDate = BuildDate
	os.Exit(cli.Main())
}
