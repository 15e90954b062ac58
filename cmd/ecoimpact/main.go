// Command ecoimpact estimates the environmental impact of marketplace
// products and serves the estimator over HTTP.
package main

import (
	"context"
	"os"

	"github.com/ecobazaarx/ecoimpact/internal/cli"
	"github.com/ecobazaarx/ecoimpact/pkg/version"
)

func main() {
	os.Exit(run())
}

// run executes the root command and returns the process exit code.
func run() int {
	root := cli.NewRootCmd(version.String())
	if err := root.ExecuteContext(context.Background()); err != nil {
		return 1
	}
	return 0
}
