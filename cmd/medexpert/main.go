// Command medexpert runs the AI Medical Expert symptom interview.
package main

import (
	"os"

	"github.com/custodia-labs/medexpert-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/medexpert-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}
