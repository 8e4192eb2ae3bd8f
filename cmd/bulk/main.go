// Command bulk moves whole directories and file sets between the local
// filesystem and object storage.
package main

import (
	"os"

	"go.uber.org/zap"

	"github.com/cloudbulk/bulk/internal/cli"
)

func main() {
	cfg := cli.LoadConfig()
	logger := cli.NewLogger(cfg)
	defer func() { _ = logger.Sync() }()

	if err := cli.Execute(cfg, logger); err != nil {
		logger.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}
