package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/handiism/bandcamp-sync/internal/logging"
)

func main() {
	logger := logging.New(os.Stderr, false)

	runner := NewRunner(RunnerOpts{Logger: logger})

	app := &cli.Command{
		Name:     "bandcamp-sync",
		Usage:    "Mirror your Bandcamp collection to a local folder",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
