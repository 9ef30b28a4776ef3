package main

import (
	"log/slog"
	"os"

	"github.com/andrewpaige1/lernkarten-api/cmd"
	"github.com/andrewpaige1/lernkarten-api/config"
)

func init() {
	// Load .env file if not in production environment
	if err := config.LoadDotEnv(); err != nil {
		slog.Debug("no .env file loaded", "err", err)
	}
}

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
