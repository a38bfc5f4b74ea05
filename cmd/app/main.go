// Package main provides the entry point for the envelope CLI.
package main

import (
	"context"
	"log/slog"
	"os"
	"slices"

	"github.com/urfave/cli/v3"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cmd := &cli.Command{
		Name:     "envelope",
		Usage:    "Envelope encryption of text under a hardware-protected content key",
		Version:  version,
		Writer:   os.Stdout,
		Commands: slices.Concat(getSystemCommands(version), getKeyCommands()),
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
