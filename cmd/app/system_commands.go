package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/envelope/cmd/app/commands"
)

func getSystemCommands(version string) []*cli.Command {
	serve := &cli.Command{
		Name:  "server",
		Usage: "Serve the encrypt/decrypt API until interrupted",
		Action: func(ctx context.Context, _ *cli.Command) error {
			return commands.RunServer(ctx, version)
		},
	}

	migrate := &cli.Command{
		Name:  "migrate",
		Usage: "Create the blobs table used by the postgres and mysql blob stores",
		Action: func(ctx context.Context, _ *cli.Command) error {
			container, err := loadContainer()
			if err != nil {
				return err
			}
			defer func() { _ = container.Shutdown(ctx) }()

			cfg := container.Config()
			return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
		},
	}

	return []*cli.Command{serve, migrate}
}
