package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/allisson/envelope/cmd/app/commands"
	"github.com/allisson/envelope/internal/app"
	"github.com/allisson/envelope/internal/config"
)

// loadContainer loads and validates configuration and builds a container.
func loadContainer() (*app.Container, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return app.NewContainer(cfg), nil
}

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "provision",
			Usage: "Provision the content key (idempotent)",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := loadContainer()
				if err != nil {
					return err
				}
				defer func() { _ = container.Shutdown(ctx) }()

				provider, err := container.ContentKeyProvider()
				if err != nil {
					return err
				}

				return commands.RunProvision(ctx, provider, container.Logger(), cmd.Root().Writer)
			},
		},
		{
			Name:  "encrypt",
			Usage: "Encrypt text and print Base64(nonce || ciphertext || tag)",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "key-name",
					Aliases:  []string{"k"},
					Required: true,
					Usage:    "Name of the key to encrypt under",
				},
				&cli.StringFlag{
					Name:     "text",
					Aliases:  []string{"t"},
					Required: true,
					Usage:    "Plaintext to encrypt",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := loadContainer()
				if err != nil {
					return err
				}
				defer func() { _ = container.Shutdown(ctx) }()

				useCase, err := container.TextCipherUseCase()
				if err != nil {
					return err
				}

				return commands.RunEncrypt(
					ctx,
					useCase,
					container.Logger(),
					cmd.Root().Writer,
					cmd.String("key-name"),
					cmd.String("text"),
				)
			},
		},
		{
			Name:  "decrypt",
			Usage: "Decrypt a Base64 ciphertext produced by encrypt",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "key-name",
					Aliases:  []string{"k"},
					Required: true,
					Usage:    "Name of the key the text was encrypted under",
				},
				&cli.StringFlag{
					Name:     "ciphertext",
					Aliases:  []string{"c"},
					Required: true,
					Usage:    "Base64 ciphertext",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := loadContainer()
				if err != nil {
					return err
				}
				defer func() { _ = container.Shutdown(ctx) }()

				useCase, err := container.TextCipherUseCase()
				if err != nil {
					return err
				}

				return commands.RunDecrypt(
					ctx,
					useCase,
					container.Logger(),
					cmd.Root().Writer,
					cmd.String("key-name"),
					cmd.String("ciphertext"),
				)
			},
		},
	}
}
