package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	blocksite "github.com/goliatone/go-blocksite"
)

// TypesCommand creates the types command
func TypesCommand() *cli.Command {
	return &cli.Command{
		Name:  "types",
		Usage: "List registered block types",
		Flags: []cli.Flag{
			configFlag(),
			logLevelFlag(),
			logFormatFlag(),
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			applyLoggingFlags(&cfg, c)
			cfg.Storage.Driver = blocksite.StorageNone

			module, err := blocksite.New(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize: %w", err)
			}
			defer module.Close()

			for _, name := range module.Types() {
				fmt.Fprintln(c.Root().Writer, name)
			}
			return nil
		},
	}
}
