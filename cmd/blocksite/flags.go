package main

import (
	"github.com/urfave/cli/v3"

	blocksite "github.com/goliatone/go-blocksite"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "config",
		Usage: "Configuration file path",
	}
}

func logLevelFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "log-level",
		Usage: "Log level (trace, debug, info, warn, error)",
	}
}

func logFormatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "log-format",
		Usage: "Log format (console, json, pretty)",
	}
}

func loadConfig(c *cli.Command) (blocksite.Config, error) {
	return blocksite.LoadConfig(c.String("config"))
}

func applyLoggingFlags(cfg *blocksite.Config, c *cli.Command) {
	if level := c.String("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	if format := c.String("log-format"); format != "" {
		cfg.Logging.Format = format
	}
}
