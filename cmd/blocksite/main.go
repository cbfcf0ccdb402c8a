package main

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:   "blocksite",
		Usage:  "Render content blocks and export static sites",
		Writer: out,
		Commands: []*cli.Command{
			ExportCommand(),
			TypesCommand(),
			VersionCommand(),
		},
	}
}
