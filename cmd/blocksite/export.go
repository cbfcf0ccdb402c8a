package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v3"

	blocksite "github.com/goliatone/go-blocksite"
)

// ExportCommand creates the export command
func ExportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export a site definition as static files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "site",
				Usage:    "Site definition (site.toml, JSON, Markdown file or directory)",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "out",
				Usage: "Write the exported files to this directory",
			},
			&cli.StringFlag{
				Name:  "zip",
				Usage: "Write the exported files to this zip archive",
			},
			&cli.StringFlag{
				Name:  "assets",
				Usage: "Directory to copy referenced assets from",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Render and report without writing anything",
			},
			&cli.BoolFlag{
				Name:  "minify",
				Usage: "Minify HTML, CSS and JS output",
			},
			&cli.BoolFlag{
				Name:  "external-assets",
				Usage: "Write CSS and JS to assets/ instead of inlining them",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Output format (static or fragments)",
			},
			&cli.BoolFlag{
				Name:  "sitemap",
				Usage: "Generate sitemap.xml",
			},
			&cli.BoolFlag{
				Name:  "robots",
				Usage: "Generate robots.txt",
			},
			&cli.BoolFlag{
				Name:  "webmanifest",
				Usage: "Generate manifest.webmanifest",
			},
			&cli.BoolFlag{
				Name:  "manifest-file",
				Usage: "Write the export manifest as export-manifest.json",
			},
			&cli.StringFlag{
				Name:  "base-url",
				Usage: "Absolute URL prefix for sitemap and robots entries",
			},
			&cli.StringFlag{
				Name:  "theme-dir",
				Usage: "Directory holding a go-theme manifest",
			},
			&cli.StringFlag{
				Name:  "theme",
				Usage: "Theme name to select",
			},
			&cli.StringFlag{
				Name:  "variant",
				Usage: "Theme variant to select",
			},
			&cli.StringFlag{
				Name:  "history-db",
				Usage: "SQLite file keeping previous export manifests",
			},
			configFlag(),
			logLevelFlag(),
			logFormatFlag(),
		},
		Action: exportAction,
	}
}

func exportAction(ctx context.Context, c *cli.Command) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	applyExportFlags(&cfg, c)

	var opts []blocksite.Option
	if dir := c.String("assets"); dir != "" {
		opts = append(opts, blocksite.WithAssetSource(blocksite.DirAssetSource{Root: dir}))
	}
	module, err := blocksite.New(cfg, opts...)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer module.Close()

	site, err := module.LoadSite(ctx, c.String("site"))
	if err != nil {
		return fmt.Errorf("failed to load site: %w", err)
	}

	out := c.Root().Writer
	msg := blocksite.ExportSiteCommand{
		Site:      site,
		Options:   module.DefaultExportOptions(),
		OutputDir: c.String("out"),
		Archive:   c.String("zip"),
		DryRun:    c.Bool("dry-run"),
		ResultCallback: func(env blocksite.ExportEnvelope) {
			printSummary(out, env)
		},
	}
	return module.ExportHandler().Execute(ctx, msg)
}

func applyExportFlags(cfg *blocksite.Config, c *cli.Command) {
	applyLoggingFlags(cfg, c)

	if c.IsSet("minify") {
		cfg.Export.Minify = c.Bool("minify")
	}
	if c.Bool("external-assets") {
		cfg.Export.InlineCSS = false
		cfg.Export.InlineJS = false
	}
	if format := c.String("format"); format != "" {
		cfg.Export.Format = strings.ToLower(format)
	}
	if c.IsSet("sitemap") {
		cfg.Export.GenerateSitemap = c.Bool("sitemap")
	}
	if c.IsSet("robots") {
		cfg.Export.GenerateRobots = c.Bool("robots")
	}
	if c.IsSet("webmanifest") {
		cfg.Export.GenerateWebManifest = c.Bool("webmanifest")
	}
	if c.IsSet("manifest-file") {
		cfg.Export.WriteManifestFile = c.Bool("manifest-file")
	}
	if baseURL := c.String("base-url"); baseURL != "" {
		cfg.Export.BaseURL = baseURL
	}
	if dir := c.String("theme-dir"); dir != "" {
		cfg.Themes.Dir = dir
	}
	if theme := c.String("theme"); theme != "" {
		cfg.Themes.DefaultTheme = theme
	}
	if variant := c.String("variant"); variant != "" {
		cfg.Themes.DefaultVariant = variant
	}
	if db := c.String("history-db"); db != "" {
		cfg.Storage.Driver = blocksite.StorageSQLite
		cfg.Storage.DSN = db
	}
}

func printSummary(w io.Writer, env blocksite.ExportEnvelope) {
	result := env.Result
	if result == nil {
		return
	}
	var size int64
	for _, file := range result.Files {
		size += int64(len(file.Content))
	}
	status := "ok"
	if !result.Success {
		status = "failed"
	}
	fmt.Fprintf(w, "Export %s: %d files, %d bytes in %s\n", status, len(result.Files), size, result.Duration)
	for _, entry := range result.Errors {
		fmt.Fprintf(w, "  error   %s %s: %s\n", pageLabel(entry.Page), entry.BlockID, entry.Message)
	}
	for _, entry := range result.Warnings {
		fmt.Fprintf(w, "  warning %s %s\n", pageLabel(entry.Page), entry.Message)
	}
	if diff := result.Diff; diff != nil {
		fmt.Fprintf(w, "Changes since %s: %d added, %d changed, %d removed\n",
			diff.Previous, len(diff.Added), len(diff.Changed), len(diff.Removed))
	}
	if dir, _ := env.Metadata["output_dir"].(string); dir != "" {
		fmt.Fprintf(w, "Wrote %s\n", dir)
	}
	if archive, _ := env.Metadata["archive"].(string); archive != "" {
		fmt.Fprintf(w, "Wrote %s\n", archive)
	}
}

func pageLabel(page string) string {
	if page == "" {
		return "-"
	}
	return page
}
