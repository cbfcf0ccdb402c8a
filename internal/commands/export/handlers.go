// Package exportcmd exposes site export as a go-command handler.
package exportcmd

import (
	"context"
	"strings"

	"github.com/goliatone/go-blocksite/internal/commands"
	"github.com/goliatone/go-blocksite/internal/export"
	"github.com/goliatone/go-blocksite/internal/logging"
	"github.com/goliatone/go-blocksite/internal/packager"
	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

// Exporter is the export capability the handler drives.
type Exporter interface {
	ExportSite(ctx context.Context, site interfaces.Site, opts export.Options) (*export.Result, error)
}

// ExportSiteHandler runs exports through the shared command handler.
type ExportSiteHandler struct {
	inner *commands.Handler[ExportSiteCommand]
}

// NewExportSiteHandler constructs a handler around exporter. Output is
// written with packager.Directory and packager.Zip according to the message.
func NewExportSiteHandler(exporter Exporter, logger interfaces.Logger, opts ...commands.HandlerOption[ExportSiteCommand]) *ExportSiteHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg ExportSiteCommand) error {
		result, err := exporter.ExportSite(ctx, msg.Site, msg.Options)
		metadata := map[string]any{"operation": "export"}
		if err != nil || result == nil || !result.Success {
			invokeCallback(msg.ResultCallback, ResultEnvelope{Result: result, Metadata: metadata})
			return err
		}

		if !msg.DryRun {
			targets := packagersFor(msg)
			if err := targets.Package(ctx, result.Files); err != nil {
				invokeCallback(msg.ResultCallback, ResultEnvelope{Result: result, Metadata: metadata})
				return err
			}
			if dir := strings.TrimSpace(msg.OutputDir); dir != "" {
				metadata["output_dir"] = dir
			}
			if archive := strings.TrimSpace(msg.Archive); archive != "" {
				metadata["archive"] = archive
			}
		} else {
			metadata["dry_run"] = true
		}
		invokeCallback(msg.ResultCallback, ResultEnvelope{Result: result, Metadata: metadata})
		return nil
	}

	handlerOpts := []commands.HandlerOption[ExportSiteCommand]{
		commands.WithLogger[ExportSiteCommand](baseLogger),
		commands.WithOperation[ExportSiteCommand]("export.site"),
		commands.WithMessageFields(func(msg ExportSiteCommand) map[string]any {
			fields := map[string]any{
				"site":   msg.Site.Name,
				"pages":  len(msg.Site.Pages),
				"format": msg.Options.Format,
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			if msg.Archive != "" {
				fields["archive"] = msg.Archive
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ExportSiteCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ExportSiteHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ExportSiteCommand].
func (h *ExportSiteHandler) Execute(ctx context.Context, msg ExportSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}

func packagersFor(msg ExportSiteCommand) packager.Multi {
	var out packager.Multi
	if dir := strings.TrimSpace(msg.OutputDir); dir != "" {
		out = append(out, &packager.Directory{Root: dir})
	}
	if archive := strings.TrimSpace(msg.Archive); archive != "" {
		out = append(out, &packager.Zip{Path: archive})
	}
	return out
}

func invokeCallback(cb ResultCallback, envelope ResultEnvelope) {
	if cb != nil {
		cb(envelope)
	}
}
