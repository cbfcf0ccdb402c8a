package exportcmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-blocksite/internal/export"
	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

type fakeExporter struct {
	exportFunc func(ctx context.Context, site interfaces.Site, opts export.Options) (*export.Result, error)
	calls      int
}

func (f *fakeExporter) ExportSite(ctx context.Context, site interfaces.Site, opts export.Options) (*export.Result, error) {
	f.calls++
	if f.exportFunc != nil {
		return f.exportFunc(ctx, site, opts)
	}
	return &export.Result{Success: true, Files: []interfaces.OutputFile{
		{Path: "index.html", Content: []byte("<h1>home</h1>")},
		{Path: "about.html", Content: []byte("<h1>about</h1>")},
	}}, nil
}

func sampleSite() interfaces.Site {
	return interfaces.Site{Name: "Demo", Pages: []interfaces.Page{{Slug: "/"}, {Slug: "about"}}}
}

func TestExportSiteHandlerWritesDirectoryAndArchive(t *testing.T) {
	dir := t.TempDir()
	exporter := &fakeExporter{}
	handler := NewExportSiteHandler(exporter, nil)

	var envelope ResultEnvelope
	cmd := ExportSiteCommand{
		Site:           sampleSite(),
		Options:        export.DefaultOptions(),
		OutputDir:      filepath.Join(dir, "dist"),
		Archive:        filepath.Join(dir, "site.zip"),
		ResultCallback: func(env ResultEnvelope) { envelope = env },
	}
	if err := handler.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("execute: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "dist", "about.html"))
	if err != nil || string(data) != "<h1>about</h1>" {
		t.Fatalf("expected about.html written, got %q (%v)", data, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "site.zip")); err != nil {
		t.Fatalf("expected archive: %v", err)
	}
	if envelope.Result == nil || envelope.Metadata["operation"] != "export" || envelope.Metadata["archive"] == nil {
		t.Fatalf("unexpected envelope %+v", envelope)
	}
}

func TestExportSiteHandlerDryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	handler := NewExportSiteHandler(&fakeExporter{}, nil)
	called := false
	cmd := ExportSiteCommand{
		Site:    sampleSite(),
		Options: export.DefaultOptions(),
		DryRun:  true,
		ResultCallback: func(env ResultEnvelope) {
			called = true
			if env.Metadata["dry_run"] != true {
				t.Fatalf("expected dry_run metadata, got %v", env.Metadata)
			}
		},
	}
	if err := handler.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !called {
		t.Fatal("expected callback")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected no output, found %d entries", len(entries))
	}
}

func TestExportSiteCommandValidation(t *testing.T) {
	cases := map[string]ExportSiteCommand{
		"no pages":   {Site: interfaces.Site{Name: "x"}, Options: export.DefaultOptions(), DryRun: true},
		"no target":  {Site: sampleSite(), Options: export.DefaultOptions()},
		"bad format": {Site: sampleSite(), Options: export.Options{Format: "pdf"}, DryRun: true},
		"duplicate slugs": {
			Site:    interfaces.Site{Name: "x", Pages: []interfaces.Page{{Slug: "/"}, {Slug: "index"}}},
			Options: export.DefaultOptions(),
			DryRun:  true,
		},
	}
	for name, cmd := range cases {
		exporter := &fakeExporter{}
		err := NewExportSiteHandler(exporter, nil).Execute(context.Background(), cmd)
		if err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
		if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
			t.Fatalf("%s: expected validation category, got %v", name, err)
		}
		if exporter.calls != 0 {
			t.Fatalf("%s: expected exporter not to run", name)
		}
	}
}

func TestExportSiteHandlerSurfacesPipelineFault(t *testing.T) {
	dir := t.TempDir()
	exporter := &fakeExporter{exportFunc: func(context.Context, interfaces.Site, export.Options) (*export.Result, error) {
		return &export.Result{Success: false}, goerrors.Wrap(errors.New("layout broke"), goerrors.CategoryInternal, "export pipeline fault")
	}}
	var envelope ResultEnvelope
	cmd := ExportSiteCommand{
		Site:           sampleSite(),
		Options:        export.DefaultOptions(),
		OutputDir:      filepath.Join(dir, "dist"),
		ResultCallback: func(env ResultEnvelope) { envelope = env },
	}
	err := NewExportSiteHandler(exporter, nil).Execute(context.Background(), cmd)
	if !goerrors.IsCategory(err, goerrors.CategoryInternal) {
		t.Fatalf("expected internal category preserved, got %v", err)
	}
	if envelope.Result == nil || envelope.Result.Success {
		t.Fatalf("expected failed result in callback, got %+v", envelope.Result)
	}
	if _, err := os.Stat(filepath.Join(dir, "dist")); err == nil {
		t.Fatal("expected nothing packaged for a failed export")
	}
}

func TestExportSiteHandlerPackagingFailureIsCommandError(t *testing.T) {
	exporter := &fakeExporter{exportFunc: func(context.Context, interfaces.Site, export.Options) (*export.Result, error) {
		return &export.Result{Success: true, Files: []interfaces.OutputFile{{Path: "../escape.html"}}}, nil
	}}
	cmd := ExportSiteCommand{Site: sampleSite(), Options: export.DefaultOptions(), OutputDir: t.TempDir()}
	err := NewExportSiteHandler(exporter, nil).Execute(context.Background(), cmd)
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}
