package packager

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"

	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

func sampleFiles() []interfaces.OutputFile {
	return []interfaces.OutputFile{
		{Path: "index.html", Content: []byte("<h1>home</h1>")},
		{Path: "blog/post.html", Content: []byte("<h1>post</h1>")},
		{Path: "assets/css/index.css", Content: []byte("body{margin:0}")},
	}
}

func TestDirectoryWritesNestedFiles(t *testing.T) {
	root := filepath.Join(t.TempDir(), "dist")
	if err := (&Directory{Root: root}).Package(context.Background(), sampleFiles()); err != nil {
		t.Fatalf("package: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(root, "blog", "post.html"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "<h1>post</h1>" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestDirectoryRejectsEscapingPaths(t *testing.T) {
	root := t.TempDir()
	files := []interfaces.OutputFile{{Path: "../evil.html", Content: []byte("x")}}
	if err := (&Directory{Root: root}).Package(context.Background(), files); err == nil {
		t.Fatal("expected escaping path to be rejected")
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(root), "evil.html")); err == nil {
		t.Fatal("expected nothing written outside the root")
	}
}

func TestDirectoryHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := (&Directory{Root: t.TempDir()}).Package(ctx, sampleFiles()); err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestZipRoundTrip(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "out", "site.zip")
	if err := (&Zip{Path: archive}).Package(context.Background(), sampleFiles()); err != nil {
		t.Fatalf("package: %v", err)
	}

	reader, err := zip.OpenReader(archive)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer reader.Close()

	if len(reader.File) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(reader.File))
	}
	entry := reader.File[1]
	if entry.Name != "blog/post.html" || entry.Method != zip.Deflate {
		t.Fatalf("unexpected entry %s method %d", entry.Name, entry.Method)
	}
	rc, err := entry.Open()
	if err != nil {
		t.Fatalf("open entry: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read entry: %v", err)
	}
	if string(data) != "<h1>post</h1>" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestZipIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.zip")
	second := filepath.Join(dir, "b.zip")
	for _, target := range []string{first, second} {
		if err := (&Zip{Path: target}).Package(context.Background(), sampleFiles()); err != nil {
			t.Fatalf("package: %v", err)
		}
	}
	a, _ := os.ReadFile(first)
	b, _ := os.ReadFile(second)
	if string(a) != string(b) {
		t.Fatal("expected identical archives for identical input")
	}
}

func TestZipFailureLeavesNoArchive(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "site.zip")
	files := append(sampleFiles(), interfaces.OutputFile{Path: "/abs.html"})
	if err := (&Zip{Path: archive}).Package(context.Background(), files); err == nil {
		t.Fatal("expected absolute path to be rejected")
	}
	if _, err := os.Stat(archive); !os.IsNotExist(err) {
		t.Fatalf("expected no archive, stat err %v", err)
	}
	entries, _ := os.ReadDir(filepath.Dir(archive))
	if len(entries) != 0 {
		t.Fatalf("expected temp file cleaned up, found %d entries", len(entries))
	}
}

func TestMultiStopsAtFirstFailure(t *testing.T) {
	dir := t.TempDir()
	calls := 0
	failing := packagerFunc(func(context.Context, []interfaces.OutputFile) error {
		calls++
		return os.ErrPermission
	})
	m := Multi{failing, &Directory{Root: filepath.Join(dir, "never")}}
	if err := m.Package(context.Background(), sampleFiles()); err == nil {
		t.Fatal("expected error")
	}
	if _, err := os.Stat(filepath.Join(dir, "never")); err == nil {
		t.Fatal("expected second packager to be skipped")
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

type packagerFunc func(context.Context, []interfaces.OutputFile) error

func (f packagerFunc) Package(ctx context.Context, files []interfaces.OutputFile) error {
	return f(ctx, files)
}
