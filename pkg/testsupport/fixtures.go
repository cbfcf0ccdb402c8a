package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// LoadFixture reads a file relative to the calling package.
func LoadFixture(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile creates path under dir with content and returns the full path.
func WriteFile(t testing.TB, dir, path, content string) string {
	t.Helper()
	full := filepath.Join(dir, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(full), err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", full, err)
	}
	return full
}
