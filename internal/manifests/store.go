// Package manifests keeps the history of export manifests so consecutive
// runs can be compared.
package manifests

import (
	"context"
	"errors"
	"sort"

	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

// ErrNotFound is returned by Latest when no manifest has been saved.
var ErrNotFound = errors.New("manifests: no manifest stored")

// Store persists export manifests.
type Store interface {
	Save(ctx context.Context, manifest *interfaces.ExportManifest) error
	Latest(ctx context.Context) (*interfaces.ExportManifest, error)
	// List returns up to limit manifests, newest first. A limit <= 0 returns all.
	List(ctx context.Context, limit int) ([]*interfaces.ExportManifest, error)
}

// Diff lists the output paths that changed between two exports.
type Diff struct {
	Previous string   `json:"previous,omitempty"`
	Added    []string `json:"added,omitempty"`
	Changed  []string `json:"changed,omitempty"`
	Removed  []string `json:"removed,omitempty"`
}

// Empty reports whether the two exports produced identical files.
func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Changed) == 0 && len(d.Removed) == 0
}

// Compare diffs next against prev by file checksum. A nil prev reports every
// file of next as added.
func Compare(prev, next *interfaces.ExportManifest) Diff {
	var diff Diff
	before := map[string]string{}
	if prev != nil {
		diff.Previous = prev.ID
		for _, file := range prev.Files {
			before[file.Path] = file.Checksum
		}
	}
	after := map[string]string{}
	if next != nil {
		for _, file := range next.Files {
			after[file.Path] = file.Checksum
		}
	}

	for path, checksum := range after {
		old, ok := before[path]
		switch {
		case !ok:
			diff.Added = append(diff.Added, path)
		case old != checksum:
			diff.Changed = append(diff.Changed, path)
		}
	}
	for path := range before {
		if _, ok := after[path]; !ok {
			diff.Removed = append(diff.Removed, path)
		}
	}
	sort.Strings(diff.Added)
	sort.Strings(diff.Changed)
	sort.Strings(diff.Removed)
	return diff
}
