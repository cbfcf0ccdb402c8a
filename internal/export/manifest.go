package export

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"time"

	"github.com/goliatone/go-blocksite/internal/identity"
	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

const (
	manifestVersion  = 1
	manifestFileName = "export-manifest.json"
)

func fileChecksum(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// aggregateChecksum hashes path NUL content NUL for every file in path order,
// so the result does not depend on assembly order.
func aggregateChecksum(files []interfaces.OutputFile) string {
	ordered := make([]interfaces.OutputFile, len(files))
	copy(ordered, files)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Path < ordered[j].Path })

	h := sha256.New()
	for _, file := range ordered {
		h.Write([]byte(file.Path))
		h.Write([]byte{0})
		h.Write(file.Content)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func buildManifest(site string, generatedAt time.Time, pages []interfaces.ManifestPage, files []interfaces.OutputFile, assets []interfaces.Asset, report interfaces.Report) *interfaces.ExportManifest {
	manifest := &interfaces.ExportManifest{
		Version:     manifestVersion,
		Site:        site,
		GeneratedAt: generatedAt.UTC(),
		Pages:       append([]interfaces.ManifestPage{}, pages...),
		Files:       make([]interfaces.ManifestFile, 0, len(files)),
		Assets:      append([]interfaces.Asset{}, assets...),
		Report:      report,
	}
	for _, file := range files {
		manifest.Files = append(manifest.Files, interfaces.ManifestFile{
			Path:     file.Path,
			Size:     file.Size,
			Checksum: fileChecksum(file.Content),
			MIMEType: file.MIMEType,
		})
		manifest.TotalSize += file.Size
	}
	manifest.Checksum = aggregateChecksum(files)
	manifest.ID = identity.ManifestID(site, manifest.Checksum, manifest.GeneratedAt)
	return manifest
}
