package interfaces

import "time"

// ReportEntry locates an error or warning raised during an export.
// Entries not attributable to a block leave BlockID and BlockType empty.
type ReportEntry struct {
	Page      string    `json:"page,omitempty"`
	BlockID   string    `json:"block_id,omitempty"`
	BlockType string    `json:"block_type,omitempty"`
	Kind      ErrorKind `json:"kind,omitempty"`
	Message   string    `json:"message"`
}

// Report aggregates every error and warning of an export run.
type Report struct {
	Errors       []ReportEntry `json:"errors"`
	Warnings     []ReportEntry `json:"warnings"`
	ErrorCount   int           `json:"error_count"`
	WarningCount int           `json:"warning_count"`
}

// ManifestPage summarises one exported page.
type ManifestPage struct {
	Slug     string `json:"slug"`
	Path     string `json:"path"`
	Blocks   int    `json:"blocks"`
	Errors   int    `json:"errors"`
	Warnings int    `json:"warnings"`
}

// ManifestFile describes one output file.
type ManifestFile struct {
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	Checksum string `json:"checksum"`
	MIMEType string `json:"mime_type"`
}

// ExportManifest is produced once per export run and never mutated
// afterwards. The next run supersedes it.
type ExportManifest struct {
	ID          string         `json:"id"`
	Version     int            `json:"version"`
	Site        string         `json:"site"`
	GeneratedAt time.Time      `json:"generated_at"`
	Pages       []ManifestPage `json:"pages"`
	Files       []ManifestFile `json:"files"`
	Assets      []Asset        `json:"assets"`
	TotalSize   int64          `json:"total_size"`
	Checksum    string         `json:"checksum"`
	Report      Report         `json:"report"`
}
