package manifests

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-blocksite/internal/identity"
	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type manifestRecord struct {
	bun.BaseModel `bun:"table:export_manifests,alias:em"`

	ID          uuid.UUID `bun:",pk,type:uuid"`
	ManifestID  string    `bun:"manifest_id,notnull,unique"`
	Site        string    `bun:"site,notnull"`
	Checksum    string    `bun:"checksum,notnull"`
	TotalSize   int64     `bun:"total_size,notnull"`
	FileCount   int       `bun:"file_count,notnull"`
	ErrorCount  int       `bun:"error_count,notnull"`
	GeneratedAt time.Time `bun:"generated_at,notnull"`
	Payload     string    `bun:"payload,type:text,notnull"`
}

func newManifestRepository(db *bun.DB) repository.Repository[*manifestRecord] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*manifestRecord]{
		NewRecord: func() *manifestRecord { return &manifestRecord{} },
		GetID: func(r *manifestRecord) uuid.UUID {
			return r.ID
		},
		SetID: func(r *manifestRecord, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "manifest_id"
		},
		GetIdentifierValue: func(r *manifestRecord) string {
			return r.ManifestID
		},
	})
}

// BunStore persists manifests in the export_manifests table.
type BunStore struct {
	db   *bun.DB
	repo repository.Repository[*manifestRecord]
}

// NewBunStore wraps db. Call EnsureSchema before first use.
func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{db: db, repo: newManifestRepository(db)}
}

// OpenDB opens a bun database for driver ("sqlite" or "postgres").
func OpenDB(driver, dsn string) (*bun.DB, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("manifests: dsn required")
	}
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverSQLite, "sqlite3":
		sqlDB, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("manifests: open sqlite: %w", err)
		}
		db := bun.NewDB(sqlDB, sqlitedialect.New())
		db.SetMaxOpenConns(1)
		return db, nil
	case DriverPostgres, "pg":
		sqlDB, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("manifests: open postgres: %w", err)
		}
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("manifests: unsupported driver %q", driver)
	}
}

// EnsureSchema creates the manifest table when missing.
func (s *BunStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().Model((*manifestRecord)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("manifests: create table: %w", err)
	}
	return nil
}

func (s *BunStore) Save(ctx context.Context, manifest *interfaces.ExportManifest) error {
	if manifest == nil {
		return nil
	}
	if strings.TrimSpace(manifest.ID) == "" {
		return fmt.Errorf("manifests: manifest id required")
	}
	payload, err := json.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("manifests: encode manifest: %w", err)
	}
	if _, err := s.repo.GetByIdentifier(ctx, manifest.ID); err == nil {
		return nil
	} else if !goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return fmt.Errorf("manifests: lookup %s: %w", manifest.ID, err)
	}
	record := &manifestRecord{
		ID:          identity.UUID("blocksite:manifest-record:" + manifest.ID),
		ManifestID:  manifest.ID,
		Site:        manifest.Site,
		Checksum:    manifest.Checksum,
		TotalSize:   manifest.TotalSize,
		FileCount:   len(manifest.Files),
		ErrorCount:  manifest.Report.ErrorCount,
		GeneratedAt: manifest.GeneratedAt.UTC(),
		Payload:     string(payload),
	}
	if _, err := s.repo.Create(ctx, record); err != nil {
		return fmt.Errorf("manifests: insert %s: %w", manifest.ID, err)
	}
	return nil
}

func (s *BunStore) Latest(ctx context.Context) (*interfaces.ExportManifest, error) {
	list, err := s.List(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrNotFound
	}
	return list[0], nil
}

func (s *BunStore) List(ctx context.Context, limit int) ([]*interfaces.ExportManifest, error) {
	newestFirst := repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.OrderExpr("?TableAlias.generated_at DESC")
	})
	var (
		records []*manifestRecord
		err     error
	)
	if limit > 0 {
		records, _, err = s.repo.List(ctx, newestFirst, repository.SelectPaginate(limit, 0))
	} else {
		records, _, err = s.repo.List(ctx, newestFirst)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("manifests: list: %w", err)
	}

	out := make([]*interfaces.ExportManifest, 0, len(records))
	for _, record := range records {
		var manifest interfaces.ExportManifest
		if err := json.Unmarshal([]byte(record.Payload), &manifest); err != nil {
			return nil, fmt.Errorf("manifests: decode %s: %w", record.ID, err)
		}
		out = append(out, &manifest)
	}
	return out, nil
}

var _ Store = (*BunStore)(nil)
