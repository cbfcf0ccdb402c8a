package blocksite

import "github.com/goliatone/go-blocksite/internal/runtimeconfig"

// Config aggregates runtime settings for the module.
type Config = runtimeconfig.Config

type EngineConfig = runtimeconfig.EngineConfig

type CacheConfig = runtimeconfig.CacheConfig

type ExportConfig = runtimeconfig.ExportConfig

type StorageConfig = runtimeconfig.StorageConfig

type ThemeConfig = runtimeconfig.ThemeConfig

type LoggingConfig = runtimeconfig.LoggingConfig

// Duration decodes Go duration strings from TOML.
type Duration = runtimeconfig.Duration

// DefaultConfig returns the defaults used by New when no file is loaded.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a TOML configuration on top of the defaults. A missing
// file yields the defaults.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.LoadFile(path)
}

// History storage drivers.
const (
	StorageMemory   = runtimeconfig.StorageMemory
	StorageSQLite   = runtimeconfig.StorageSQLite
	StoragePostgres = runtimeconfig.StoragePostgres
	StorageNone     = runtimeconfig.StorageNone
)
