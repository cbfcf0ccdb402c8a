package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

const (
	rootModule     = "blocksite"
	engineModule   = "blocksite.engine"
	exportModule   = "blocksite.export"
	registryModule = "blocksite.registry"
	historyModule  = "blocksite.history"
	loaderModule   = "blocksite.sitedef"
	commandModule  = "blocksite.commands"
)

const (
	fieldPageSlug  = "page_slug"
	fieldBlockID   = "block_id"
	fieldBlockType = "block_type"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module identifier is
// attached as a structured field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// EngineLogger returns the logger namespace reserved for the render engine.
func EngineLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, engineModule)
}

// ExportLogger returns the logger namespace reserved for the export pipeline.
func ExportLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, exportModule)
}

// RegistryLogger returns the logger namespace reserved for renderer registration.
func RegistryLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, registryModule)
}

// HistoryLogger returns the logger namespace reserved for manifest history stores.
func HistoryLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, historyModule)
}

// LoaderLogger returns the logger namespace reserved for site definition loading.
func LoaderLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, loaderModule)
}

// CommandLogger returns a logger for command handlers of the named module,
// tagged so command executions can be filtered together.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	logger := ModuleLogger(provider, commandModule+"."+name)
	return WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": name,
	})
}

// WithBlockContext enriches the logger with the page slug, block id and
// block type. Empty values are ignored.
func WithBlockContext(logger interfaces.Logger, pageSlug, blockID, blockType string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(pageSlug); trimmed != "" {
		fields[fieldPageSlug] = trimmed
	}
	if trimmed := strings.TrimSpace(blockID); trimmed != "" {
		fields[fieldBlockID] = trimmed
	}
	if trimmed := strings.TrimSpace(blockType); trimmed != "" {
		fields[fieldBlockType] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
