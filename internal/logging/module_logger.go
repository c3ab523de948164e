package logging

import (
	"context"

	"github.com/goliatone/go-vaultsync/pkg/interfaces"
)

const (
	rootModule      = "vaultsync"
	markdownModule  = "vaultsync.markdown"
	fetcherModule   = "vaultsync.fetcher"
	generatorModule = "vaultsync.generator"
	syncerModule    = "vaultsync.syncer"
	vaultfixModule  = "vaultsync.vaultfix"
	watchModule     = "vaultsync.watch"
)

const (
	fieldSourcePath = "source"
	fieldSlug       = "slug"
	fieldRunID      = "run_id"
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

// MarkdownLogger returns the logger reserved for parsing and rewriting.
func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markdownModule)
}

// FetcherLogger returns the logger reserved for remote image downloads.
func FetcherLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, fetcherModule)
}

// GeneratorLogger returns the logger reserved for document emission.
func GeneratorLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, generatorModule)
}

// SyncerLogger returns the logger reserved for run orchestration.
func SyncerLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, syncerModule)
}

// VaultFixLogger returns the logger reserved for in-place vault rewrites.
func VaultFixLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, vaultfixModule)
}

// WatchLogger returns the logger reserved for the file watcher.
func WatchLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, watchModule)
}

// WithDocumentContext enriches logger with the source path and slug of the
// document being processed.
func WithDocumentContext(logger interfaces.Logger, source, slug string) interfaces.Logger {
	return WithFields(logger, map[string]any{fieldSourcePath: source, fieldSlug: slug})
}

// WithRunID tags logger with the identifier of the current sync run.
func WithRunID(logger interfaces.Logger, runID string) interfaces.Logger {
	return WithFields(logger, map[string]any{fieldRunID: runID})
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var (
	_ interfaces.Logger       = noopLogger{}
	_ interfaces.FieldsLogger = noopLogger{}
)

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
