package vaultsync

import (
	"context"

	markdowncmd "github.com/goliatone/go-vaultsync/internal/commands/markdown"
	"github.com/goliatone/go-vaultsync/internal/di"
	"github.com/goliatone/go-vaultsync/pkg/interfaces"
)

// SyncResult exports the summary of a full sync run.
type SyncResult = interfaces.SyncResult

// SyncedDocument exports the per-document record of a sync run.
type SyncedDocument = interfaces.SyncedDocument

// SyncFailure exports a per-document sync error.
type SyncFailure = interfaces.SyncFailure

// FixOptions exports the vault normalisation options.
type FixOptions = interfaces.FixOptions

// FixResult exports the summary of a vault normalisation run.
type FixResult = interfaces.FixResult

// SyncVaultCommand exports the command message that triggers a sync.
type SyncVaultCommand = markdowncmd.SyncVaultCommand

// FixVaultCommand exports the command message that triggers a vault rewrite.
type FixVaultCommand = markdowncmd.FixVaultCommand

// ErrDocumentsFailed is returned by FixHandler when a run left some documents unfixed.
var ErrDocumentsFailed = markdowncmd.ErrDocumentsFailed

// Command triggers.
const (
	TriggerCLI    = markdowncmd.TriggerCLI
	TriggerWatch  = markdowncmd.TriggerWatch
	TriggerManual = markdowncmd.TriggerManual
	TriggerCron   = markdowncmd.TriggerCron
)

// Option customises module wiring.
type Option = di.Option

var (
	WithLoggerProvider = di.WithLoggerProvider
	WithHTTPClient     = di.WithHTTPClient
	WithClock          = di.WithClock
	WithSyncResult     = di.WithSyncResult
	WithFixResult      = di.WithFixResult
)

// Module represents the top level sync pipeline façade.
type Module struct {
	container *di.Container
}

// New constructs a Module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Config returns the validated configuration the module was built with.
func (m *Module) Config() Config {
	return m.container.Config
}

// Sync runs a full vault sync directly against the sync service.
func (m *Module) Sync(ctx context.Context) (*SyncResult, error) {
	return m.container.SyncService().Sync(ctx)
}

// Fix normalises vault documents in place.
func (m *Module) Fix(ctx context.Context, opts FixOptions) (*FixResult, error) {
	return m.container.FixService().Fix(ctx, opts)
}

// Watch syncs once and then on every vault change until ctx is done.
func (m *Module) Watch(ctx context.Context) error {
	return m.container.Watcher().Run(ctx)
}

// SyncHandler returns the command handler wrapping Sync.
func (m *Module) SyncHandler() *markdowncmd.SyncVaultHandler {
	return m.container.Handlers().Sync
}

// FixHandler returns the command handler wrapping Fix.
func (m *Module) FixHandler() *markdowncmd.FixVaultHandler {
	return m.container.Handlers().Fix
}

// Logger returns a logger from the module's provider.
func (m *Module) Logger(name string) interfaces.Logger {
	return m.container.LoggerProvider().GetLogger(name)
}
