package markdowncmd

import (
	"errors"
	"strings"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-vaultsync/internal/commands"
	"github.com/goliatone/go-vaultsync/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// HandlerSet groups the vault command handlers produced by RegisterVaultCommands.
type HandlerSet struct {
	Sync *SyncVaultHandler
	Fix  *FixVaultHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	syncHandlerOpts []commands.HandlerOption[SyncVaultCommand]
	fixHandlerOpts  []commands.HandlerOption[FixVaultCommand]
	onSync          func(*interfaces.SyncResult)
	onFix           func(*interfaces.FixResult)
	syncCron        string
}

// WithSyncCron schedules the sync handler with the given cron expression.
func WithSyncCron(expression string) Option {
	return func(cfg *options) {
		cfg.syncCron = strings.TrimSpace(expression)
	}
}

// WithSyncHandlerOptions forwards options to the SyncVaultHandler constructor.
func WithSyncHandlerOptions(opts ...commands.HandlerOption[SyncVaultCommand]) Option {
	return func(cfg *options) {
		cfg.syncHandlerOpts = append(cfg.syncHandlerOpts, opts...)
	}
}

// WithFixHandlerOptions forwards options to the FixVaultHandler constructor.
func WithFixHandlerOptions(opts ...commands.HandlerOption[FixVaultCommand]) Option {
	return func(cfg *options) {
		cfg.fixHandlerOpts = append(cfg.fixHandlerOpts, opts...)
	}
}

// WithSyncResult registers a callback receiving every sync summary.
func WithSyncResult(fn func(*interfaces.SyncResult)) Option {
	return func(cfg *options) {
		cfg.onSync = fn
	}
}

// WithFixResult registers a callback receiving every fix summary.
func WithFixResult(fn func(*interfaces.FixResult)) Option {
	return func(cfg *options) {
		cfg.onFix = fn
	}
}

// RegisterVaultCommands builds the vault command handlers and registers them with the provided
// registry. A nil registry only builds the handlers.
func RegisterVaultCommands(reg CommandRegistry, syncService interfaces.SyncService, fixService interfaces.FixService, provider interfaces.LoggerProvider, opts ...Option) (*HandlerSet, error) {
	if syncService == nil || fixService == nil {
		return nil, errors.New("vault command registration: service is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "markdown")

	syncHandler := NewSyncVaultHandler(syncService, logger, cfg.onSync, cfg.syncHandlerOpts...)
	syncHandler.cronConfig = command.HandlerConfig{Expression: cfg.syncCron}
	fixHandler := NewFixVaultHandler(fixService, logger, cfg.onFix, cfg.fixHandlerOpts...)

	if reg != nil {
		if err := reg.RegisterCommand(syncHandler); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(fixHandler); err != nil {
			return nil, err
		}
	}

	return &HandlerSet{
		Sync: syncHandler,
		Fix:  fixHandler,
	}, nil
}
