package markdowncmd

import (
	"context"
	"errors"
	"strings"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-vaultsync/internal/commands"
	"github.com/goliatone/go-vaultsync/internal/logging"
	"github.com/goliatone/go-vaultsync/pkg/interfaces"
)

const (
	syncOperation = "markdown.sync_vault"
	fixOperation  = "markdown.fix_vault"
)

var (
	_ command.Commander[SyncVaultCommand] = (*SyncVaultHandler)(nil)
	_ command.Commander[FixVaultCommand]  = (*FixVaultHandler)(nil)
)

// ErrDocumentsFailed is returned when a run completed but some documents failed.
var ErrDocumentsFailed = errors.New("markdown command: some documents failed")

// SyncVaultHandler runs vault syncs via the shared command handler foundation.
// With a cron expression configured it also satisfies command.CronCommand.
type SyncVaultHandler struct {
	inner      *commands.Handler[SyncVaultCommand]
	cronConfig command.HandlerConfig
}

// NewSyncVaultHandler creates a handler bound to the supplied sync service.
// onResult, when set, receives the run summary.
func NewSyncVaultHandler(service interfaces.SyncService, logger interfaces.Logger, onResult func(*interfaces.SyncResult), opts ...commands.HandlerOption[SyncVaultCommand]) *SyncVaultHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg SyncVaultCommand) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		result, err := service.Sync(ctx)
		if result != nil {
			logging.WithFields(baseLogger, map[string]any{
				"run_id":           result.RunID.String(),
				"processed_count":  result.Processed,
				"error_count":      result.Errors,
				"downloaded_count": result.Downloaded,
				"trigger":          msg.Trigger,
			}).Info("markdown.command.sync_vault.completed")
			if onResult != nil {
				onResult(result)
			}
		}
		return err
	}

	handlerOpts := []commands.HandlerOption[SyncVaultCommand]{
		commands.WithLogger[SyncVaultCommand](baseLogger),
		commands.WithOperation[SyncVaultCommand](syncOperation),
		commands.WithTimeout[SyncVaultCommand](0),
		commands.WithMessageFields(func(msg SyncVaultCommand) map[string]any {
			fields := map[string]any{}
			if msg.Trigger != "" {
				fields["trigger"] = msg.Trigger
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[SyncVaultCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SyncVaultHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[SyncVaultCommand].
func (h *SyncVaultHandler) Execute(ctx context.Context, msg SyncVaultCommand) error {
	return h.inner.Execute(ctx, msg)
}

// CronHandler satisfies command.CronCommand by running a sync per tick.
func (h *SyncVaultHandler) CronHandler() func() error {
	return func() error {
		return h.Execute(context.Background(), SyncVaultCommand{Trigger: TriggerCron})
	}
}

// CronOptions satisfies command.CronCommand by returning the configured cron metadata.
func (h *SyncVaultHandler) CronOptions() command.HandlerConfig {
	return h.cronConfig
}

// Scheduled reports whether a cron expression was configured.
func (h *SyncVaultHandler) Scheduled() bool {
	return strings.TrimSpace(h.cronConfig.Expression) != ""
}

// FixVaultHandler runs in-place vault rewrites via the shared command handler foundation.
type FixVaultHandler struct {
	inner *commands.Handler[FixVaultCommand]
}

// NewFixVaultHandler creates a handler bound to the supplied fix service.
func NewFixVaultHandler(service interfaces.FixService, logger interfaces.Logger, onResult func(*interfaces.FixResult), opts ...commands.HandlerOption[FixVaultCommand]) *FixVaultHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg FixVaultCommand) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		result, err := service.Fix(ctx, interfaces.FixOptions{DryRun: msg.DryRun})
		if err != nil {
			return err
		}
		if result != nil {
			logging.WithFields(baseLogger, map[string]any{
				"scanned_count":   result.Scanned,
				"rewritten_count": len(result.Rewritten),
				"unchanged_count": result.Unchanged,
				"error_count":     len(result.Errors),
				"dry_run":         msg.DryRun,
			}).Info("markdown.command.fix_vault.completed")
			if onResult != nil {
				onResult(result)
			}
			if len(result.Errors) > 0 {
				return ErrDocumentsFailed
			}
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[FixVaultCommand]{
		commands.WithLogger[FixVaultCommand](baseLogger),
		commands.WithOperation[FixVaultCommand](fixOperation),
		commands.WithTimeout[FixVaultCommand](0),
		commands.WithMessageFields(func(msg FixVaultCommand) map[string]any {
			fields := map[string]any{}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			if msg.Trigger != "" {
				fields["trigger"] = msg.Trigger
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[FixVaultCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &FixVaultHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[FixVaultCommand].
func (h *FixVaultHandler) Execute(ctx context.Context, msg FixVaultCommand) error {
	return h.inner.Execute(ctx, msg)
}
