package commands

import (
	"context"
	"errors"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-vaultsync/internal/logging"
	"github.com/goliatone/go-vaultsync/pkg/interfaces"
)

// TelemetryStatus is the outcome of one vault command execution.
type TelemetryStatus string

const (
	TelemetryStatusSuccess TelemetryStatus = "success"
	TelemetryStatusFailed  TelemetryStatus = "failed"
	// TelemetryStatusCanceled marks runs stopped by their caller, such as a
	// watch run replaced by a newer change.
	TelemetryStatusCanceled TelemetryStatus = "canceled"
	TelemetryStatusTimedOut TelemetryStatus = "timed_out"
)

// TelemetryInfo is handed to telemetry callbacks after each execution.
type TelemetryInfo struct {
	Command   string
	Operation string
	Fields    map[string]any
	Duration  time.Duration
	Error     error
	Status    TelemetryStatus
	Logger    interfaces.Logger
}

// Telemetry replaces the handler's own outcome logging.
type Telemetry[T command.Message] func(ctx context.Context, msg T, info TelemetryInfo)

// DefaultTelemetry logs the outcome with duration. Cancellation is logged as
// a warning since watch mode cancels superseded runs as a matter of course.
func DefaultTelemetry[T command.Message](logger interfaces.Logger) Telemetry[T] {
	if logger == nil {
		logger = logging.NoOp()
	}
	return func(_ context.Context, _ T, info TelemetryInfo) {
		logOutcome(logging.WithFields(logger, info.Fields), info, "duration_ms", info.Duration.Milliseconds())
	}
}

func logOutcome(logger interfaces.Logger, info TelemetryInfo, args ...any) {
	switch info.Status {
	case TelemetryStatusSuccess:
		logger.Info("command.execute.success", args...)
	case TelemetryStatusCanceled:
		logger.Warn("command.execute.canceled", append(args, "error", info.Error)...)
	case TelemetryStatusTimedOut:
		logger.Error("command.execute.timed_out", append(args, "error", info.Error)...)
	default:
		logger.Error("command.execute.failed", append(args, "error", info.Error)...)
	}
}

func contextStatus(err error) TelemetryStatus {
	if errors.Is(err, context.Canceled) {
		return TelemetryStatusCanceled
	}
	return TelemetryStatusTimedOut
}
