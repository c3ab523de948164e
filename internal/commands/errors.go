package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to errors returned by vault command handlers.
const (
	CodeInvalidCommand = "VAULTSYNC_COMMAND_INVALID"
	CodeRunCanceled    = "VAULTSYNC_RUN_CANCELED"
	CodeRunTimedOut    = "VAULTSYNC_RUN_TIMED_OUT"
	CodeRunFailed      = "VAULTSYNC_RUN_FAILED"
)

// Messages that fail Validate never reach the pipeline, so they are reported
// as validation errors rather than run failures.
func wrapValidationError(err error) error {
	return tag(err, goerrors.CategoryValidation, "vault command rejected", CodeInvalidCommand)
}

// A canceled run is usually a watch run superseded by a newer change, or an
// interrupted CLI.
func wrapContextError(err error) error {
	if errors.Is(err, context.Canceled) {
		return tag(err, goerrors.CategoryCommand, "vault run canceled", CodeRunCanceled)
	}
	return tag(err, goerrors.CategoryCommand, "vault run exceeded its deadline", CodeRunTimedOut)
}

func wrapExecuteError(err error) error {
	return tag(err, goerrors.CategoryCommand, "vault run failed", CodeRunFailed)
}

func tag(err error, category goerrors.Category, message, code string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, category, message).WithTextCode(code)
}
