package markdowncmd

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	syncVaultMessageType = "vaultsync.markdown.sync_vault"
	fixVaultMessageType  = "vaultsync.markdown.fix_vault"
)

// Triggers recognised on SyncVaultCommand.
const (
	TriggerCLI    = "cli"
	TriggerWatch  = "watch"
	TriggerManual = "manual"
	TriggerCron   = "cron"
)

// SyncVaultCommand requests a full regeneration of the content and asset
// trees from the vault.
type SyncVaultCommand struct {
	// Trigger records what started the run; it is attached to log entries.
	Trigger string `json:"trigger,omitempty"`
}

// Type implements command.Message.
func (SyncVaultCommand) Type() string { return syncVaultMessageType }

// Validate ensures the trigger, when set, is a known one.
func (cmd SyncVaultCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Trigger, validation.In(TriggerCLI, TriggerWatch, TriggerManual, TriggerCron).
			Error("trigger must be one of cli, watch, manual, cron")),
	)
}

// FixVaultCommand rewrites vault documents in place into a single
// normalised metadata block.
type FixVaultCommand struct {
	// DryRun reports the documents that would change without writing.
	DryRun bool `json:"dry_run,omitempty"`
	// Trigger records what started the run.
	Trigger string `json:"trigger,omitempty"`
}

// Type implements command.Message.
func (FixVaultCommand) Type() string { return fixVaultMessageType }

// Validate ensures the trigger, when set, is a known one.
func (cmd FixVaultCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Trigger, validation.In(TriggerCLI, TriggerManual).
			Error("trigger must be one of cli, manual")),
	)
}
