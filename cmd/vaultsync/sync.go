package main

import (
	"fmt"

	"github.com/goliatone/go-vaultsync"
	"github.com/spf13/cobra"
)

func newSyncCommand(root *rootOptions) *cobra.Command {
	var failOnError bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Regenerate content and assets from the vault",
		Long:  "Wipes both output trees and regenerates one document and asset directory per vault document. Per-document failures are reported and counted without aborting the run.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var summary *vaultsync.SyncResult
			opts := root.bootstrapOptions(cmd)
			opts.OnSync = func(res *vaultsync.SyncResult) { summary = res }

			module, err := moduleBuilder(opts)
			if err != nil {
				return fmt.Errorf("bootstrap module: %w", err)
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			err = module.Module.SyncHandler().Execute(ctx, vaultsync.SyncVaultCommand{Trigger: vaultsync.TriggerCLI})
			out := cmd.OutOrStdout()
			if summary != nil {
				for _, failure := range summary.Failures {
					fmt.Fprintf(out, "error: %s: %v\n", failure.Source, failure.Err)
				}
				fmt.Fprintf(out, "sync complete: processed=%d errors=%d downloaded=%d\n",
					summary.Processed, summary.Errors, summary.Downloaded)
			}
			if err != nil {
				return fmt.Errorf("execute sync command: %w", err)
			}
			if failOnError && summary != nil && summary.Errors > 0 {
				return fmt.Errorf("%d document(s) failed", summary.Errors)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&failOnError, "fail-on-error", false, "Exit non-zero when any document fails")
	return cmd
}
