package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newWatchCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Sync once, then resync whenever the vault changes",
		Long:  "Runs an initial sync and then watches the vault and images directories. Bursts of changes are debounced; a change during a run cancels it and starts a fresh one.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			module, err := moduleBuilder(root.bootstrapOptions(cmd))
			if err != nil {
				return fmt.Errorf("bootstrap module: %w", err)
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			module.Logger.Info("cli.watch.started", "source", module.Module.Config().Source.Dir)
			if err := module.Module.Watch(ctx); err != nil {
				return fmt.Errorf("watch vault: %w", err)
			}
			return nil
		},
	}
}
