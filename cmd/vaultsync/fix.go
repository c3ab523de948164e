package main

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-vaultsync"
	"github.com/spf13/cobra"
)

func newFixCommand(root *rootOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "fix-frontmatter",
		Short: "Normalise vault documents in place",
		Long:  "Moves a leading heading into the title key, merges legacy metadata blocks, and renames date/summary to publicationDate/description. Originals are kept as .bak files.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var summary *vaultsync.FixResult
			opts := root.bootstrapOptions(cmd)
			opts.OnFix = func(res *vaultsync.FixResult) { summary = res }

			module, err := moduleBuilder(opts)
			if err != nil {
				return fmt.Errorf("bootstrap module: %w", err)
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			err = module.Module.FixHandler().Execute(ctx, vaultsync.FixVaultCommand{
				DryRun:  dryRun,
				Trigger: vaultsync.TriggerCLI,
			})

			out := cmd.OutOrStdout()
			if summary != nil {
				verb := "rewrote"
				if dryRun {
					verb = "would rewrite"
				}
				for _, path := range summary.Rewritten {
					fmt.Fprintf(out, "%s: %s\n", verb, path)
				}
				for _, failure := range summary.Errors {
					fmt.Fprintf(out, "error: %s: %v\n", failure.Source, failure.Err)
				}
				fmt.Fprintf(out, "fix complete: scanned=%d rewritten=%d unchanged=%d errors=%d\n",
					summary.Scanned, len(summary.Rewritten), summary.Unchanged, len(summary.Errors))
			}
			if err != nil {
				if errors.Is(err, vaultsync.ErrDocumentsFailed) {
					return err
				}
				return fmt.Errorf("execute fix command: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report documents that would change without writing them")
	return cmd
}
