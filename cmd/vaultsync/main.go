// Package main provides the vaultsync CLI: one-shot sync, watch mode, and
// in-place vault normalisation.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-vaultsync/cmd/vaultsync/internal/bootstrap"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var moduleBuilder = bootstrap.BuildModule

type rootOptions struct {
	configPath string
	envFile    string
	sourceDir  string
	imagesDir  string
	contentDir string
	assetDir   string
	recursive  bool
	logLevel   string
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCommand(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand(out io.Writer) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "vaultsync",
		Short:         "Sync a Markdown vault into blog content",
		Long:          "vaultsync turns vault Markdown documents into normalised MDX documents with their images copied or downloaded next to them.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.envFile == "" {
				return nil
			}
			if err := godotenv.Load(opts.envFile); err != nil {
				return fmt.Errorf("load env file %s: %w", opts.envFile, err)
			}
			return nil
		},
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to config file (defaults to ./vaultsync.yaml when present)")
	flags.StringVar(&opts.envFile, "env-file", "", "Additional .env file to load before reading config")
	flags.StringVar(&opts.sourceDir, "source", "", "Vault directory containing .md documents")
	flags.StringVar(&opts.imagesDir, "images", "", "Vault images directory")
	flags.StringVar(&opts.contentDir, "content-dir", "", "Output directory for generated documents")
	flags.StringVar(&opts.assetDir, "asset-dir", "", "Output directory for copied and downloaded images")
	flags.BoolVarP(&opts.recursive, "recursive", "r", false, "Descend into vault subdirectories")
	flags.StringVar(&opts.logLevel, "log-level", "", "Minimum log level (trace, debug, info, warn, error)")

	root.AddCommand(newSyncCommand(opts), newWatchCommand(opts), newFixCommand(opts))
	return root
}

func (o *rootOptions) bootstrapOptions(cmd *cobra.Command) bootstrap.Options {
	opts := bootstrap.Options{
		ConfigPath: o.configPath,
		SourceDir:  o.sourceDir,
		ImagesDir:  o.imagesDir,
		ContentDir: o.contentDir,
		AssetDir:   o.assetDir,
		LogLevel:   o.logLevel,
	}
	if cmd.Flags().Changed("recursive") {
		recursive := o.recursive
		opts.Recursive = &recursive
	}
	return opts
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
