package bootstrap

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-vaultsync"
	"github.com/goliatone/go-vaultsync/internal/logging"
	"github.com/goliatone/go-vaultsync/pkg/interfaces"
)

// Options captures configuration for CLI bootstraps. Non-empty fields
// override the values loaded from the config file.
type Options struct {
	ConfigPath string
	SourceDir  string
	ImagesDir  string
	ContentDir string
	AssetDir   string
	Recursive  *bool
	LogLevel   string

	LoggerProvider interfaces.LoggerProvider
	HTTPClient     *http.Client
	OnSync         func(*interfaces.SyncResult)
	OnFix          func(*interfaces.FixResult)
}

// Module wraps the vaultsync module and the CLI logger.
type Module struct {
	Module     *vaultsync.Module
	Logger     interfaces.Logger
	ConfigFile string
}

// BuildModule loads configuration, applies overrides, and constructs the module.
func BuildModule(opts Options) (*Module, error) {
	cfg, used, err := vaultsync.LoadConfig(strings.TrimSpace(opts.ConfigPath))
	if err != nil {
		return nil, err
	}
	applyOverrides(&cfg, opts)

	moduleOpts := []vaultsync.Option{
		vaultsync.WithSyncResult(opts.OnSync),
		vaultsync.WithFixResult(opts.OnFix),
	}
	if opts.LoggerProvider != nil {
		moduleOpts = append(moduleOpts, vaultsync.WithLoggerProvider(opts.LoggerProvider))
	}
	if opts.HTTPClient != nil {
		moduleOpts = append(moduleOpts, vaultsync.WithHTTPClient(opts.HTTPClient))
	}

	module, err := vaultsync.New(cfg, moduleOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise vaultsync module: %w", err)
	}

	logger := logging.ModuleLogger(module.Container().LoggerProvider(), "vaultsync.cli")
	if used != "" {
		logger.Debug("cli.config.loaded", "path", used)
	}

	return &Module{
		Module:     module,
		Logger:     logger,
		ConfigFile: used,
	}, nil
}

func applyOverrides(cfg *vaultsync.Config, opts Options) {
	if v := strings.TrimSpace(opts.SourceDir); v != "" {
		cfg.Source.Dir = v
	}
	if v := strings.TrimSpace(opts.ImagesDir); v != "" {
		cfg.Source.ImagesDir = v
	}
	if v := strings.TrimSpace(opts.ContentDir); v != "" {
		cfg.Output.ContentDir = v
	}
	if v := strings.TrimSpace(opts.AssetDir); v != "" {
		cfg.Output.AssetDir = v
	}
	if opts.Recursive != nil {
		cfg.Source.Recursive = *opts.Recursive
	}
	if v := strings.TrimSpace(opts.LogLevel); v != "" {
		cfg.Logging.Level = v
	}
}
