package di

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	markdowncmd "github.com/goliatone/go-vaultsync/internal/commands/markdown"
	"github.com/goliatone/go-vaultsync/internal/fetcher"
	"github.com/goliatone/go-vaultsync/internal/generator"
	"github.com/goliatone/go-vaultsync/internal/logging"
	"github.com/goliatone/go-vaultsync/internal/logging/console"
	"github.com/goliatone/go-vaultsync/internal/logging/gologger"
	"github.com/goliatone/go-vaultsync/internal/markdown"
	"github.com/goliatone/go-vaultsync/internal/runtimeconfig"
	"github.com/goliatone/go-vaultsync/internal/syncer"
	"github.com/goliatone/go-vaultsync/internal/vaultfix"
	"github.com/goliatone/go-vaultsync/internal/watch"
	"github.com/goliatone/go-vaultsync/pkg/interfaces"
)

// Container wires the sync pipeline from a validated configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	httpClient     *http.Client
	clock          func() time.Time
	onSync         func(*interfaces.SyncResult)
	onFix          func(*interfaces.FixResult)

	fetcher  *fetcher.Client
	emitter  *generator.Emitter
	syncer   *syncer.Service
	fixer    *vaultfix.Fixer
	watcher  *watch.Watcher
	handlers *markdowncmd.HandlerSet
}

// Option mutates the container before services are built.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected from Logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithHTTPClient overrides the client used for remote image downloads.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Container) {
		c.httpClient = client
	}
}

// WithClock overrides the clock used for fallback publication dates.
func WithClock(now func() time.Time) Option {
	return func(c *Container) {
		c.clock = now
	}
}

// WithSyncResult receives every sync summary produced through the command handlers.
func WithSyncResult(fn func(*interfaces.SyncResult)) Option {
	return func(c *Container) {
		c.onSync = fn
	}
}

// WithFixResult receives every fix summary produced through the command handlers.
func WithFixResult(fn func(*interfaces.FixResult)) Option {
	return func(c *Container) {
		c.onFix = fn
	}
}

// NewContainer validates cfg and builds every pipeline service.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if c.loggerProvider == nil {
		provider, err := configureLoggerProvider(cfg.Logging)
		if err != nil {
			return nil, err
		}
		c.loggerProvider = provider
	}

	if err := c.configureServices(); err != nil {
		return nil, err
	}

	logging.ModuleLogger(c.loggerProvider, "vaultsync.di").Debug("container.configured",
		"source_dir", cfg.Source.Dir,
		"content_dir", cfg.Output.ContentDir,
		"asset_dir", cfg.Output.AssetDir,
	)
	return c, nil
}

func (c *Container) configureServices() error {
	cfg := c.Config

	fetchOpts := []fetcher.Option{fetcher.WithLogger(logging.FetcherLogger(c.loggerProvider))}
	if c.httpClient != nil {
		fetchOpts = append(fetchOpts, fetcher.WithHTTPClient(c.httpClient))
	}
	c.fetcher = fetcher.New(fetcher.Config{
		Timeout:      cfg.Fetch.Timeout,
		MaxRedirects: cfg.Fetch.MaxRedirects,
		UserAgent:    cfg.Fetch.UserAgent,
	}, fetchOpts...)

	rules := make([]markdown.CategoryRule, 0, len(cfg.Taxonomy.Rules))
	for _, rule := range cfg.Taxonomy.Rules {
		rules = append(rules, markdown.CategoryRule{Tag: rule.Tag, Category: rule.Category})
	}

	emitOpts := []generator.Option{generator.WithLogger(logging.GeneratorLogger(c.loggerProvider))}
	if c.clock != nil {
		emitOpts = append(emitOpts, generator.WithClock(c.clock))
	}
	emitter, err := generator.NewEmitter(generator.Config{
		ImagesDir:        cfg.Source.ImagesDir,
		ContentDir:       cfg.Output.ContentDir,
		AssetDir:         cfg.Output.AssetDir,
		AssetAlias:       cfg.Output.AssetAlias,
		Collection:       cfg.Output.Collection,
		Extension:        cfg.Output.Extension,
		Categories:       cfg.Taxonomy.Categories,
		Rules:            rules,
		FallbackCategory: cfg.Taxonomy.FallbackCategory,
		Defaults: generator.Defaults{
			Tag:               cfg.Defaults.Tag,
			DescriptionPrefix: cfg.Defaults.DescriptionPrefix,
		},
	}, emitOpts...)
	if err != nil {
		return fmt.Errorf("di: emitter: %w", err)
	}
	c.emitter = emitter

	svc, err := syncer.NewService(syncer.Config{
		SourceDir:  cfg.Source.Dir,
		Pattern:    cfg.Source.Pattern,
		Recursive:  cfg.Source.Recursive,
		ContentDir: cfg.Output.ContentDir,
		AssetDir:   cfg.Output.AssetDir,
	}, c.emitter, c.fetcher, syncer.WithLogger(logging.SyncerLogger(c.loggerProvider)))
	if err != nil {
		return fmt.Errorf("di: syncer: %w", err)
	}
	c.syncer = svc

	c.fixer = vaultfix.New(vaultfix.Config{
		SourceDir: cfg.Source.Dir,
		Pattern:   cfg.Source.Pattern,
		Recursive: cfg.Source.Recursive,
	}, vaultfix.WithLogger(logging.VaultFixLogger(c.loggerProvider)))

	c.watcher = watch.New(watch.Config{
		Dirs:      watchDirs(cfg.Source),
		Recursive: cfg.Source.Recursive,
		Debounce:  cfg.Watch.Debounce,
	}, c.syncer, watch.WithLogger(logging.WatchLogger(c.loggerProvider)))

	handlers, err := markdowncmd.RegisterVaultCommands(nil, c.syncer, c.fixer, c.loggerProvider,
		markdowncmd.WithSyncResult(c.onSync),
		markdowncmd.WithFixResult(c.onFix),
		markdowncmd.WithSyncCron(cfg.Schedule.SyncCron),
	)
	if err != nil {
		return fmt.Errorf("di: commands: %w", err)
	}
	c.handlers = handlers
	return nil
}

// watchDirs returns the vault directory plus the images directory unless a
// recursive watch on the vault already covers it.
func watchDirs(src runtimeconfig.SourceConfig) []string {
	dirs := []string{src.Dir}
	images := filepath.Clean(src.ImagesDir)
	vault := filepath.Clean(src.Dir)
	if strings.TrimSpace(src.ImagesDir) == "" || images == vault {
		return dirs
	}
	if src.Recursive && strings.HasPrefix(images, vault+string(filepath.Separator)) {
		return dirs
	}
	return append(dirs, src.ImagesDir)
}

func configureLoggerProvider(cfg runtimeconfig.LoggingConfig) (interfaces.LoggerProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "gologger":
		return gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
	default:
		opts := console.Options{}
		if level, ok := console.ParseLevel(cfg.Level); ok {
			opts.MinLevel = &level
		}
		return console.NewProvider(opts), nil
	}
}

// LoggerProvider returns the active logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Fetcher returns the remote image client.
func (c *Container) Fetcher() *fetcher.Client {
	return c.fetcher
}

// Emitter returns the per-document generator.
func (c *Container) Emitter() *generator.Emitter {
	return c.emitter
}

// SyncService returns the full-run orchestrator.
func (c *Container) SyncService() *syncer.Service {
	return c.syncer
}

// FixService returns the in-place vault normaliser.
func (c *Container) FixService() *vaultfix.Fixer {
	return c.fixer
}

// Watcher returns the vault watcher.
func (c *Container) Watcher() *watch.Watcher {
	return c.watcher
}

// Handlers returns the vault command handlers.
func (c *Container) Handlers() *markdowncmd.HandlerSet {
	return c.handlers
}
