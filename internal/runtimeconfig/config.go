package runtimeconfig

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	// ErrInvalidConfig wraps field-level validation failures.
	ErrInvalidConfig = errors.New("vaultsync config: invalid configuration")
	// ErrFallbackCategoryUnknown is returned when the terminal category is not in the category set.
	ErrFallbackCategoryUnknown = errors.New("vaultsync config: fallback category must be one of the configured categories")
	// ErrRuleCategoryUnknown is returned when a tag rule targets a category outside the set.
	ErrRuleCategoryUnknown    = errors.New("vaultsync config: category rule targets an unknown category")
	ErrLoggingProviderUnknown = errors.New("vaultsync config: logging provider is invalid")
	ErrLoggingLevelInvalid    = errors.New("vaultsync config: logging level is invalid")
	ErrLoggingFormatInvalid   = errors.New("vaultsync config: logging format is invalid")
	ErrOutputDirsOverlap      = errors.New("vaultsync config: content and asset output directories must not overlap")
	// ErrOutputOverlapsSource guards the vault: output trees are removed at the start of every sync.
	ErrOutputOverlapsSource = errors.New("vaultsync config: output directories must not overlap the vault or images directory")
)

// Config is the full runtime configuration of the sync pipeline.
type Config struct {
	Source   SourceConfig   `mapstructure:"source" yaml:"source"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output"`
	Fetch    FetchConfig    `mapstructure:"fetch" yaml:"fetch"`
	Taxonomy TaxonomyConfig `mapstructure:"taxonomy" yaml:"taxonomy"`
	Defaults DefaultsConfig `mapstructure:"defaults" yaml:"defaults"`
	Watch    WatchConfig    `mapstructure:"watch" yaml:"watch"`
	Schedule ScheduleConfig `mapstructure:"schedule" yaml:"schedule"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

// SourceConfig locates the vault.
type SourceConfig struct {
	Dir       string `mapstructure:"dir" yaml:"dir"`
	ImagesDir string `mapstructure:"images_dir" yaml:"images_dir"`
	Pattern   string `mapstructure:"pattern" yaml:"pattern"`
	Recursive bool   `mapstructure:"recursive" yaml:"recursive"`
}

// OutputConfig locates the generated content and asset trees.
type OutputConfig struct {
	ContentDir string `mapstructure:"content_dir" yaml:"content_dir"`
	AssetDir   string `mapstructure:"asset_dir" yaml:"asset_dir"`
	// AssetAlias is the build-time path alias resolving to the asset tree root.
	AssetAlias string `mapstructure:"asset_alias" yaml:"asset_alias"`
	// Collection is the path segment between the alias and the slug.
	Collection string `mapstructure:"collection" yaml:"collection"`
	Extension  string `mapstructure:"extension" yaml:"extension"`
}

// FetchConfig tunes remote image downloads.
type FetchConfig struct {
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxRedirects int           `mapstructure:"max_redirects" yaml:"max_redirects"`
	UserAgent    string        `mapstructure:"user_agent" yaml:"user_agent"`
}

// TaxonomyConfig is the closed category set plus the ordered tag decision table.
type TaxonomyConfig struct {
	Categories       []string       `mapstructure:"categories" yaml:"categories"`
	Rules            []CategoryRule `mapstructure:"rules" yaml:"rules"`
	FallbackCategory string         `mapstructure:"fallback_category" yaml:"fallback_category"`
}

// CategoryRule maps a tag (case-insensitive) onto a category.
type CategoryRule struct {
	Tag      string `mapstructure:"tag" yaml:"tag"`
	Category string `mapstructure:"category" yaml:"category"`
}

// DefaultsConfig holds values substituted when a document omits them.
type DefaultsConfig struct {
	// Tag is applied when a document has no tags. Empty keeps the list empty.
	Tag string `mapstructure:"tag" yaml:"tag"`
	// DescriptionPrefix is prepended to the title to build a missing description.
	DescriptionPrefix string `mapstructure:"description_prefix" yaml:"description_prefix"`
}

// WatchConfig tunes the file watcher.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

// ScheduleConfig exposes cron expressions for hosts that run a scheduler.
type ScheduleConfig struct {
	// SyncCron schedules full syncs. Empty disables cron registration.
	SyncCron string `mapstructure:"sync_cron" yaml:"sync_cron"`
}

// LoggingConfig selects and tunes the logger provider.
type LoggingConfig struct {
	Provider  string   `mapstructure:"provider" yaml:"provider"`
	Level     string   `mapstructure:"level" yaml:"level"`
	Format    string   `mapstructure:"format" yaml:"format"`
	AddSource bool     `mapstructure:"add_source" yaml:"add_source"`
	Focus     []string `mapstructure:"focus" yaml:"focus"`
}

// DefaultConfig returns the fixed paths and tables the pipeline runs with
// when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Source: SourceConfig{
			Dir:       "vault",
			ImagesDir: "vault/images",
			Pattern:   "*.md",
		},
		Output: OutputConfig{
			ContentDir: "src/content/blog",
			AssetDir:   "src/assets/blog",
			AssetAlias: "@assets",
			Collection: "blog",
			Extension:  "mdx",
		},
		Fetch: FetchConfig{
			Timeout:      30 * time.Second,
			MaxRedirects: 5,
			UserAgent:    "go-vaultsync/1.0 (+https://github.com/goliatone/go-vaultsync)",
		},
		Taxonomy: TaxonomyConfig{
			Categories: []string{"travels", "family", "tech", "books", "food", "thoughts"},
			Rules: []CategoryRule{
				{Tag: "travel", Category: "travels"},
				{Tag: "travels", Category: "travels"},
				{Tag: "trip", Category: "travels"},
				{Tag: "family", Category: "family"},
				{Tag: "kids", Category: "family"},
				{Tag: "tech", Category: "tech"},
				{Tag: "programming", Category: "tech"},
				{Tag: "code", Category: "tech"},
				{Tag: "books", Category: "books"},
				{Tag: "reading", Category: "books"},
				{Tag: "food", Category: "food"},
				{Tag: "recipes", Category: "food"},
			},
			FallbackCategory: "thoughts",
		},
		Defaults: DefaultsConfig{
			DescriptionPrefix: "Notes on",
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate checks field constraints and cross-field consistency.
func (cfg Config) Validate() error {
	err := validation.Errors{
		"source": validation.ValidateStruct(&cfg.Source,
			validation.Field(&cfg.Source.Dir, validation.Required),
			validation.Field(&cfg.Source.ImagesDir, validation.Required),
		),
		"output": validation.ValidateStruct(&cfg.Output,
			validation.Field(&cfg.Output.ContentDir, validation.Required),
			validation.Field(&cfg.Output.AssetDir, validation.Required),
			validation.Field(&cfg.Output.AssetAlias, validation.Required),
			validation.Field(&cfg.Output.Collection, validation.Required),
			validation.Field(&cfg.Output.Extension, validation.Required, validation.In("md", "mdx")),
		),
		"fetch": validation.ValidateStruct(&cfg.Fetch,
			validation.Field(&cfg.Fetch.Timeout, validation.Required, validation.Min(time.Second)),
			validation.Field(&cfg.Fetch.MaxRedirects, validation.Required, validation.Min(1), validation.Max(20)),
			validation.Field(&cfg.Fetch.UserAgent, validation.Required),
		),
		"taxonomy": validation.ValidateStruct(&cfg.Taxonomy,
			validation.Field(&cfg.Taxonomy.Categories, validation.Required),
			validation.Field(&cfg.Taxonomy.FallbackCategory, validation.Required),
		),
	}.Filter()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if pathsOverlap(cfg.Output.ContentDir, cfg.Output.AssetDir) {
		return fmt.Errorf("%w: %s, %s", ErrOutputDirsOverlap, cfg.Output.ContentDir, cfg.Output.AssetDir)
	}
	for _, out := range []string{cfg.Output.ContentDir, cfg.Output.AssetDir} {
		for _, src := range []string{cfg.Source.Dir, cfg.Source.ImagesDir} {
			if pathsOverlap(out, src) {
				return fmt.Errorf("%w: %s overlaps %s", ErrOutputOverlapsSource, out, src)
			}
		}
	}

	categories := normalizeList(cfg.Taxonomy.Categories)
	if !slices.Contains(categories, normalize(cfg.Taxonomy.FallbackCategory)) {
		return fmt.Errorf("%w: %s", ErrFallbackCategoryUnknown, cfg.Taxonomy.FallbackCategory)
	}
	for _, rule := range cfg.Taxonomy.Rules {
		if !slices.Contains(categories, normalize(rule.Category)) {
			return fmt.Errorf("%w: %s -> %s", ErrRuleCategoryUnknown, rule.Tag, rule.Category)
		}
	}

	provider := normalize(cfg.Logging.Provider)
	if provider != "" && provider != "console" && provider != "gologger" {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		out = append(out, normalize(value))
	}
	return out
}

func absPath(value string) string {
	clean := filepath.Clean(strings.TrimSpace(value))
	if abs, err := filepath.Abs(clean); err == nil {
		return abs
	}
	return clean
}

// pathsOverlap reports whether a and b are the same directory or one is
// nested inside the other.
func pathsOverlap(a, b string) bool {
	a, b = absPath(a), absPath(b)
	return a == b || isWithin(a, b) || isWithin(b, a)
}

func isWithin(child, parent string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
