package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides (VAULTSYNC_SOURCE_DIR, ...).
const EnvPrefix = "VAULTSYNC"

// Load reads configuration from path, or from ./vaultsync.yaml when path is
// empty, layered over DefaultConfig and environment overrides. A missing
// default config file is not an error; a missing explicit one is.
func Load(path string) (Config, string, error) {
	v := viper.New()
	for key, value := range defaultSettings(DefaultConfig()) {
		v.SetDefault(key, value)
	}

	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("vaultsync")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	used := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return Config{}, "", fmt.Errorf("vaultsync config: read %s: %w", path, err)
		}
	} else {
		used = v.ConfigFileUsed()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, used, fmt.Errorf("vaultsync config: decode: %w", err)
	}
	return cfg, used, nil
}

func defaultSettings(cfg Config) map[string]any {
	rules := make([]map[string]any, 0, len(cfg.Taxonomy.Rules))
	for _, rule := range cfg.Taxonomy.Rules {
		rules = append(rules, map[string]any{"tag": rule.Tag, "category": rule.Category})
	}
	return map[string]any{
		"source.dir":                  cfg.Source.Dir,
		"source.images_dir":           cfg.Source.ImagesDir,
		"source.pattern":              cfg.Source.Pattern,
		"source.recursive":            cfg.Source.Recursive,
		"output.content_dir":          cfg.Output.ContentDir,
		"output.asset_dir":            cfg.Output.AssetDir,
		"output.asset_alias":          cfg.Output.AssetAlias,
		"output.collection":           cfg.Output.Collection,
		"output.extension":            cfg.Output.Extension,
		"fetch.timeout":               cfg.Fetch.Timeout,
		"fetch.max_redirects":         cfg.Fetch.MaxRedirects,
		"fetch.user_agent":            cfg.Fetch.UserAgent,
		"taxonomy.categories":         cfg.Taxonomy.Categories,
		"taxonomy.rules":              rules,
		"taxonomy.fallback_category":  cfg.Taxonomy.FallbackCategory,
		"defaults.tag":                cfg.Defaults.Tag,
		"defaults.description_prefix": cfg.Defaults.DescriptionPrefix,
		"watch.debounce":              cfg.Watch.Debounce,
		"schedule.sync_cron":          cfg.Schedule.SyncCron,
		"logging.provider":            cfg.Logging.Provider,
		"logging.level":               cfg.Logging.Level,
		"logging.format":              cfg.Logging.Format,
		"logging.add_source":          cfg.Logging.AddSource,
		"logging.focus":               cfg.Logging.Focus,
	}
}
