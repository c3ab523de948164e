package vaultsync

import "github.com/goliatone/go-vaultsync/internal/runtimeconfig"

var (
	ErrInvalidConfig           = runtimeconfig.ErrInvalidConfig
	ErrOutputDirsOverlap       = runtimeconfig.ErrOutputDirsOverlap
	ErrOutputOverlapsSource    = runtimeconfig.ErrOutputOverlapsSource
	ErrFallbackCategoryUnknown = runtimeconfig.ErrFallbackCategoryUnknown
	ErrRuleCategoryUnknown     = runtimeconfig.ErrRuleCategoryUnknown
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config         = runtimeconfig.Config
	SourceConfig   = runtimeconfig.SourceConfig
	OutputConfig   = runtimeconfig.OutputConfig
	FetchConfig    = runtimeconfig.FetchConfig
	TaxonomyConfig = runtimeconfig.TaxonomyConfig
	CategoryRule   = runtimeconfig.CategoryRule
	DefaultsConfig = runtimeconfig.DefaultsConfig
	WatchConfig    = runtimeconfig.WatchConfig
	ScheduleConfig = runtimeconfig.ScheduleConfig
	LoggingConfig  = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML config file layered over DefaultConfig and
// VAULTSYNC_* environment overrides. It returns the file actually used.
func LoadConfig(path string) (Config, string, error) {
	return runtimeconfig.Load(path)
}
