package runtimeconfig_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-vaultsync/internal/runtimeconfig"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := runtimeconfig.DefaultConfig().Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidate_RequiresSourceDir(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Source.Dir = ""

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestConfigValidate_RejectsUnknownExtension(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Output.Extension = "html"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestConfigValidate_RejectsRedirectCapOutOfRange(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Fetch.MaxRedirects = 50

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestConfigValidate_RejectsOverlappingOutputs(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Output.AssetDir = cfg.Output.ContentDir + "/"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrOutputDirsOverlap) {
		t.Fatalf("expected ErrOutputDirsOverlap, got %v", err)
	}
}

func TestConfigValidate_RejectsNestedOutputs(t *testing.T) {
	cases := map[string]func(*runtimeconfig.Config){
		"dot prefixed same dir": func(cfg *runtimeconfig.Config) {
			cfg.Output.AssetDir = "./" + cfg.Output.ContentDir
		},
		"assets inside content": func(cfg *runtimeconfig.Config) {
			cfg.Output.AssetDir = cfg.Output.ContentDir + "/assets"
		},
		"content inside assets": func(cfg *runtimeconfig.Config) {
			cfg.Output.ContentDir = cfg.Output.AssetDir + "/posts"
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrOutputDirsOverlap) {
				t.Fatalf("expected ErrOutputDirsOverlap, got %v", err)
			}
		})
	}
}

func TestConfigValidate_RejectsOutputOverlappingSource(t *testing.T) {
	cases := map[string]func(*runtimeconfig.Config){
		"content is vault": func(cfg *runtimeconfig.Config) {
			cfg.Output.ContentDir = "vault"
		},
		"content is vault with trailing slash": func(cfg *runtimeconfig.Config) {
			cfg.Output.ContentDir = "./vault/"
		},
		"assets is images dir": func(cfg *runtimeconfig.Config) {
			cfg.Output.AssetDir = "vault/images"
		},
		"assets inside vault": func(cfg *runtimeconfig.Config) {
			cfg.Output.AssetDir = "vault/out/assets"
		},
		"content contains vault": func(cfg *runtimeconfig.Config) {
			cfg.Source.Dir = "site/vault"
			cfg.Source.ImagesDir = "site/vault/images"
			cfg.Output.ContentDir = "site"
		},
		"assets contains images dir": func(cfg *runtimeconfig.Config) {
			cfg.Source.ImagesDir = "src/assets/blog/raw"
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrOutputOverlapsSource) {
				t.Fatalf("expected ErrOutputOverlapsSource, got %v", err)
			}
		})
	}
}

func TestConfigValidate_AllowsSiblingDirsWithSharedPrefix(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Output.ContentDir = "vault-content"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected sibling directory to validate, got %v", err)
	}
}

func TestConfigValidate_RedirectCapMustBePositive(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Fetch.MaxRedirects = 0

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestConfigValidate_FallbackCategoryMustBeKnown(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Taxonomy.FallbackCategory = "misc"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrFallbackCategoryUnknown) {
		t.Fatalf("expected ErrFallbackCategoryUnknown, got %v", err)
	}
}

func TestConfigValidate_RuleCategoryMustBeKnown(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Taxonomy.Rules = append(cfg.Taxonomy.Rules, runtimeconfig.CategoryRule{Tag: "cats", Category: "pets"})

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrRuleCategoryUnknown) {
		t.Fatalf("expected ErrRuleCategoryUnknown, got %v", err)
	}
}

func TestConfigValidate_RejectsUnknownLoggingProvider(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = "syslog"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
}

func TestConfigValidate_RejectsInvalidLoggingFormat(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = "xml"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}
}

func TestLoad_UsesDefaultsWithoutConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, used, err := runtimeconfig.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if used != "" {
		t.Fatalf("expected no config file, got %s", used)
	}
	want := runtimeconfig.DefaultConfig()
	if cfg.Source.Dir != want.Source.Dir || cfg.Output.AssetAlias != want.Output.AssetAlias {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
	if len(cfg.Taxonomy.Rules) != len(want.Taxonomy.Rules) {
		t.Fatalf("expected %d default rules, got %d", len(want.Taxonomy.Rules), len(cfg.Taxonomy.Rules))
	}
	if cfg.Fetch.Timeout != 30*time.Second {
		t.Fatalf("expected 30s timeout, got %s", cfg.Fetch.Timeout)
	}
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vaultsync.yaml")
	contents := `source:
  dir: notes
fetch:
  timeout: 10s
taxonomy:
  categories: [travels, misc]
  fallback_category: misc
  rules:
    - tag: Travel
      category: travels
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("VAULTSYNC_OUTPUT_EXTENSION", "md")

	cfg, used, err := runtimeconfig.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if used != path {
		t.Fatalf("expected config file %s, got %s", path, used)
	}
	if cfg.Source.Dir != "notes" {
		t.Fatalf("expected source dir override, got %s", cfg.Source.Dir)
	}
	if cfg.Source.ImagesDir != "vault/images" {
		t.Fatalf("expected default images dir, got %s", cfg.Source.ImagesDir)
	}
	if cfg.Fetch.Timeout != 10*time.Second {
		t.Fatalf("expected 10s timeout, got %s", cfg.Fetch.Timeout)
	}
	if cfg.Output.Extension != "md" {
		t.Fatalf("expected env override for extension, got %s", cfg.Output.Extension)
	}
	if len(cfg.Taxonomy.Rules) != 1 || cfg.Taxonomy.Rules[0].Category != "travels" {
		t.Fatalf("expected file rules to replace defaults, got %+v", cfg.Taxonomy.Rules)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected loaded config to validate: %v", err)
	}
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	if _, _, err := runtimeconfig.Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}
