package di

import (
	"testing"

	"github.com/goliatone/go-vaultsync/internal/logging/gologger"
	"github.com/goliatone/go-vaultsync/internal/runtimeconfig"
)

func TestConfigureLoggerProviderUsesGoLoggerAdapter(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "json"

	provider, err := configureLoggerProvider(cfg.Logging)
	if err != nil {
		t.Fatalf("configureLoggerProvider returned error: %v", err)
	}

	goProvider, ok := provider.(*gologger.Provider)
	if !ok {
		t.Fatalf("expected go-logger provider, got %T", provider)
	}

	logger := goProvider.GetLogger("vaultsync.test")
	if logger == nil {
		t.Fatal("expected logger from go-logger provider, got nil")
	}
}

func TestConfigureLoggerProviderDefaultsToConsole(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = ""

	provider, err := configureLoggerProvider(cfg.Logging)
	if err != nil {
		t.Fatalf("configureLoggerProvider returned error: %v", err)
	}
	if _, ok := provider.(*gologger.Provider); ok {
		t.Fatal("expected console provider when none is configured")
	}
}

func TestWatchDirsIncludesExternalImagesDir(t *testing.T) {
	dirs := watchDirs(runtimeconfig.SourceConfig{Dir: "vault", ImagesDir: "attachments"})
	if len(dirs) != 2 || dirs[1] != "attachments" {
		t.Fatalf("expected vault and attachments, got %v", dirs)
	}

	dirs = watchDirs(runtimeconfig.SourceConfig{Dir: "vault", ImagesDir: "vault/images", Recursive: true})
	if len(dirs) != 1 {
		t.Fatalf("expected nested images dir to be covered by a recursive watch, got %v", dirs)
	}

	dirs = watchDirs(runtimeconfig.SourceConfig{Dir: "vault", ImagesDir: "vault/images"})
	if len(dirs) != 2 {
		t.Fatalf("expected nested images dir to be watched explicitly, got %v", dirs)
	}
}
