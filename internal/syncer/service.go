package syncer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-vaultsync/internal/fetcher"
	"github.com/goliatone/go-vaultsync/internal/generator"
	"github.com/goliatone/go-vaultsync/internal/logging"
	"github.com/goliatone/go-vaultsync/internal/markdown"
	"github.com/goliatone/go-vaultsync/pkg/interfaces"
)

var (
	// ErrSlugCollision is recorded for a document whose slug was already
	// claimed by an earlier document in the same run.
	ErrSlugCollision = errors.New("syncer: slug already claimed by another document")
	ErrResetOutput   = errors.New("syncer: reset output directory")
	ErrListSources   = errors.New("syncer: list source documents")
	ErrMissingDeps   = errors.New("syncer: emitter and fetcher are required")
)

// Config locates the vault and the output trees.
type Config struct {
	SourceDir  string
	Pattern    string
	Recursive  bool
	ContentDir string
	AssetDir   string
}

// Option customises a Service.
type Option func(*Service)

// WithLogger sets the orchestration logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIDGenerator overrides how run identifiers are produced.
func WithIDGenerator(fn func() uuid.UUID) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// Service runs full vault syncs.
type Service struct {
	cfg     Config
	emitter *generator.Emitter
	fetcher interfaces.Fetcher
	logger  interfaces.Logger
	newID   func() uuid.UUID
}

var _ interfaces.SyncService = (*Service)(nil)

// NewService wires the orchestrator.
func NewService(cfg Config, emitter *generator.Emitter, fetch interfaces.Fetcher, opts ...Option) (*Service, error) {
	if emitter == nil || fetch == nil {
		return nil, ErrMissingDeps
	}
	s := &Service{
		cfg:     cfg,
		emitter: emitter,
		fetcher: fetch,
		logger:  logging.NoOp(),
		newID:   uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Sync wipes both output trees and regenerates them from the vault. Document
// failures are counted in the result and never abort the run; the returned
// error is reserved for failures that prevent the run itself.
func (s *Service) Sync(ctx context.Context) (*interfaces.SyncResult, error) {
	result := &interfaces.SyncResult{RunID: s.newID()}
	logger := logging.WithRunID(s.logger, result.RunID.String())

	logger.Info("syncer.run.started", "source", s.cfg.SourceDir, "content", s.cfg.ContentDir, "assets", s.cfg.AssetDir)

	for _, dir := range []string{s.cfg.ContentDir, s.cfg.AssetDir} {
		if err := resetDir(dir); err != nil {
			logger.Error("syncer.run.reset_failed", "dir", dir, "error", err)
			return result, err
		}
	}

	loader := markdown.NewLoader(os.DirFS(s.cfg.SourceDir), markdown.LoaderConfig{
		Pattern:   s.cfg.Pattern,
		Recursive: s.cfg.Recursive,
	})
	paths, err := loader.List(ctx)
	if err != nil {
		logger.Error("syncer.run.list_failed", "error", err)
		return result, fmt.Errorf("%w: %w", ErrListSources, err)
	}

	cache := fetcher.NewCache(s.fetcher)
	claimed := make(map[string]string, len(paths))

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			result.Downloaded = cache.Downloaded()
			logger.Warn("syncer.run.cancelled", "processed", result.Processed, "errors", result.Errors)
			return result, err
		}

		emitted, err := s.syncDocument(ctx, loader, cache, claimed, path)
		if err != nil {
			result.Errors++
			result.Failures = append(result.Failures, interfaces.SyncFailure{Source: path, Err: err})
			logger.Error("syncer.document.failed", "source", path, "error", err)
			continue
		}

		result.Processed++
		result.Documents = append(result.Documents, interfaces.SyncedDocument{
			Source:    path,
			Slug:      emitted.Document.Slug,
			Path:      emitted.Path,
			Images:    emitted.Images,
			HeroImage: emitted.Document.HeroImage,
		})
		logger.Info("syncer.document.processed", "source", path, "slug", emitted.Document.Slug, "images", emitted.Images)
	}

	result.Downloaded = cache.Downloaded()
	logger.Info("syncer.run.completed",
		"processed", result.Processed,
		"errors", result.Errors,
		"downloaded", result.Downloaded,
	)
	return result, nil
}

func (s *Service) syncDocument(ctx context.Context, loader *markdown.Loader, cache *fetcher.Cache, claimed map[string]string, path string) (emitted *generator.Emitted, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("syncer: panic processing %s: %v", path, r)
		}
	}()

	doc, err := loader.LoadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	prepared, err := s.emitter.Prepare(doc)
	if err != nil {
		return nil, err
	}
	if owner, ok := claimed[prepared.Slug]; ok {
		return nil, fmt.Errorf("%w: %q (first used by %s)", ErrSlugCollision, prepared.Slug, owner)
	}
	claimed[prepared.Slug] = path

	return s.emitter.Emit(ctx, prepared, cache)
}

func resetDir(dir string) error {
	clean := filepath.Clean(strings.TrimSpace(dir))
	if clean == "." || clean == string(filepath.Separator) || clean == "" {
		return fmt.Errorf("%w: refusing to remove %q", ErrResetOutput, dir)
	}
	if err := os.RemoveAll(clean); err != nil {
		return fmt.Errorf("%w %s: %w", ErrResetOutput, clean, err)
	}
	if err := os.MkdirAll(clean, 0o755); err != nil {
		return fmt.Errorf("%w %s: %w", ErrResetOutput, clean, err)
	}
	return nil
}
