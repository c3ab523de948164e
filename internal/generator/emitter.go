package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-vaultsync/internal/fetcher"
	"github.com/goliatone/go-vaultsync/internal/logging"
	"github.com/goliatone/go-vaultsync/internal/markdown"
	"github.com/goliatone/go-vaultsync/pkg/interfaces"
)

// ErrNoFetcher is returned by Emit when no download cache is supplied.
var ErrNoFetcher = errors.New("generator: download cache is required")

// Config locates the inputs and outputs of the emitter.
type Config struct {
	ImagesDir  string
	ContentDir string
	AssetDir   string
	AssetAlias string
	Collection string
	Extension  string

	Categories       []string
	Rules            []markdown.CategoryRule
	FallbackCategory string

	Defaults Defaults
}

// Option customises an Emitter.
type Option func(*Emitter)

// WithLogger sets the emitter logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(e *Emitter) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock overrides the clock used for missing publication dates.
func WithClock(now func() time.Time) Option {
	return func(e *Emitter) {
		if now != nil {
			e.now = now
		}
	}
}

// Emitter turns parsed vault documents into output documents and assets.
type Emitter struct {
	cfg         Config
	transformer *markdown.Transformer
	categorizer *markdown.Categorizer
	writer      artifactWriter
	schema      *schemaValidator
	auditor     *assetAuditor
	logger      interfaces.Logger
	now         func() time.Time
}

// Prepared is a parsed document with its resolved slug.
type Prepared struct {
	Source interfaces.SourceDocument
	Parsed interfaces.ParsedDocument
	Slug   string
}

// Emitted describes the files written for one document.
type Emitted struct {
	Document interfaces.OutputDocument
	Path     string
	// Images counts local embeds copied (with multiplicity) plus downloaded URLs.
	Images int
}

// NewEmitter builds an Emitter for cfg.
func NewEmitter(cfg Config, opts ...Option) (*Emitter, error) {
	if strings.TrimSpace(cfg.Extension) == "" {
		cfg.Extension = "mdx"
	}
	cfg.Extension = strings.TrimPrefix(cfg.Extension, ".")

	validator, err := newSchemaValidator(cfg.Categories)
	if err != nil {
		return nil, err
	}

	writer := newArtifactWriter()
	e := &Emitter{
		cfg:         cfg,
		transformer: markdown.NewTransformer(cfg.AssetAlias, cfg.Collection),
		categorizer: markdown.NewCategorizer(cfg.Categories, cfg.Rules, cfg.FallbackCategory),
		writer:      writer,
		schema:      validator,
		auditor:     newAssetAuditor(cfg.AssetDir, writer.Exists),
		logger:      logging.NoOp(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Prepare parses doc and resolves its slug.
func (e *Emitter) Prepare(doc interfaces.SourceDocument) (Prepared, error) {
	parsed := markdown.ParseDocument(string(doc.Source))
	slug, err := markdown.ResolveSlug(doc.Name, parsed.FrontMatter.Slug)
	if err != nil {
		return Prepared{}, fmt.Errorf("generator: slug for %s: %w", doc.Path, err)
	}
	return Prepared{Source: doc, Parsed: parsed, Slug: slug}, nil
}

// DocumentPath returns where the output document for slug is written.
func (e *Emitter) DocumentPath(slug string) string {
	return filepath.Join(e.cfg.ContentDir, slug, "index."+e.cfg.Extension)
}

// AssetDir returns the asset directory of slug.
func (e *Emitter) AssetDir(slug string) string {
	return filepath.Join(e.cfg.AssetDir, slug)
}

// Emit downloads and copies the images of p, rewrites its body and writes the
// output document. Image problems are logged and do not fail the document.
func (e *Emitter) Emit(ctx context.Context, p Prepared, cache *fetcher.Cache) (*Emitted, error) {
	if cache == nil {
		return nil, ErrNoFetcher
	}
	logger := logging.WithDocumentContext(e.logger, p.Source.Path, p.Slug)
	assetDir := e.AssetDir(p.Slug)
	fm := p.Parsed.FrontMatter

	refs := markdown.ResolveImages(p.Parsed.Body)

	downloads := make(map[string]string, len(refs.External))
	for _, rawURL := range refs.External {
		name := markdown.DownloadName(rawURL)
		if err := cache.Resolve(ctx, rawURL, filepath.Join(assetDir, name)); err != nil {
			logger.Warn("generator.image.download_skipped", "url", rawURL, "error", err)
			continue
		}
		downloads[rawURL] = name
	}

	out, decision := BuildOutput(p.Parsed, p.Source.Name, p.Slug, e.categorizer, e.cfg.Defaults, e.now())
	if decision.Rejected != "" {
		logger.Warn("generator.category.rejected", "category", decision.Rejected, "resolved", decision.Category)
	}
	logger.Debug("generator.category.resolved", "category", decision.Category, "source", string(decision.Source), "tag", decision.Tag)

	out.Body = e.transformer.Transform(p.Parsed.Body, p.Slug, downloads)

	images := len(downloads)
	copied := map[string]bool{}
	for _, name := range refs.Local {
		ok, seen := copied[name]
		if !seen {
			ok = e.copyLocal(ctx, logger, name, assetDir)
			copied[name] = ok
		}
		if ok {
			images++
		}
	}

	hero := e.resolveHero(ctx, logger, fm.HeroImage, assetDir, copied, downloads, cache)
	if hero == "" {
		for _, name := range e.transformer.Assets(out.Body, p.Slug) {
			if e.writer.Exists(filepath.Join(assetDir, filepath.FromSlash(name))) {
				hero = name
				break
			}
		}
	}
	if hero != "" {
		out.HeroImage = e.transformer.AssetPath(p.Slug, hero)
	} else {
		logger.Warn("generator.hero.unresolved")
	}
	if out.HeroAltText == "" {
		out.HeroAltText = firstNonEmpty(markdown.AltFromFilename(hero), out.Title)
	}

	if err := e.schema.Validate(out); err != nil {
		logger.Warn("generator.schema.invalid", "error", err)
	}
	for _, destination := range e.auditor.Missing(out.Body, p.Slug, e.transformer.AssetPrefix(p.Slug)) {
		logger.Warn("generator.asset.missing", "reference", destination)
	}

	target := e.DocumentPath(p.Slug)
	if err := e.writer.WriteFile(ctx, writeFileRequest{
		Path:     target,
		Content:  bytes.NewReader(Serialize(out)),
		Category: categoryDocument,
	}); err != nil {
		return nil, err
	}

	return &Emitted{Document: out, Path: target, Images: images}, nil
}

func (e *Emitter) copyLocal(ctx context.Context, logger interfaces.Logger, name, assetDir string) bool {
	src := filepath.Join(e.cfg.ImagesDir, name)
	if !e.writer.Exists(src) {
		logger.Warn("generator.image.missing", "image", name, "path", src)
		return false
	}
	if err := e.writer.CopyFile(ctx, src, filepath.Join(assetDir, name)); err != nil {
		logger.Warn("generator.image.copy_failed", "image", name, "error", err)
		return false
	}
	return true
}

// resolveHero materialises an explicit hero image and returns its filename,
// or "" when there is none or it could not be placed.
func (e *Emitter) resolveHero(ctx context.Context, logger interfaces.Logger, hero, assetDir string, copied map[string]bool, downloads map[string]string, cache *fetcher.Cache) string {
	hero = strings.TrimSpace(hero)
	if hero == "" {
		return ""
	}

	if markdown.IsRemote(hero) {
		if name, ok := downloads[hero]; ok {
			return name
		}
		name := markdown.DownloadName(hero)
		if err := cache.Resolve(ctx, hero, filepath.Join(assetDir, name)); err != nil {
			logger.Warn("generator.hero.download_failed", "hero", hero, "error", err)
			return ""
		}
		return name
	}

	name := path.Base(strings.ReplaceAll(hero, "\\", "/"))
	if copied[name] {
		return name
	}
	if !markdown.IsImageFile(name) || !e.copyLocal(ctx, logger, name, assetDir) {
		logger.Warn("generator.hero.missing", "hero", hero)
		return ""
	}
	copied[name] = true
	return name
}
