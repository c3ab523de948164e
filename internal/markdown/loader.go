package markdown

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/goliatone/go-vaultsync/pkg/interfaces"
)

// LoaderConfig configures how vault documents are discovered.
type LoaderConfig struct {
	// Pattern limits discovered files to those matching the supplied glob (defaults to "*.md").
	Pattern string
	// Recursive controls whether sub-directories are traversed.
	Recursive bool
}

// Loader reads vault documents from a filesystem.
type Loader struct {
	fs        fs.FS
	pattern   string
	recursive bool
}

// NewLoader constructs a Loader using the provided filesystem and configuration.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	pattern := cfg.Pattern
	if strings.TrimSpace(pattern) == "" {
		pattern = "*.md"
	}
	return &Loader{
		fs:        filesystem,
		pattern:   pattern,
		recursive: cfg.Recursive,
	}
}

// LoadFile reads a single document relative to the filesystem root.
func (l *Loader) LoadFile(ctx context.Context, name string) (interfaces.SourceDocument, error) {
	if err := ctx.Err(); err != nil {
		return interfaces.SourceDocument{}, err
	}
	rel := path.Clean(strings.ReplaceAll(name, "\\", "/"))
	data, err := fs.ReadFile(l.fs, rel)
	if err != nil {
		return interfaces.SourceDocument{}, fmt.Errorf("markdown loader read %s: %w", rel, err)
	}
	return interfaces.SourceDocument{
		Path:   rel,
		Name:   path.Base(rel),
		Source: data,
	}, nil
}

// LoadAll discovers matching documents and returns them in lexical path order.
func (l *Loader) LoadAll(ctx context.Context) ([]interfaces.SourceDocument, error) {
	paths, err := l.List(ctx)
	if err != nil {
		return nil, err
	}
	docs := make([]interfaces.SourceDocument, 0, len(paths))
	for _, p := range paths {
		doc, err := l.LoadFile(ctx, p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// List returns the matching document paths without reading them.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	var paths []string
	walkErr := fs.WalkDir(l.fs, ".", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if p != "." && (!l.recursive || strings.HasPrefix(d.Name(), ".")) {
				return fs.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if l.matchesPattern(p) {
			paths = append(paths, p)
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("markdown loader walk: %w", walkErr)
	}
	sort.Strings(paths)
	return paths, nil
}

func (l *Loader) matchesPattern(p string) bool {
	pattern := strings.ReplaceAll(l.pattern, "**/", "")
	target := p
	if !strings.Contains(pattern, "/") {
		target = path.Base(p)
	}
	match, err := path.Match(pattern, target)
	if err != nil {
		return false
	}
	return match
}
