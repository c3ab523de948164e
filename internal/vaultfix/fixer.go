package vaultfix

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-vaultsync/internal/logging"
	"github.com/goliatone/go-vaultsync/internal/markdown"
	"github.com/goliatone/go-vaultsync/pkg/interfaces"
)

const backupSuffix = ".bak"

// orderedKeys is the key order of a normalised metadata block. Keys not
// listed follow in lexical order.
var orderedKeys = []string{
	"title", "description", "publicationDate", "updatedDate", "heroImage",
	"heroAltText", "category", "tags", "featured", "draft", "slug",
}

// legacyAliases maps legacy keys onto the modern key they fill.
var legacyAliases = map[string]string{
	"date":    "publicationDate",
	"summary": "description",
}

// Config locates the vault to rewrite.
type Config struct {
	SourceDir string
	Pattern   string
	Recursive bool
}

// Option customises a Fixer.
type Option func(*Fixer)

// WithLogger sets the fixer logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(f *Fixer) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// Fixer rewrites vault documents in place into a single normalised metadata
// block followed by the body, keeping a backup of each original.
type Fixer struct {
	cfg    Config
	logger interfaces.Logger
}

var _ interfaces.FixService = (*Fixer)(nil)

// New builds a Fixer.
func New(cfg Config, opts ...Option) *Fixer {
	f := &Fixer{cfg: cfg, logger: logging.NoOp()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fix scans the vault and rewrites documents that carry a leading heading, a
// legacy metadata block, or legacy keys.
func (f *Fixer) Fix(ctx context.Context, opts interfaces.FixOptions) (*interfaces.FixResult, error) {
	loader := markdown.NewLoader(os.DirFS(f.cfg.SourceDir), markdown.LoaderConfig{
		Pattern:   f.cfg.Pattern,
		Recursive: f.cfg.Recursive,
	})
	paths, err := loader.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("vaultfix: list %s: %w", f.cfg.SourceDir, err)
	}

	result := &interfaces.FixResult{}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Scanned++

		doc, err := loader.LoadFile(ctx, path)
		if err != nil {
			result.Errors = append(result.Errors, interfaces.SyncFailure{Source: path, Err: err})
			continue
		}

		rewritten, changed, err := Normalize(string(doc.Source))
		if err != nil {
			result.Errors = append(result.Errors, interfaces.SyncFailure{Source: path, Err: err})
			f.logger.Error("vaultfix.document.failed", "source", path, "error", err)
			continue
		}
		if !changed {
			result.Unchanged++
			continue
		}

		if opts.DryRun {
			f.logger.Info("vaultfix.document.would_rewrite", "source", path)
			result.Rewritten = append(result.Rewritten, path)
			continue
		}

		target := filepath.Join(f.cfg.SourceDir, filepath.FromSlash(path))
		if err := writeWithBackup(target, doc.Source, rewritten); err != nil {
			result.Errors = append(result.Errors, interfaces.SyncFailure{Source: path, Err: err})
			f.logger.Error("vaultfix.document.failed", "source", path, "error", err)
			continue
		}
		f.logger.Info("vaultfix.document.rewritten", "source", path, "backup", target+backupSuffix)
		result.Rewritten = append(result.Rewritten, path)
	}

	f.logger.Info("vaultfix.run.completed",
		"scanned", result.Scanned,
		"rewritten", len(result.Rewritten),
		"unchanged", result.Unchanged,
		"errors", len(result.Errors),
		"dry_run", opts.DryRun,
	)
	return result, nil
}

// Normalize returns source rewritten with a single ordered metadata block.
// changed is false when source needs no rewrite.
func Normalize(source string) (string, bool, error) {
	parsed := markdown.ParseDocument(source)
	raw := parsed.FrontMatter.Raw

	_, hasDate := raw["date"]
	_, hasSummary := raw["summary"]
	if !markdown.HasLeadingHeading(source) && !parsed.LegacyBlock && !hasDate && !hasSummary {
		return source, false, nil
	}

	values := make(map[string]any, len(raw)+1)
	for key, value := range raw {
		values[key] = value
	}
	for legacy, modern := range legacyAliases {
		value, ok := values[legacy]
		if !ok {
			continue
		}
		if _, exists := values[modern]; !exists {
			values[modern] = value
		}
		delete(values, legacy)
	}
	if _, ok := values["title"]; !ok && parsed.Title != "" {
		values["title"] = parsed.Title
	}

	block, err := encodeOrdered(values)
	if err != nil {
		return "", false, err
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(block)
	b.WriteString("---\n")
	if body := strings.TrimSpace(parsed.Body); body != "" {
		b.WriteString("\n")
		b.WriteString(body)
		b.WriteString("\n")
	}
	return b.String(), true, nil
}

func encodeOrdered(values map[string]any) ([]byte, error) {
	if len(values) == 0 {
		return nil, nil
	}
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	rank := make(map[string]int, len(orderedKeys))
	for i, key := range orderedKeys {
		rank[key] = i
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, iok := rank[keys[i]]
		rj, jok := rank[keys[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return keys[i] < keys[j]
		}
	})

	mapping := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range keys {
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(values[key]); err != nil {
			return nil, fmt.Errorf("vaultfix: encode %s: %w", key, err)
		}
		mapping.Content = append(mapping.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: key},
			valueNode,
		)
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(mapping); err != nil {
		return nil, fmt.Errorf("vaultfix: encode metadata: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("vaultfix: encode metadata: %w", err)
	}
	return buf.Bytes(), nil
}

func writeWithBackup(target string, original []byte, rewritten string) error {
	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("vaultfix: stat %s: %w", target, err)
	}
	backup := target + backupSuffix
	if _, err := os.Stat(backup); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(backup, original, info.Mode().Perm()); err != nil {
			return fmt.Errorf("vaultfix: backup %s: %w", target, err)
		}
	}
	if err := os.WriteFile(target, []byte(rewritten), info.Mode().Perm()); err != nil {
		return fmt.Errorf("vaultfix: write %s: %w", target, err)
	}
	return nil
}
