package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type writeCategory string

const (
	categoryDocument writeCategory = "document"
	categoryAsset    writeCategory = "asset"
)

// writeFileRequest describes a file write operation routed through the artifact writer.
type writeFileRequest struct {
	Path     string
	Content  io.Reader
	Category writeCategory
}

// artifactWriter abstracts how generator outputs reach disk.
type artifactWriter interface {
	EnsureDir(ctx context.Context, path string) error
	WriteFile(ctx context.Context, req writeFileRequest) error
	CopyFile(ctx context.Context, src, dst string) error
	Exists(path string) bool
}

func newArtifactWriter() artifactWriter {
	return &fsWriter{}
}

type fsWriter struct{}

func (w *fsWriter) EnsureDir(ctx context.Context, path string) error {
	if strings.TrimSpace(path) == "" || path == "." {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("generator: ensure dir %s: %w", path, err)
	}
	return nil
}

func (w *fsWriter) WriteFile(ctx context.Context, req writeFileRequest) error {
	if req.Content == nil {
		return errors.New("generator: write requires content reader")
	}
	if strings.TrimSpace(req.Path) == "" {
		return errors.New("generator: write requires path")
	}
	if err := w.EnsureDir(ctx, filepath.Dir(req.Path)); err != nil {
		return err
	}
	file, err := os.Create(req.Path)
	if err != nil {
		return fmt.Errorf("generator: write %s %s: %w", req.Category, req.Path, err)
	}
	if _, err := io.Copy(file, req.Content); err != nil {
		file.Close()
		_ = os.Remove(req.Path)
		return fmt.Errorf("generator: write %s %s: %w", req.Category, req.Path, err)
	}
	return file.Close()
}

func (w *fsWriter) CopyFile(ctx context.Context, src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("generator: read %s: %w", src, err)
	}
	return w.WriteFile(ctx, writeFileRequest{
		Path:     dst,
		Content:  bytes.NewReader(data),
		Category: categoryAsset,
	})
}

func (w *fsWriter) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
