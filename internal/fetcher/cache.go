package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/goliatone/go-vaultsync/pkg/interfaces"
)

// ErrDownloadFailed is returned by Cache.Resolve when the fetch reported failure.
var ErrDownloadFailed = errors.New("fetcher: download failed")

// Cache remembers which URLs were downloaded during one sync run and where.
// A URL is fetched at most once per run; later requests for a different
// destination copy the stored file instead. Concurrent requests for the same
// URL share one fetch.
type Cache struct {
	fetcher interfaces.Fetcher

	mu    sync.Mutex
	files map[string]string
	group singleflight.Group
}

// NewCache returns an empty cache backed by fetcher.
func NewCache(fetcher interfaces.Fetcher) *Cache {
	return &Cache{
		fetcher: fetcher,
		files:   map[string]string{},
	}
}

// Resolve makes rawURL available at destination.
func (c *Cache) Resolve(ctx context.Context, rawURL, destination string) error {
	if stored, ok := c.lookup(rawURL); ok {
		return copyIfDifferent(stored, destination)
	}

	stored, err, _ := c.group.Do(rawURL, func() (any, error) {
		if stored, ok := c.lookup(rawURL); ok {
			return stored, nil
		}
		if !c.fetcher.Download(ctx, rawURL, destination) {
			return "", fmt.Errorf("%w: %s", ErrDownloadFailed, rawURL)
		}
		c.mu.Lock()
		c.files[rawURL] = destination
		c.mu.Unlock()
		return destination, nil
	})
	if err != nil {
		return err
	}
	return copyIfDifferent(stored.(string), destination)
}

// Downloaded reports how many distinct URLs were fetched.
func (c *Cache) Downloaded() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.files)
}

func (c *Cache) lookup(rawURL string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	stored, ok := c.files[rawURL]
	if !ok {
		return "", false
	}
	if _, err := os.Stat(stored); err != nil {
		delete(c.files, rawURL)
		return "", false
	}
	return stored, true
}

func copyIfDifferent(src, dst string) error {
	if filepath.Clean(src) == filepath.Clean(dst) {
		return nil
	}
	return CopyFile(src, dst)
}

// CopyFile copies src to dst, creating the parent directory of dst.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("fetcher: open %s: %w", src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("fetcher: create dir for %s: %w", dst, err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("fetcher: create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		_ = os.Remove(dst)
		return fmt.Errorf("fetcher: copy %s: %w", src, err)
	}
	return out.Close()
}
