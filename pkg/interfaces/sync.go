package interfaces

import (
	"context"

	"github.com/google/uuid"
)

// Fetcher downloads a remote resource to a local file. Download never returns
// an error; failures are logged and reported as false.
type Fetcher interface {
	Download(ctx context.Context, url, destination string) bool
}

// SyncService regenerates the site content tree from the vault.
type SyncService interface {
	Sync(ctx context.Context) (*SyncResult, error)
}

// FixService rewrites vault documents in place into the normalised metadata layout.
type FixService interface {
	Fix(ctx context.Context, opts FixOptions) (*FixResult, error)
}

// SyncResult summarises a full sync run.
type SyncResult struct {
	RunID      uuid.UUID
	Processed  int
	Errors     int
	Downloaded int
	Documents  []SyncedDocument
	Failures   []SyncFailure
}

// SyncedDocument describes one successfully emitted document.
type SyncedDocument struct {
	Source    string
	Slug      string
	Path      string
	Images    int
	HeroImage string
}

// SyncFailure records a document that could not be processed.
type SyncFailure struct {
	Source string
	Err    error
}

// FixOptions controls a vault frontmatter rewrite.
type FixOptions struct {
	DryRun bool
}

// FixResult summarises a vault frontmatter rewrite.
type FixResult struct {
	Scanned   int
	Rewritten []string
	Unchanged int
	Errors    []SyncFailure
}
