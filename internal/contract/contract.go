// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/Farahprojects/repoaudit/schema"
)

// SourceClient defines the operations needed against the source-hosting API.
// This allows the archive and worker layers to be tested without network access.
type SourceClient interface {
	// DownloadSnapshot fetches one bulk gzipped tarball of the repository at ref.
	DownloadSnapshot(ctx context.Context, owner, repo, ref, token string) ([]byte, error)

	// ListTree returns the flat file tree of the repository at ref, used to
	// reconcile an archive incrementally during sync.
	ListTree(ctx context.Context, owner, repo, ref, token string) ([]schema.RemoteFile, error)

	// FetchFile fetches one file's raw content by repository path.
	FetchFile(ctx context.Context, owner, repo, ref, path, token string) ([]byte, error)

	// FetchURL fetches raw content from a direct source URL. Callers must
	// validate the URL against the trusted repository first.
	FetchURL(ctx context.Context, rawURL, token string) ([]byte, error)
}

// LLMClient defines the single operation needed against the inference endpoint.
type LLMClient interface {
	// Complete sends one system+user prompt pair and returns the free-form
	// response text plus token usage.
	Complete(ctx context.Context, req schema.CompletionRequest) (schema.CompletionResponse, error)
}

// ArchiveReader is the read-only view of the archive cache used by workers.
// Reads may proceed concurrently with reads.
type ArchiveReader interface {
	// ReadFile returns exactly the stored bytes for one path, or
	// ErrFileNotFound when the path is absent from the archive index.
	ReadFile(ctx context.Context, repoID, path string) ([]byte, error)

	// ReadFiles extracts multiple paths with a single decompression pass.
	// Missing paths are simply absent from the returned map.
	ReadFiles(ctx context.Context, repoID string, paths []string) (map[string][]byte, error)
}

// ArchiveManager is the full archive cache surface: the worker read path
// plus the serialized mutation path used by orchestration and the CLI.
type ArchiveManager interface {
	ArchiveReader

	// Populate downloads a fresh snapshot and replaces the stored archive.
	// Failure here is fatal to the owning run.
	Populate(ctx context.Context, repoID, owner, repo, ref, token string) (schema.RepoArchive, error)

	// Sync reconciles the stored archive against the remote tree, rewriting
	// the blob only when something changed.
	Sync(ctx context.Context, repoID, owner, repo, ref, token string) (schema.SyncResult, error)

	// PatchFile overwrites one file inside the archive.
	PatchFile(ctx context.Context, repoID, path string, newContent []byte) error

	// Delete removes the stored archive.
	Delete(repoID string) error

	// Meta returns the archive metadata without decompressing the blob.
	Meta(repoID string) (schema.RepoArchive, error)

	// Status reports aggregate store information.
	Status() (schema.ArchiveStatus, error)
}

// ArchiveStore defines the row storage for compressed repository snapshots.
// This allows mocking the store for testing.
type ArchiveStore interface {
	// GetArchive returns the compressed blob and its metadata, or
	// ErrArchiveNotFound when no row exists for repoID.
	GetArchive(repoID string) ([]byte, schema.RepoArchive, error)

	// PutArchive inserts or replaces the archive row for meta.RepoID.
	PutArchive(meta schema.RepoArchive, blob []byte) error

	// TouchArchive updates the last-accessed timestamp. Telemetry only:
	// callers fire and forget.
	TouchArchive(repoID string, accessed time.Time) error

	// DeleteArchive purges the archive row.
	DeleteArchive(repoID string) error

	// GetStatus returns aggregate information about the store.
	GetStatus() (schema.ArchiveStatus, error)

	// Close closes the underlying connection.
	Close() error
}
