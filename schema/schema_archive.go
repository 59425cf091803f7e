package schema

import "time"

// FileIndexEntry describes one file inside an archived snapshot.
type FileIndexEntry struct {
	Size int64     `json:"size"`
	Hash string    `json:"hash"` // sha256 hex digest of the file content
	Type FileClass `json:"type"`
}

// RepoArchive is the persisted metadata for one compressed repository
// snapshot. One row per repository identity; all mutation is serialized
// per RepoID by the archive service.
type RepoArchive struct {
	RepoID       string                    `json:"repoId"`
	BlobHash     string                    `json:"blobHash"` // sha256 of the compressed blob
	BlobSize     int64                     `json:"blobSize"` // compressed size in bytes
	FileIndex    map[string]FileIndexEntry `json:"fileIndex"`
	LastAccessed time.Time                 `json:"lastAccessed"`
}

// RemoteFile is one entry of a repository's file tree as reported by the
// source-hosting API. Used to reconcile an archive during sync.
type RemoteFile struct {
	Path string
	Size int64
	Hash string // provider content hash, comparable across sync calls
}

// SyncResult summarizes one incremental archive reconciliation.
type SyncResult struct {
	Added   int `json:"added"`
	Changed int `json:"changed"`
	Removed int `json:"removed"`
}

// ChangeCount returns the total number of files touched by the sync.
func (r SyncResult) ChangeCount() int {
	return r.Added + r.Changed + r.Removed
}

// ArchiveStatus reports aggregate information about the archive store.
type ArchiveStatus struct {
	Backend        string    `json:"backend"`
	Connected      bool      `json:"connected"`
	TotalArchives  int       `json:"totalArchives"`
	TotalBlobBytes int64     `json:"totalBlobBytes"`
	OldestAccess   time.Time `json:"oldestAccess,omitzero"`
	NewestAccess   time.Time `json:"newestAccess,omitzero"`
}
