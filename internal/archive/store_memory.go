package archive

import (
	"sync"
	"time"

	"github.com/Farahprojects/repoaudit/internal/contract"
	"github.com/Farahprojects/repoaudit/schema"
)

// memoryRow is one archived snapshot held in process memory.
type memoryRow struct {
	meta schema.RepoArchive
	blob []byte
}

// MemoryStore backs the "none" cache backend. Snapshots populated during a
// run stay readable for the rest of that run but are gone when the process
// exits. A populated archive must always serve reads, whatever the backend.
type MemoryStore struct {
	mu   sync.RWMutex
	rows map[string]memoryRow
}

var _ contract.ArchiveStore = &MemoryStore{} // Compile-time check

// NewMemoryStore returns an empty in-process archive store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[string]memoryRow)}
}

// GetArchive returns the held blob and metadata for one repository.
func (s *MemoryStore) GetArchive(repoID string) ([]byte, schema.RepoArchive, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.rows[repoID]
	if !ok {
		return nil, schema.RepoArchive{}, contract.ErrArchiveNotFound
	}
	return row.blob, row.meta, nil
}

// PutArchive inserts or replaces the held snapshot for meta.RepoID.
func (s *MemoryStore) PutArchive(meta schema.RepoArchive, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[meta.RepoID] = memoryRow{meta: meta, blob: blob}
	return nil
}

// TouchArchive updates the last-accessed timestamp for one repository.
func (s *MemoryStore) TouchArchive(repoID string, accessed time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[repoID]
	if !ok {
		return nil
	}
	row.meta.LastAccessed = accessed
	s.rows[repoID] = row
	return nil
}

// DeleteArchive drops the held snapshot for one repository.
func (s *MemoryStore) DeleteArchive(repoID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, repoID)
	return nil
}

// GetStatus reports the snapshots currently held in memory. Connected stays
// false: there is no durable connection behind this backend.
func (s *MemoryStore) GetStatus() (schema.ArchiveStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := schema.ArchiveStatus{
		Backend:       string(schema.NoneBackend),
		Connected:     false,
		TotalArchives: len(s.rows),
	}
	for _, row := range s.rows {
		status.TotalBlobBytes += row.meta.BlobSize
		accessed := row.meta.LastAccessed
		if status.OldestAccess.IsZero() || accessed.Before(status.OldestAccess) {
			status.OldestAccess = accessed
		}
		if accessed.After(status.NewestAccess) {
			status.NewestAccess = accessed
		}
	}
	return status, nil
}

// Close is a no-op: memory is released with the process.
func (s *MemoryStore) Close() error {
	return nil
}
