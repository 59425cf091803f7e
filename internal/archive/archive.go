package archive

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Farahprojects/repoaudit/internal/contract"
	"github.com/Farahprojects/repoaudit/schema"
)

// Service is the repository archive cache. It owns the single-writer
// discipline: all mutation of one repoId is serialized behind a per-key
// lock, while reads only share the store's read path.
type Service struct {
	store  contract.ArchiveStore
	source contract.SourceClient

	mu    sync.Mutex // guards locks
	locks map[string]*sync.Mutex
}

var _ contract.ArchiveManager = &Service{} // Compile-time check

// NewService wires an archive store and a source client into a Service.
func NewService(store contract.ArchiveStore, source contract.SourceClient) *Service {
	return &Service{
		store:  store,
		source: source,
		locks:  make(map[string]*sync.Mutex),
	}
}

// lockFor returns the mutation lock for one repository identity.
func (s *Service) lockFor(repoID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[repoID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[repoID] = lock
	}
	return lock
}

// Populate downloads one bulk snapshot, strips noise, builds the file index
// and persists the recompressed archive. Failure here is fatal to the calling
// workflow: a partial snapshot would silently corrupt every downstream
// analysis, so there is no fallback.
func (s *Service) Populate(ctx context.Context, repoID, owner, repo, ref, token string) (schema.RepoArchive, error) {
	lock := s.lockFor(repoID)
	lock.Lock()
	defer lock.Unlock()

	var meta schema.RepoArchive

	tarball, err := s.source.DownloadSnapshot(ctx, owner, repo, ref, token)
	if err != nil {
		return meta, fmt.Errorf("download snapshot for %s: %w", repoID, err)
	}

	files, err := extractTarball(tarball)
	if err != nil {
		return meta, fmt.Errorf("extract snapshot for %s: %w", repoID, err)
	}

	return s.writeArchive(repoID, files)
}

// writeArchive compresses and persists a file set under the caller-held lock.
func (s *Service) writeArchive(repoID string, files map[string][]byte) (schema.RepoArchive, error) {
	var meta schema.RepoArchive

	blob, err := compressSnapshot(files)
	if err != nil {
		return meta, &contract.ArchiveStorageError{Op: "compress", Err: err}
	}

	meta = schema.RepoArchive{
		RepoID:       repoID,
		BlobHash:     hashContent(blob),
		BlobSize:     int64(len(blob)),
		FileIndex:    buildIndex(files),
		LastAccessed: time.Now(),
	}
	if err := s.store.PutArchive(meta, blob); err != nil {
		return meta, err
	}
	return meta, nil
}

// ReadFile extracts one file from the archive. A path absent from the index
// returns ErrFileNotFound, never empty content. The last-accessed bump runs
// in the background with no completion guarantee: it is telemetry, not a
// correctness dependency.
func (s *Service) ReadFile(ctx context.Context, repoID, path string) ([]byte, error) {
	files, err := s.ReadFiles(ctx, repoID, []string{path})
	if err != nil {
		return nil, err
	}
	content, ok := files[path]
	if !ok {
		return nil, fmt.Errorf("%s in %s: %w", path, repoID, contract.ErrFileNotFound)
	}
	return content, nil
}

// ReadFiles extracts multiple files with a single decompression pass.
// Paths absent from the index are left out of the returned map.
func (s *Service) ReadFiles(_ context.Context, repoID string, paths []string) (map[string][]byte, error) {
	blob, meta, err := s.store.GetArchive(repoID)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		if _, ok := meta.FileIndex[p]; ok {
			wanted[p] = struct{}{}
		}
	}
	if len(wanted) == 0 {
		return map[string][]byte{}, nil
	}

	files, err := decompressSnapshot(blob, wanted)
	if err != nil {
		return nil, &contract.ArchiveStorageError{Op: "read", Err: err}
	}

	go func() {
		if err := s.store.TouchArchive(repoID, time.Now()); err != nil {
			contract.LogWarn("archive last-accessed update failed", err)
		}
	}()

	return files, nil
}

// Sync reconciles the archive against the live source incrementally, fetching
// only added or changed files. Any failure is fatal to the caller: a cache
// known to be stale after a failed sync attempt must never be served.
func (s *Service) Sync(ctx context.Context, repoID, owner, repo, ref, token string) (schema.SyncResult, error) {
	lock := s.lockFor(repoID)
	lock.Lock()
	defer lock.Unlock()

	var result schema.SyncResult

	blob, _, err := s.store.GetArchive(repoID)
	if err != nil {
		return result, err
	}
	files, err := decompressSnapshot(blob, nil)
	if err != nil {
		return result, &contract.ArchiveStorageError{Op: "sync", Err: err}
	}

	remote, err := s.source.ListTree(ctx, owner, repo, ref, token)
	if err != nil {
		return result, fmt.Errorf("list remote tree for %s: %w", repoID, err)
	}

	remoteSet := make(map[string]schema.RemoteFile, len(remote))
	for _, rf := range remote {
		if isNoisePath(rf.Path) || rf.Size > maxFileBytes {
			continue
		}
		remoteSet[rf.Path] = rf
	}

	// Added and changed files need a content fetch; the git blob hash of the
	// stored content tells us which local copies are still current.
	for path, rf := range remoteSet {
		local, exists := files[path]
		if exists && gitBlobSHA(local) == rf.Hash {
			continue
		}
		content, err := s.source.FetchFile(ctx, owner, repo, ref, path, token)
		if err != nil {
			return schema.SyncResult{}, fmt.Errorf("fetch %s during sync: %w", path, err)
		}
		files[path] = content
		if exists {
			result.Changed++
		} else {
			result.Added++
		}
	}

	// Removed files disappear from both the blob and the index.
	for path := range files {
		if _, ok := remoteSet[path]; !ok {
			delete(files, path)
			result.Removed++
		}
	}

	if result.ChangeCount() == 0 {
		return result, nil
	}

	if _, err := s.writeArchive(repoID, files); err != nil {
		return schema.SyncResult{}, err
	}
	return result, nil
}

// PatchFile replaces one entry in the archive, used after an automated fix
// is applied upstream.
func (s *Service) PatchFile(_ context.Context, repoID, path string, newContent []byte) error {
	lock := s.lockFor(repoID)
	lock.Lock()
	defer lock.Unlock()

	blob, meta, err := s.store.GetArchive(repoID)
	if err != nil {
		return err
	}
	if _, ok := meta.FileIndex[path]; !ok {
		return fmt.Errorf("%s in %s: %w", path, repoID, contract.ErrFileNotFound)
	}

	files, err := decompressSnapshot(blob, nil)
	if err != nil {
		return &contract.ArchiveStorageError{Op: "patch", Err: err}
	}
	files[path] = newContent

	if _, err := s.writeArchive(repoID, files); err != nil {
		return err
	}
	return nil
}

// Delete purges the archive for one repository.
func (s *Service) Delete(repoID string) error {
	lock := s.lockFor(repoID)
	lock.Lock()
	defer lock.Unlock()
	return s.store.DeleteArchive(repoID)
}

// Meta returns the archive metadata without touching the blob. Used to build
// a manifest from an existing archive.
func (s *Service) Meta(repoID string) (schema.RepoArchive, error) {
	_, meta, err := s.store.GetArchive(repoID)
	return meta, err
}

// Status reports aggregate information about the backing store.
func (s *Service) Status() (schema.ArchiveStatus, error) {
	return s.store.GetStatus()
}
