package contract

import (
	"context"
	"time"

	"github.com/Farahprojects/repoaudit/schema"
	"github.com/stretchr/testify/mock"
)

// MockSourceClient is a mock implementation of SourceClient for testing.
type MockSourceClient struct {
	mock.Mock
}

var _ SourceClient = &MockSourceClient{} // Compile-time check

// DownloadSnapshot implements the SourceClient interface.
func (m *MockSourceClient) DownloadSnapshot(ctx context.Context, owner, repo, ref, token string) ([]byte, error) {
	args := m.Called(ctx, owner, repo, ref, token)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

// ListTree implements the SourceClient interface.
func (m *MockSourceClient) ListTree(ctx context.Context, owner, repo, ref, token string) ([]schema.RemoteFile, error) {
	args := m.Called(ctx, owner, repo, ref, token)
	files, _ := args.Get(0).([]schema.RemoteFile)
	return files, args.Error(1)
}

// FetchFile implements the SourceClient interface.
func (m *MockSourceClient) FetchFile(ctx context.Context, owner, repo, ref, path, token string) ([]byte, error) {
	args := m.Called(ctx, owner, repo, ref, path, token)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

// FetchURL implements the SourceClient interface.
func (m *MockSourceClient) FetchURL(ctx context.Context, rawURL, token string) ([]byte, error) {
	args := m.Called(ctx, rawURL, token)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

// MockLLMClient is a mock implementation of LLMClient for testing.
type MockLLMClient struct {
	mock.Mock
}

var _ LLMClient = &MockLLMClient{} // Compile-time check

// Complete implements the LLMClient interface.
func (m *MockLLMClient) Complete(ctx context.Context, req schema.CompletionRequest) (schema.CompletionResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(schema.CompletionResponse)
	return resp, args.Error(1)
}

// MockArchiveReader is a mock implementation of ArchiveReader for testing.
type MockArchiveReader struct {
	mock.Mock
}

var _ ArchiveReader = &MockArchiveReader{} // Compile-time check

// ReadFile implements the ArchiveReader interface.
func (m *MockArchiveReader) ReadFile(ctx context.Context, repoID, path string) ([]byte, error) {
	args := m.Called(ctx, repoID, path)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

// ReadFiles implements the ArchiveReader interface.
func (m *MockArchiveReader) ReadFiles(ctx context.Context, repoID string, paths []string) (map[string][]byte, error) {
	args := m.Called(ctx, repoID, paths)
	files, _ := args.Get(0).(map[string][]byte)
	return files, args.Error(1)
}

// MockArchiveStore is a mock implementation of ArchiveStore for testing.
type MockArchiveStore struct {
	mock.Mock
}

var _ ArchiveStore = &MockArchiveStore{} // Compile-time check

// GetArchive implements the ArchiveStore interface.
func (m *MockArchiveStore) GetArchive(repoID string) ([]byte, schema.RepoArchive, error) {
	args := m.Called(repoID)
	blob, _ := args.Get(0).([]byte)
	meta, _ := args.Get(1).(schema.RepoArchive)
	return blob, meta, args.Error(2)
}

// PutArchive implements the ArchiveStore interface.
func (m *MockArchiveStore) PutArchive(meta schema.RepoArchive, blob []byte) error {
	args := m.Called(meta, blob)
	return args.Error(0)
}

// TouchArchive implements the ArchiveStore interface.
func (m *MockArchiveStore) TouchArchive(repoID string, accessed time.Time) error {
	args := m.Called(repoID, accessed)
	return args.Error(0)
}

// DeleteArchive implements the ArchiveStore interface.
func (m *MockArchiveStore) DeleteArchive(repoID string) error {
	args := m.Called(repoID)
	return args.Error(0)
}

// GetStatus implements the ArchiveStore interface.
func (m *MockArchiveStore) GetStatus() (schema.ArchiveStatus, error) {
	args := m.Called()
	status, _ := args.Get(0).(schema.ArchiveStatus)
	return status, args.Error(1)
}

// Close implements the ArchiveStore interface.
func (m *MockArchiveStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockArchiveManager is a mock implementation of ArchiveManager for testing.
type MockArchiveManager struct {
	mock.Mock
}

var _ ArchiveManager = &MockArchiveManager{} // Compile-time check

// ReadFile implements the ArchiveManager interface.
func (m *MockArchiveManager) ReadFile(ctx context.Context, repoID, path string) ([]byte, error) {
	args := m.Called(ctx, repoID, path)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

// ReadFiles implements the ArchiveManager interface.
func (m *MockArchiveManager) ReadFiles(ctx context.Context, repoID string, paths []string) (map[string][]byte, error) {
	args := m.Called(ctx, repoID, paths)
	files, _ := args.Get(0).(map[string][]byte)
	return files, args.Error(1)
}

// Populate implements the ArchiveManager interface.
func (m *MockArchiveManager) Populate(ctx context.Context, repoID, owner, repo, ref, token string) (schema.RepoArchive, error) {
	args := m.Called(ctx, repoID, owner, repo, ref, token)
	meta, _ := args.Get(0).(schema.RepoArchive)
	return meta, args.Error(1)
}

// Sync implements the ArchiveManager interface.
func (m *MockArchiveManager) Sync(ctx context.Context, repoID, owner, repo, ref, token string) (schema.SyncResult, error) {
	args := m.Called(ctx, repoID, owner, repo, ref, token)
	res, _ := args.Get(0).(schema.SyncResult)
	return res, args.Error(1)
}

// PatchFile implements the ArchiveManager interface.
func (m *MockArchiveManager) PatchFile(ctx context.Context, repoID, path string, newContent []byte) error {
	args := m.Called(ctx, repoID, path, newContent)
	return args.Error(0)
}

// Delete implements the ArchiveManager interface.
func (m *MockArchiveManager) Delete(repoID string) error {
	args := m.Called(repoID)
	return args.Error(0)
}

// Meta implements the ArchiveManager interface.
func (m *MockArchiveManager) Meta(repoID string) (schema.RepoArchive, error) {
	args := m.Called(repoID)
	meta, _ := args.Get(0).(schema.RepoArchive)
	return meta, args.Error(1)
}

// Status implements the ArchiveManager interface.
func (m *MockArchiveManager) Status() (schema.ArchiveStatus, error) {
	args := m.Called()
	status, _ := args.Get(0).(schema.ArchiveStatus)
	return status, args.Error(1)
}
