// Package schema has configs, models and shared types for all parts of repoaudit.
package schema

import "time"

// FileEntry describes one file from the trusted manifest.
// Entries are immutable once read from the manifest.
type FileEntry struct {
	Path          string `json:"path"`                // Relative path within the repository
	ByteSize      int64  `json:"byteSize"`            // Size of the file content in bytes
	TokenEstimate int    `json:"tokenEstimate"`       // Estimated LLM tokens for the content
	SourceURL     string `json:"sourceUrl,omitempty"` // Optional direct content URL
}

// Manifest is the pre-validated, trusted list of files for a repository
// snapshot, along with the ownership and access metadata needed to fetch
// content. It is the source of truth for which paths exist.
type Manifest struct {
	RepoID        string      `json:"repoId"`
	Owner         string      `json:"owner"`
	Repo          string      `json:"repo"`
	Ref           string      `json:"ref"`
	Private       bool        `json:"private"`
	CredentialRef string      `json:"credentialRef,omitempty"` // Reference to an encrypted token, never plaintext
	ExpiresAt     time.Time   `json:"expiresAt,omitzero"`
	Files         []FileEntry `json:"files"`
}

// PathSet returns a lookup map of all manifest paths for O(1) allow-list checks.
func (m *Manifest) PathSet() map[string]FileEntry {
	set := make(map[string]FileEntry, len(m.Files))
	for _, f := range m.Files {
		set[f.Path] = f
	}
	return set
}

// TotalTokens returns the summed token estimate across all manifest files.
func (m *Manifest) TotalTokens() int {
	total := 0
	for _, f := range m.Files {
		total += f.TokenEstimate
	}
	return total
}

// Chunk is a token-budget-bounded group of files assigned one analysis task.
// Chunks are ephemeral: created per audit run, never persisted.
type Chunk struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Files       []FileEntry `json:"files"`
	TotalTokens int         `json:"totalTokens"`
	Priority    int         `json:"priority"`
}

// ComplexityFingerprint summarizes a manifest for cost estimation.
// It is derived once per manifest and consumed by the estimator.
type ComplexityFingerprint struct {
	FileCount             int      `json:"fileCount"`
	TotalBytes            int64    `json:"totalBytes"`
	TokenEstimate         int      `json:"tokenEstimate"`
	FrontendFiles         int      `json:"frontendFiles"`
	BackendFiles          int      `json:"backendFiles"`
	TestFiles             int      `json:"testFiles"`
	ConfigFiles           int      `json:"configFiles"`
	SQLFiles              int      `json:"sqlFiles"`
	FrameworkFlags        []string `json:"frameworkFlags"`
	APIEndpointsEstimated int      `json:"apiEndpointsEstimated"`
}

// CostEstimate is the estimator's quote for one audit run.
type CostEstimate struct {
	Tier            AuditTier `json:"tier"`
	EstimatedTokens int       `json:"estimatedTokens"`
	TokenCeiling    int       `json:"tokenCeiling"`
}
