// Package sourceclient implements the source-hosting API collaborator:
// bulk snapshot download, per-file content fetch and tree listing.
package sourceclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Farahprojects/repoaudit/internal/contract"
	"github.com/Farahprojects/repoaudit/schema"
)

const (
	defaultAPIBaseURL  = "https://api.github.com"
	defaultHTTPTimeout = 30 * time.Second
)

// trustedRawHosts are the hosts a FileEntry.SourceURL may point at. Anything
// else is rejected before a byte is fetched.
var trustedRawHosts = map[string]struct{}{
	"raw.githubusercontent.com": {},
	"api.github.com":            {},
	"github.com":                {},
}

// Client talks to a GitHub-compatible content API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ contract.SourceClient = &Client{} // Compile-time check

// Option customizes the source client.
type Option func(*Client)

// WithBaseURL overrides the default API base (useful for tests/mocks).
func WithBaseURL(base string) Option {
	return func(c *Client) {
		base = strings.TrimSpace(base)
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a source API client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:    defaultAPIBaseURL,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// DownloadSnapshot fetches one gzipped tarball of the repository at ref.
// This is the single bulk call that backs archive population.
func (c *Client) DownloadSnapshot(ctx context.Context, owner, repo, ref, token string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/tarball/%s", c.baseURL, owner, repo, url.PathEscape(ref))
	return c.get(ctx, endpoint, token, "", false)
}

// ListTree returns the flat file tree of the repository at ref.
func (c *Client) ListTree(ctx context.Context, owner, repo, ref, token string) ([]schema.RemoteFile, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/git/trees/%s?recursive=1", c.baseURL, owner, repo, url.PathEscape(ref))
	body, err := c.get(ctx, endpoint, token, "application/vnd.github+json", false)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Tree []struct {
			Path string `json:"path"`
			Type string `json:"type"`
			Size int64  `json:"size"`
			SHA  string `json:"sha"`
		} `json:"tree"`
		Truncated bool `json:"truncated"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode tree listing: %w", err)
	}

	files := make([]schema.RemoteFile, 0, len(payload.Tree))
	for _, entry := range payload.Tree {
		if entry.Type != "blob" {
			continue
		}
		files = append(files, schema.RemoteFile{Path: entry.Path, Size: entry.Size, Hash: entry.SHA})
	}
	if payload.Truncated {
		contract.LogWarn("tree listing truncated by the source API; sync may miss files", nil)
	}
	return files, nil
}

// FetchFile fetches one file's raw content by repository path.
func (c *Client) FetchFile(ctx context.Context, owner, repo, ref, path, token string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/contents/%s?ref=%s",
		c.baseURL, owner, repo, escapePath(path), url.QueryEscape(ref))
	return c.get(ctx, endpoint, token, "application/vnd.github.raw+json", true)
}

// FetchURL fetches raw content from a direct source URL. The caller is
// responsible for validating the URL against the trusted repository first
// (see ValidateSourceURL).
func (c *Client) FetchURL(ctx context.Context, rawURL, token string) ([]byte, error) {
	return c.get(ctx, rawURL, token, "", true)
}

// get performs one authenticated GET and maps HTTP errors to the pipeline's
// error taxonomy. fileScoped controls whether a 404 means a missing file or
// a missing repository.
func (c *Client) get(ctx context.Context, endpoint, token, accept string, fileScoped bool) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := mapStatus(resp, token, fileScoped); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return body, nil
}

// mapStatus converts the API's HTTP status codes into typed errors so callers
// can pick the right recovery path.
func mapStatus(resp *http.Response, token string, fileScoped bool) error {
	switch {
	case resp.StatusCode < http.StatusMultipleChoices:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return contract.ErrAuthentication
	case resp.StatusCode == http.StatusForbidden, resp.StatusCode == http.StatusTooManyRequests:
		if remaining := resp.Header.Get("X-RateLimit-Remaining"); remaining == "0" || resp.StatusCode == http.StatusTooManyRequests {
			return &contract.RateLimitError{RetryAfter: retryAfter(resp)}
		}
		return contract.ErrPrivateRepo
	case resp.StatusCode == http.StatusNotFound:
		// The API reports an inaccessible private repository as 404. Without
		// a credential that ambiguity resolves to "needs authorization".
		if token == "" && !fileScoped {
			return contract.ErrPrivateRepo
		}
		if fileScoped {
			return contract.ErrFileNotFound
		}
		return contract.ErrRepoNotFound
	default:
		return fmt.Errorf("source API returned http %d", resp.StatusCode)
	}
}

// retryAfter extracts the server's backoff hint, if any.
func retryAfter(resp *http.Response) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return 0
}

// escapePath escapes each path segment while preserving separators.
func escapePath(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

// ValidateSourceURL checks that a manifest-supplied direct URL belongs to the
// declared repository: trusted host, and a path rooted at owner/repo. This is
// the allow-list guard against cross-repo or non-trusted fetch targets.
func ValidateSourceURL(rawURL, owner, repo string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return &contract.ValidationError{Field: "sourceUrl", Reason: "not a valid URL"}
	}
	if parsed.Scheme != "https" {
		return &contract.ValidationError{Field: "sourceUrl", Reason: "must use https"}
	}
	if _, ok := trustedRawHosts[parsed.Host]; !ok {
		return &contract.ValidationError{Field: "sourceUrl", Reason: fmt.Sprintf("untrusted host %q", parsed.Host)}
	}

	segments := strings.Split(strings.TrimPrefix(parsed.Path, "/"), "/")
	// api.github.com paths are /repos/{owner}/{repo}/..., the raw and web
	// hosts use /{owner}/{repo}/...
	if len(segments) > 0 && segments[0] == "repos" {
		segments = segments[1:]
	}
	if len(segments) < 2 || segments[0] != owner || segments[1] != repo {
		return &contract.ValidationError{Field: "sourceUrl", Reason: "URL does not belong to the declared repository"}
	}
	return nil
}
