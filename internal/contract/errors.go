package contract

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for the failure modes the pipeline must tell apart.
// User-facing behavior distinguishes not-found, private, rate-limited and
// internal failures because each carries a different recovery action.
var (
	// ErrAuthentication signals a missing or invalid credential.
	ErrAuthentication = errors.New("authentication failed")

	// ErrPrivateRepo signals a repository that exists but is inaccessible
	// without an elevated credential. Distinguished from not-found because
	// the recovery path is authorization, not a spelling fix.
	ErrPrivateRepo = errors.New("repository is private and requires authorization")

	// ErrRepoNotFound signals a repository that does not exist at the source.
	ErrRepoNotFound = errors.New("repository not found")

	// ErrFileNotFound signals a path absent from an archive index or the source.
	ErrFileNotFound = errors.New("file not found")

	// ErrArchiveNotFound signals a repoId with no stored snapshot.
	ErrArchiveNotFound = errors.New("archive not found")

	// ErrNoValidFiles signals a task whose target files are entirely absent
	// from the trusted manifest. No LLM call is made for such a task.
	ErrNoValidFiles = errors.New("requested files do not exist")

	// ErrAllFetchesFailed signals a task where every content fetch failed.
	// The chunk is aborted before any LLM call rather than letting the model
	// analyze zero context.
	ErrAllFetchesFailed = errors.New("could not retrieve any file content")
)

// ValidationError reports malformed input. Non-retryable.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// RateLimitError reports source API throttling. Retryable with backoff.
type RateLimitError struct {
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
	}
	return "rate limited"
}

// ArchiveStorageError reports a failed archive mutation. Fatal to the owning
// run: a partially written archive would silently corrupt every downstream
// analysis, so there is no silent fallback.
type ArchiveStorageError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *ArchiveStorageError) Error() string {
	return fmt.Sprintf("archive storage failure during %s: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *ArchiveStorageError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether the caller may retry the operation.
func IsRetryable(err error) bool {
	var rateErr *RateLimitError
	return errors.As(err, &rateErr)
}

// UserFacingMessage maps an error to the message and recovery hint shown to
// the end user.
func UserFacingMessage(err error) string {
	var rateErr *RateLimitError
	var valErr *ValidationError
	var storeErr *ArchiveStorageError
	switch {
	case errors.Is(err, ErrRepoNotFound), errors.Is(err, ErrFileNotFound), errors.Is(err, ErrArchiveNotFound):
		return "Not found. Check the repository owner, name and ref."
	case errors.Is(err, ErrPrivateRepo):
		return "This repository is private. Connect an access token with read permission and try again."
	case errors.Is(err, ErrAuthentication):
		return "Authentication failed. The stored credential is missing or expired; reconnect your account."
	case errors.As(err, &rateErr):
		return "The source API is rate limiting us. Wait a few minutes and retry."
	case errors.As(err, &valErr):
		return fmt.Sprintf("Invalid input: %v.", err)
	case errors.As(err, &storeErr):
		return "Internal storage error. The run was aborted to avoid analyzing a corrupt snapshot."
	default:
		return "Internal error. Try again, and report the problem if it persists."
	}
}
