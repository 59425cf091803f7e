package schema

import (
	"path/filepath"
	"strings"
)

// severityRanks orders issue severities for sorting, most severe first.
var severityRanks = map[Severity]int{
	SeverityCritical: 0,
	SeverityWarning:  1,
	SeverityInfo:     2,
}

// SeverityRank returns the sort rank of a severity. Unknown severities sort
// after info so malformed model output never floats to the top of a report.
func SeverityRank(s Severity) int {
	if rank, ok := severityRanks[s]; ok {
		return rank
	}
	return len(severityRanks)
}

// riskRanks orders worker risk levels, most severe first.
var riskRanks = map[RiskLevel]int{
	RiskCritical: 0,
	RiskHigh:     1,
	RiskMedium:   2,
	RiskLow:      3,
}

// MoreSevereRisk returns the more severe of two risk levels. An empty or
// unrecognized level always loses.
func MoreSevereRisk(a, b RiskLevel) RiskLevel {
	ra, okA := riskRanks[a]
	rb, okB := riskRanks[b]
	switch {
	case !okA:
		return b
	case !okB:
		return a
	case rb < ra:
		return b
	default:
		return a
	}
}

// frontendExts covers browser-delivered source files.
var frontendExts = map[string]struct{}{
	".js": {}, ".jsx": {}, ".ts": {}, ".tsx": {}, ".vue": {}, ".svelte": {},
	".html": {}, ".css": {}, ".scss": {}, ".less": {},
}

// backendExts covers server-side source files.
var backendExts = map[string]struct{}{
	".go": {}, ".py": {}, ".rb": {}, ".java": {}, ".kt": {}, ".rs": {},
	".php": {}, ".cs": {}, ".c": {}, ".cc": {}, ".cpp": {}, ".h": {}, ".ex": {}, ".exs": {},
}

// configNames covers well-known configuration file basenames.
var configNames = map[string]struct{}{
	"package.json": {}, "go.mod": {}, "go.sum": {}, "cargo.toml": {},
	"gemfile": {}, "requirements.txt": {}, "pyproject.toml": {}, "pom.xml": {},
	"dockerfile": {}, "makefile": {}, "tsconfig.json": {}, ".env.example": {},
}

// configExts covers configuration file extensions.
var configExts = map[string]struct{}{
	".yaml": {}, ".yml": {}, ".toml": {}, ".ini": {}, ".conf": {}, ".env": {},
}

// assetExts covers binary and media assets.
var assetExts = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".svg": {}, ".ico": {},
	".woff": {}, ".woff2": {}, ".ttf": {}, ".eot": {}, ".mp4": {}, ".webp": {},
}

// ClassifyPath assigns a coarse file class to a repository path. Test files
// win over language class so `foo_test.go` counts as a test, not backend.
func ClassifyPath(path string) FileClass {
	base := strings.ToLower(filepath.Base(path))
	ext := filepath.Ext(base)

	if strings.Contains(base, "_test.") || strings.Contains(base, ".test.") ||
		strings.Contains(base, ".spec.") || strings.HasPrefix(path, "test/") ||
		strings.Contains(path, "/test/") || strings.Contains(path, "/tests/") {
		return ClassTest
	}
	if ext == ".sql" {
		return ClassSQL
	}
	if _, ok := configNames[base]; ok {
		return ClassConfig
	}
	if _, ok := configExts[ext]; ok {
		return ClassConfig
	}
	if ext == ".md" || ext == ".rst" || ext == ".txt" {
		return ClassDoc
	}
	if _, ok := frontendExts[ext]; ok {
		return ClassFrontend
	}
	if _, ok := backendExts[ext]; ok {
		return ClassBackend
	}
	if _, ok := assetExts[ext]; ok {
		return ClassAsset
	}
	return ClassOther
}

// EstimateTokensForBytes converts a content size to an LLM token estimate
// using the usual ~4 bytes per token heuristic.
func EstimateTokensForBytes(size int64) int {
	const bytesPerToken = 4
	if size <= 0 {
		return 0
	}
	return int(size / bytesPerToken)
}
