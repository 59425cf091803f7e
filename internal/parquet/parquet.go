// Package parquet provides data structures and functions for exporting audit
// reports to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Farahprojects/repoaudit/schema"
	"github.com/parquet-go/parquet-go"
)

// AuditRun represents one audit run with its score and run statistics.
type AuditRun struct {
	// RepoID is the repository identity, "owner/repo"
	RepoID string `parquet:"repo_id,snappy"`

	// Ref is the audited git reference
	Ref string `parquet:"ref,snappy"`

	// Tier is the audit depth the run was executed at
	Tier string `parquet:"tier,snappy"`

	// RunTime is when the report was exported (TIMESTAMP with nanosecond precision)
	RunTime time.Time `parquet:"run_time,snappy"`

	// HealthScore is the final penalized score, 0-100
	HealthScore int32 `parquet:"health_score,snappy"`

	// Summary is the deterministic banded summary line
	Summary string `parquet:"summary,snappy"`

	// RiskLevel is the most severe worker-reported risk (nullable)
	RiskLevel *string `parquet:"risk_level,optional,snappy"`

	// Partial marks reports from cancelled runs
	Partial bool `parquet:"partial,snappy"`

	// TotalChunks is the number of chunks dispatched
	TotalChunks int32 `parquet:"total_chunks,snappy"`

	// CompletedChunks is the number of chunks that produced a finding
	CompletedChunks int32 `parquet:"completed_chunks,snappy"`

	// FailedChunks is the number of chunks that failed entirely
	FailedChunks int32 `parquet:"failed_chunks,snappy"`

	// TotalTokensAnalyzed sums content tokens across completed chunks
	TotalTokensAnalyzed int64 `parquet:"total_tokens_analyzed,snappy"`

	// AvgConfidence is the mean worker confidence, 0-1
	AvgConfidence float64 `parquet:"avg_confidence,snappy"`
}

// AuditIssue represents one deduplicated issue of an audit report.
type AuditIssue struct {
	// RepoID references the parent audit run
	RepoID string `parquet:"repo_id,snappy"`

	// Rank is the 1-based position in the severity-sorted issue list
	Rank int32 `parquet:"rank,snappy"`

	// Severity is critical, warning or info
	Severity string `parquet:"severity,snappy"`

	// Category is the worker-assigned issue category
	Category string `parquet:"category,snappy"`

	// Title is the issue headline
	Title string `parquet:"title,snappy"`

	// Description is the full issue body
	Description string `parquet:"description,snappy"`

	// FilePath is the repository path the issue points at
	FilePath string `parquet:"file_path,snappy"`

	// Line is the 1-based line number, 0 when unknown
	Line int32 `parquet:"line,snappy"`

	// Suggestion is the recommended fix (nullable)
	Suggestion *string `parquet:"suggestion,optional,snappy"`
}

// BuildAuditRun flattens a synthesis result into one exportable run record.
func BuildAuditRun(result *schema.SynthesisResult, repoID, ref string, tier schema.AuditTier) AuditRun {
	run := AuditRun{
		RepoID:              repoID,
		Ref:                 ref,
		Tier:                string(tier),
		RunTime:             time.Now(),
		HealthScore:         int32(result.HealthScore),
		Summary:             result.Summary,
		Partial:             result.Partial,
		TotalChunks:         int32(result.WorkerStats.TotalChunks),
		CompletedChunks:     int32(result.WorkerStats.CompletedChunks),
		FailedChunks:        int32(result.WorkerStats.FailedChunks),
		TotalTokensAnalyzed: int64(result.WorkerStats.TotalTokensAnalyzed),
		AvgConfidence:       result.WorkerStats.AvgConfidence,
	}
	if result.RiskLevel != "" {
		risk := string(result.RiskLevel)
		run.RiskLevel = &risk
	}
	return run
}

// BuildAuditIssues flattens the issue list into exportable records.
func BuildAuditIssues(result *schema.SynthesisResult, repoID string) []AuditIssue {
	issues := make([]AuditIssue, 0, len(result.Issues))
	for i, issue := range result.Issues {
		rec := AuditIssue{
			RepoID:      repoID,
			Rank:        int32(i + 1),
			Severity:    string(issue.Severity),
			Category:    issue.Category,
			Title:       issue.Title,
			Description: issue.Description,
			FilePath:    issue.File,
			Line:        int32(issue.Line),
		}
		if s := strings.TrimSpace(issue.Suggestion); s != "" {
			rec.Suggestion = &s
		}
		issues = append(issues, rec)
	}
	return issues
}

// WriteAuditRunsParquet writes a slice of AuditRun structs to a Parquet file.
func WriteAuditRunsParquet(data []AuditRun, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the AuditRun struct tags
	writer := parquet.NewGenericWriter[AuditRun](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteAuditIssuesParquet writes a slice of AuditIssue structs to a Parquet file.
func WriteAuditIssuesParquet(data []AuditIssue, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the AuditIssue struct tags
	writer := parquet.NewGenericWriter[AuditIssue](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}
