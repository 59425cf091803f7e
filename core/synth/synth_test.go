package synth

import (
	"testing"

	"github.com/Farahprojects/repoaudit/core/agg"
	"github.com/Farahprojects/repoaudit/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDedupIssues verifies duplicates collapse on normalized title plus
// file path, keeping the first occurrence.
func TestDedupIssues(t *testing.T) {
	issues := []schema.Issue{
		{Title: "SQL Injection in login", File: "auth.go", Severity: schema.SeverityCritical},
		{Title: "sql injection  in login!", File: "auth.go", Severity: schema.SeverityWarning},
		{Title: "SQL Injection in login", File: "admin.go", Severity: schema.SeverityCritical},
		{Title: "Missing error check", File: "auth.go"},
	}

	out := DedupIssues(issues)

	require.Len(t, out, 3)
	// First occurrence wins, including its severity.
	assert.Equal(t, schema.SeverityCritical, out[0].Severity)
	assert.Equal(t, "auth.go", out[0].File)
	assert.Equal(t, "admin.go", out[1].File)
	assert.Equal(t, "Missing error check", out[2].Title)
}

// TestDedupIssuesIdempotent verifies applying dedup to its own output
// changes nothing.
func TestDedupIssuesIdempotent(t *testing.T) {
	issues := []schema.Issue{
		{Title: "A", File: "a.go"},
		{Title: "a", File: "a.go"},
		{Title: "B", File: "b.go"},
	}

	once := DedupIssues(issues)
	twice := DedupIssues(once)

	assert.Equal(t, once, twice)
}

// TestNormalizeTitle tests title normalization.
func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		title    string
		expected string
	}{
		{"SQL Injection", "sql injection"},
		{"  SQL---Injection!! ", "sql injection"},
		{"missing_error_check", "missing error check"},
		{"CVE-2024-1234", "cve 2024 1234"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizeTitle(tt.title))
		})
	}
}

// TestWeightedScore verifies the tokensAnalyzed x confidence weighting.
func TestWeightedScore(t *testing.T) {
	findings := []schema.WorkerFinding{
		{LocalScore: 80, Confidence: 1.0, TokensAnalyzed: 1000},
		{LocalScore: 40, Confidence: 1.0, TokensAnalyzed: 500},
	}

	score, avgConfidence := weightedScore(findings)

	// (80*1000 + 40*500) / 1500 = 66.67, rounded.
	assert.Equal(t, 67, score)
	assert.InDelta(t, 1.0, avgConfidence, 0.001)
}

// TestWeightedScoreZeroWeight verifies fallback to the neutral score.
func TestWeightedScoreZeroWeight(t *testing.T) {
	findings := []schema.WorkerFinding{
		{LocalScore: 90, Confidence: 0, TokensAnalyzed: 1000},
	}

	score, avgConfidence := weightedScore(findings)

	assert.Equal(t, neutralScore, score)
	assert.Zero(t, avgConfidence)
}

// TestWeightedScoreNoFindings verifies the empty-run neutral fallback.
func TestWeightedScoreNoFindings(t *testing.T) {
	score, avgConfidence := weightedScore(nil)

	assert.Equal(t, neutralScore, score)
	assert.Zero(t, avgConfidence)
}

// TestApplyPenalties tests penalty caps and clamping.
func TestApplyPenalties(t *testing.T) {
	tests := []struct {
		name          string
		score         int
		crossFlags    int
		uncertainties int
		avgConfidence float64
		expected      int
	}{
		{"no penalties", 70, 0, 0, 0.9, 70},
		{"two cross flags", 70, 2, 0, 0.9, 66},
		{"cross flag cap", 70, 50, 0, 0.9, 60},
		{"uncertainty cap", 70, 0, 50, 0.9, 65},
		{"low confidence", 70, 0, 0, 0.4, 60},
		{"clamp at zero", 3, 50, 50, 0.0, 0},
		{"clamp at hundred", 150, 0, 0, 0.9, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := applyPenalties(tt.score, tt.crossFlags, tt.uncertainties, tt.avgConfidence)
			assert.Equal(t, tt.expected, got)
		})
	}
}

// TestBuildSummary tests the deterministic score bands.
func TestBuildSummary(t *testing.T) {
	tests := []struct {
		score    int
		expected string
	}{
		{92, "Excellent health (score 92/100): 0 critical, 2 warning issues found."},
		{80, "Excellent health (score 80/100): 0 critical, 2 warning issues found."},
		{65, "Good health (score 65/100): 0 critical, 2 warning issues found."},
		{45, "Needs work (score 45/100): 0 critical, 2 warning issues found."},
		{12, "Urgent attention required (score 12/100): 0 critical, 2 warning issues found."},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, buildSummary(tt.score, 0, 2))
	}
}

// TestSynthesize verifies the full pipeline over a small aggregate.
func TestSynthesize(t *testing.T) {
	aggregate := &agg.RunAggregate{
		Findings: []schema.WorkerFinding{
			{LocalScore: 90, Confidence: 0.9, TokensAnalyzed: 2000},
			{LocalScore: 70, Confidence: 0.9, TokensAnalyzed: 2000},
		},
		Issues: []schema.Issue{
			{Title: "Weak hash", File: "auth.go", Severity: schema.SeverityWarning},
			{Title: "Hardcoded secret", File: "config.go", Severity: schema.SeverityCritical},
			{Title: "weak hash", File: "auth.go", Severity: schema.SeverityWarning},
		},
		Strengths:     []string{"clear structure", "clear structure"},
		Uncertainties: []string{"no CI config visible"},
		RiskLevel:     schema.RiskMedium,
	}

	result := Synthesize(aggregate, schema.WorkerStats{TotalChunks: 2, CompletedChunks: 2})

	// Weighted average 80, minus 1 uncertainty.
	assert.Equal(t, 79, result.HealthScore)
	require.Len(t, result.Issues, 2)
	// Critical sorts first after dedup.
	assert.Equal(t, "Hardcoded secret", result.Issues[0].Title)
	assert.Equal(t, []string{"clear structure"}, result.Strengths)
	assert.Equal(t, schema.RiskMedium, result.RiskLevel)
	assert.InDelta(t, 0.9, result.WorkerStats.AvgConfidence, 0.001)
	assert.Equal(t, "Good health (score 79/100): 1 critical, 1 warning issues found.", result.Summary)
}

// TestSynthesizeNoFindings verifies an empty run scores the plain
// neutral value: the low-confidence deduction only applies when there
// are findings to doubt.
func TestSynthesizeNoFindings(t *testing.T) {
	result := Synthesize(&agg.RunAggregate{}, schema.WorkerStats{TotalChunks: 2, FailedChunks: 2})

	assert.Equal(t, 50, result.HealthScore)
	assert.Empty(t, result.Issues)
	assert.Zero(t, result.WorkerStats.AvgConfidence)
	assert.Equal(t, "Needs work (score 50/100): 0 critical, 0 warning issues found.", result.Summary)
}

// TestSortBySeverity verifies critical-first stable ordering with unknown
// severities sinking to the bottom.
func TestSortBySeverity(t *testing.T) {
	issues := []schema.Issue{
		{Title: "a", Severity: schema.SeverityInfo},
		{Title: "b", Severity: schema.Severity("bizarre")},
		{Title: "c", Severity: schema.SeverityCritical},
		{Title: "d", Severity: schema.SeverityWarning},
		{Title: "e", Severity: schema.SeverityCritical},
	}

	sortBySeverity(issues)

	assert.Equal(t, "c", issues[0].Title)
	assert.Equal(t, "e", issues[1].Title)
	assert.Equal(t, "d", issues[2].Title)
	assert.Equal(t, "a", issues[3].Title)
	assert.Equal(t, "b", issues[4].Title)
}
