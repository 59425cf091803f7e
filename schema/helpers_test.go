package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestClassifyPath tests coarse file classification.
func TestClassifyPath(t *testing.T) {
	tests := []struct {
		path     string
		expected FileClass
	}{
		{"src/App.tsx", ClassFrontend},
		{"web/styles/main.scss", ClassFrontend},
		{"server/main.go", ClassBackend},
		{"lib/worker.py", ClassBackend},
		{"server/main_test.go", ClassTest},
		{"src/App.spec.tsx", ClassTest},
		{"tests/fixtures/data.json", ClassOther},
		{"pkg/tests/helper.go", ClassTest},
		{"db/001_init.sql", ClassSQL},
		{"package.json", ClassConfig},
		{"deploy/values.yaml", ClassConfig},
		{"Dockerfile", ClassConfig},
		{"README.md", ClassDoc},
		{"assets/logo.svg", ClassAsset},
		{"LICENSE", ClassOther},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyPath(tt.path))
		})
	}
}

// TestEstimateTokensForBytes tests the bytes-to-tokens heuristic.
func TestEstimateTokensForBytes(t *testing.T) {
	assert.Equal(t, 0, EstimateTokensForBytes(0))
	assert.Equal(t, 0, EstimateTokensForBytes(-100))
	assert.Equal(t, 0, EstimateTokensForBytes(3))
	assert.Equal(t, 1, EstimateTokensForBytes(4))
	assert.Equal(t, 250, EstimateTokensForBytes(1000))
}

// TestSeverityRank verifies ordering with the unknown-last rule.
func TestSeverityRank(t *testing.T) {
	assert.Less(t, SeverityRank(SeverityCritical), SeverityRank(SeverityWarning))
	assert.Less(t, SeverityRank(SeverityWarning), SeverityRank(SeverityInfo))
	assert.Greater(t, SeverityRank(Severity("weird")), SeverityRank(SeverityInfo))
}

// TestMoreSevereRisk tests pairwise risk comparison.
func TestMoreSevereRisk(t *testing.T) {
	tests := []struct {
		a, b, expected RiskLevel
	}{
		{RiskLow, RiskHigh, RiskHigh},
		{RiskCritical, RiskMedium, RiskCritical},
		{"", RiskLow, RiskLow},
		{RiskMedium, "", RiskMedium},
		{"", "", ""},
		{RiskLevel("odd"), RiskHigh, RiskHigh},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, MoreSevereRisk(tt.a, tt.b))
	}
}

// TestManifestPathSet verifies O(1) lookup map derivation.
func TestManifestPathSet(t *testing.T) {
	m := &Manifest{Files: []FileEntry{
		{Path: "main.go", TokenEstimate: 100},
		{Path: "util.go", TokenEstimate: 200},
	}}

	set := m.PathSet()

	assert.Len(t, set, 2)
	assert.Equal(t, 100, set["main.go"].TokenEstimate)
	assert.Equal(t, 300, m.TotalTokens())
}

// TestSynthesisResultCounts tests severity counting on the final report.
func TestSynthesisResultCounts(t *testing.T) {
	r := &SynthesisResult{Issues: []Issue{
		{Severity: SeverityCritical},
		{Severity: SeverityCritical},
		{Severity: SeverityWarning},
		{Severity: SeverityInfo},
	}}

	assert.Equal(t, 2, r.CriticalCount())
	assert.Equal(t, 1, r.WarningCount())
}
