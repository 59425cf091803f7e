package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Farahprojects/repoaudit/internal/contract"
	"github.com/Farahprojects/repoaudit/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *schema.SynthesisResult {
	return &schema.SynthesisResult{
		HealthScore: 62,
		Summary:     "Good health (score 62/100): 1 critical, 1 warning issues found.",
		Issues: []schema.Issue{
			{Severity: schema.SeverityCritical, Category: "security", Title: "Hardcoded secret", File: "config.go", Line: 12},
			{Severity: schema.SeverityWarning, Category: "correctness", Title: "Unchecked error", File: "main.go", Line: 40},
		},
		Strengths:   []string{"clear module layout"},
		RiskLevel:   schema.RiskMedium,
		WorkerStats: schema.WorkerStats{TotalChunks: 3, CompletedChunks: 3, TotalTokensAnalyzed: 9000, AvgConfidence: 0.85},
	}
}

func outputConfig(mode schema.OutputMode, file string) *contract.Config {
	return &contract.Config{
		Output:       mode,
		OutputFile:   file,
		Workers:      4,
		Width:        120,
		CacheBackend: schema.SQLiteBackend,
	}
}

// TestPrintSynthesisResultJSON verifies the JSON output round-trips.
func TestPrintSynthesisResultJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	cfg := outputConfig(schema.JSONOut, path)

	require.NoError(t, PrintSynthesisResult(sampleResult(), cfg, time.Second))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded schema.SynthesisResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 62, decoded.HealthScore)
	require.Len(t, decoded.Issues, 2)
	assert.Equal(t, "Hardcoded secret", decoded.Issues[0].Title)
	assert.Equal(t, schema.RiskMedium, decoded.RiskLevel)
}

// TestPrintSynthesisResultCSV verifies the flat issue table.
func TestPrintSynthesisResultCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	cfg := outputConfig(schema.CSVOut, path)

	require.NoError(t, PrintSynthesisResult(sampleResult(), cfg, time.Second))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3) // header + 2 issues
	assert.Equal(t, "severity", records[0][1])
	assert.Equal(t, "critical", records[1][1])
	assert.Equal(t, "config.go", records[1][3])
	assert.Equal(t, "Unchecked error", records[2][5])
}

// TestPrintSynthesisResultTable verifies the human-readable report.
func TestPrintSynthesisResultTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	cfg := outputConfig(schema.TextOut, path)

	result := sampleResult()
	result.Partial = true
	require.NoError(t, PrintSynthesisResult(result, cfg, 2*time.Second))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "Health: 62/100")
	assert.Contains(t, text, "Partial report")
	assert.Contains(t, text, "Risk level: medium")
	assert.Contains(t, text, "Hardcoded secret")
	assert.Contains(t, text, "Strengths:")
	assert.Contains(t, text, "Analyzed 3/3 chunks (0 failed), 9000 tokens, avg confidence 0.85")
	assert.Contains(t, text, "Cache backend: sqlite")
}

// TestPrintCostEstimateJSON verifies the quote JSON shape.
func TestPrintCostEstimateJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "estimate.json")
	cfg := outputConfig(schema.JSONOut, path)

	fp := schema.ComplexityFingerprint{FileCount: 100, ConfigFiles: 5}
	estimate := schema.CostEstimate{Tier: schema.StandardTier, EstimatedTokens: 11000, TokenCeiling: 12650}
	require.NoError(t, PrintCostEstimate(fp, estimate, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded estimateView
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 100, decoded.Fingerprint.FileCount)
	assert.Equal(t, 11000, decoded.Estimate.EstimatedTokens)
	assert.Equal(t, 12650, decoded.Estimate.TokenCeiling)
}

// TestPrintArchiveStatusJSON verifies archive status JSON output.
func TestPrintArchiveStatusJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")
	cfg := outputConfig(schema.JSONOut, path)

	status := schema.ArchiveStatus{Backend: "sqlite", Connected: true, TotalArchives: 2, TotalBlobBytes: 4096}
	require.NoError(t, PrintArchiveStatus(status, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded schema.ArchiveStatus
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 2, decoded.TotalArchives)
	assert.True(t, decoded.Connected)
}

// TestGetMaxTablePathWidth tests the clamp on available path width.
func TestGetMaxTablePathWidth(t *testing.T) {
	assert.Equal(t, 15, getMaxTablePathWidth(&contract.Config{Width: 60}))
	assert.Equal(t, 30, getMaxTablePathWidth(&contract.Config{Width: 100}))
	assert.Equal(t, 60, getMaxTablePathWidth(&contract.Config{Width: 500}))
}
