package agg

import (
	"testing"

	"github.com/Farahprojects/repoaudit/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMergeConcatenatesLists verifies list fields are plain
// concatenations in finding order, duplicates preserved.
func TestMergeConcatenatesLists(t *testing.T) {
	findings := []schema.WorkerFinding{
		{
			Issues:        []schema.Issue{{Title: "SQL injection", File: "db.go"}},
			Strengths:     []string{"good test coverage"},
			Uncertainties: []string{"cannot see config"},
		},
		{
			Issues:        []schema.Issue{{Title: "SQL injection", File: "db.go"}},
			Strengths:     []string{"good test coverage"},
			CrossFileFlags: []string{"auth bypass spans handlers"},
		},
	}

	out := Merge(findings)

	assert.Len(t, out.Issues, 2)
	assert.Equal(t, []string{"good test coverage", "good test coverage"}, out.Strengths)
	assert.Equal(t, []string{"cannot see config"}, out.Uncertainties)
	assert.Equal(t, []string{"auth bypass spans handlers"}, out.CrossFileFlags)
}

// TestMergeAppMapUnion verifies set union on list fields, max on
// endpoint counts and first non-empty testing approach.
func TestMergeAppMapUnion(t *testing.T) {
	findings := []schema.WorkerFinding{
		{AppMap: schema.AppMap{
			Languages:       []string{"go", "sql"},
			Frameworks:      []string{"cobra"},
			APIEndpoints:    4,
			TestingApproach: "",
		}},
		{AppMap: schema.AppMap{
			Languages:       []string{"sql", "typescript"},
			Frameworks:      []string{"cobra", "react"},
			APIEndpoints:    9,
			TestingApproach: "unit tests with testify",
		}},
		{AppMap: schema.AppMap{
			APIEndpoints:    2,
			TestingApproach: "none visible",
		}},
	}

	out := Merge(findings)

	assert.Equal(t, []string{"go", "sql", "typescript"}, out.AppMap.Languages)
	assert.Equal(t, []string{"cobra", "react"}, out.AppMap.Frameworks)
	assert.Equal(t, 9, out.AppMap.APIEndpoints)
	assert.Equal(t, "unit tests with testify", out.AppMap.TestingApproach)
}

// TestMergeRiskLevel verifies the most severe reported level wins.
func TestMergeRiskLevel(t *testing.T) {
	findings := []schema.WorkerFinding{
		{RiskLevel: schema.RiskLow},
		{RiskLevel: schema.RiskHigh},
		{RiskLevel: schema.RiskMedium},
	}

	out := Merge(findings)

	assert.Equal(t, schema.RiskHigh, out.RiskLevel)
}

// TestMergeProductionReady verifies first non-empty value wins.
func TestMergeProductionReady(t *testing.T) {
	findings := []schema.WorkerFinding{
		{},
		{ProductionReady: "not yet, auth is incomplete"},
		{ProductionReady: "yes"},
	}

	out := Merge(findings)

	assert.Equal(t, "not yet, auth is incomplete", out.ProductionReady)
}

// TestMergeFallbackScore verifies the plain average of local scores.
func TestMergeFallbackScore(t *testing.T) {
	findings := []schema.WorkerFinding{
		{LocalScore: 80},
		{LocalScore: 40},
		{LocalScore: 60},
	}

	out := Merge(findings)

	assert.InDelta(t, 60.0, out.FallbackScore, 0.001)
}

// TestMergeEmpty verifies merging zero findings yields a zero aggregate.
func TestMergeEmpty(t *testing.T) {
	out := Merge(nil)

	require.NotNil(t, out)
	assert.Empty(t, out.Issues)
	assert.Zero(t, out.FallbackScore)
	assert.Empty(t, out.RiskLevel)
}

// TestSortByTaskID verifies deterministic ordering before merging.
func TestSortByTaskID(t *testing.T) {
	findings := []schema.WorkerFinding{
		{TaskID: "chunk-3"},
		{TaskID: "chunk-1"},
		{TaskID: "chunk-2"},
	}

	SortByTaskID(findings)

	assert.Equal(t, "chunk-1", findings[0].TaskID)
	assert.Equal(t, "chunk-2", findings[1].TaskID)
	assert.Equal(t, "chunk-3", findings[2].TaskID)
}
