package core

import (
	"testing"

	"github.com/Farahprojects/repoaudit/schema"
	"github.com/stretchr/testify/assert"
)

// TestEstimateCostStandardTier verifies the linear model on a plain
// fingerprint: 100 generic files and 5 config files at the standard tier.
func TestEstimateCostStandardTier(t *testing.T) {
	fp := schema.ComplexityFingerprint{
		FileCount:   100,
		ConfigFiles: 5,
	}

	est := EstimateCost(fp, schema.StandardTier)

	assert.Equal(t, schema.StandardTier, est.Tier)
	assert.Equal(t, 11000, est.EstimatedTokens) // 5000 + 100*50 + 5*200
	assert.Equal(t, 12650, est.TokenCeiling)    // ceil(11000 * 1.15)
}

// TestEstimateCostTierOrdering verifies deeper tiers always quote more
// for the same fingerprint.
func TestEstimateCostTierOrdering(t *testing.T) {
	fp := schema.ComplexityFingerprint{
		FileCount:    40,
		BackendFiles: 20,
		TestFiles:    10,
	}

	quick := EstimateCost(fp, schema.QuickTier)
	standard := EstimateCost(fp, schema.StandardTier)
	deep := EstimateCost(fp, schema.DeepTier)

	assert.Less(t, quick.EstimatedTokens, standard.EstimatedTokens)
	assert.Less(t, standard.EstimatedTokens, deep.EstimatedTokens)
	assert.Greater(t, quick.TokenCeiling, quick.EstimatedTokens)
	assert.Greater(t, deep.TokenCeiling, deep.EstimatedTokens)
}

// TestEstimateCostBaseFloor verifies an empty fingerprint quotes the
// tier base, never less.
func TestEstimateCostBaseFloor(t *testing.T) {
	est := EstimateCost(schema.ComplexityFingerprint{}, schema.QuickTier)
	assert.Equal(t, 3000, est.EstimatedTokens)
}

// TestEstimateCostUnknownTier verifies fallback to the standard model.
func TestEstimateCostUnknownTier(t *testing.T) {
	fp := schema.ComplexityFingerprint{FileCount: 10}

	est := EstimateCost(fp, schema.AuditTier("bogus"))

	assert.Equal(t, schema.StandardTier, est.Tier)
	assert.Equal(t, 5500, est.EstimatedTokens)
}

// TestDeviationExceeded tests the 50% deviation boundary.
func TestDeviationExceeded(t *testing.T) {
	tests := []struct {
		name      string
		declared  int
		estimated int
		expected  bool
	}{
		{"no declaration", 0, 10000, false},
		{"negative declaration", -5, 10000, false},
		{"exact match", 10000, 10000, false},
		{"exactly 50 percent over", 15000, 10000, false},
		{"just above 50 percent over", 15001, 10000, true},
		{"exactly 50 percent under", 5000, 10000, false},
		{"just below 50 percent under", 4999, 10000, true},
		{"zero estimate", 10000, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeviationExceeded(tt.declared, tt.estimated))
		})
	}
}

// TestFingerprint verifies classification counts, framework markers and
// the endpoint heuristic over a mixed manifest.
func TestFingerprint(t *testing.T) {
	m := &schema.Manifest{
		Files: []schema.FileEntry{
			{Path: "package.json", ByteSize: 500, TokenEstimate: 125},
			{Path: "src/App.tsx", ByteSize: 2000, TokenEstimate: 500},
			{Path: "server/main.go", ByteSize: 4000, TokenEstimate: 1000},
			{Path: "server/main_test.go", ByteSize: 1000, TokenEstimate: 250},
			{Path: "db/schema.sql", ByteSize: 800, TokenEstimate: 200},
			{Path: "api/users.go", ByteSize: 1200, TokenEstimate: 300},
			{Path: "go.mod", ByteSize: 100, TokenEstimate: 25},
		},
	}

	fp := Fingerprint(m)

	assert.Equal(t, 7, fp.FileCount)
	assert.Equal(t, int64(9600), fp.TotalBytes)
	assert.Equal(t, 2400, fp.TokenEstimate)
	assert.Equal(t, 1, fp.FrontendFiles)
	assert.Equal(t, 2, fp.BackendFiles)
	assert.Equal(t, 1, fp.TestFiles)
	assert.Equal(t, 2, fp.ConfigFiles)
	assert.Equal(t, 1, fp.SQLFiles)
	assert.Equal(t, []string{"go", "node"}, fp.FrameworkFlags)
	assert.Equal(t, 3, fp.APIEndpointsEstimated) // api/users.go only
}

// TestIsRouteFile tests the route folder heuristic.
func TestIsRouteFile(t *testing.T) {
	assert.True(t, isRouteFile("api/users.go"))
	assert.True(t, isRouteFile("src/routes/index.ts"))
	assert.True(t, isRouteFile("app/Controllers/user.php"))
	assert.False(t, isRouteFile("src/models/user.go"))
	assert.False(t, isRouteFile("main.go"))
}
