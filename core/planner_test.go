package core

import (
	"strings"
	"testing"

	"github.com/Farahprojects/repoaudit/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPlanChunksFullRepoFastPath verifies that a repo fitting the budget
// becomes a single full-repo chunk with top priority.
func TestPlanChunksFullRepoFastPath(t *testing.T) {
	files := []schema.FileEntry{
		{Path: "main.go", TokenEstimate: 400},
		{Path: "src/app.go", TokenEstimate: 600},
		{Path: "docs/readme.md", TokenEstimate: 200},
	}

	chunks := PlanChunks(files, 2000, 500)

	require.Len(t, chunks, 1)
	assert.Equal(t, "chunk-1", chunks[0].ID)
	assert.Equal(t, "Full Repository", chunks[0].Name)
	assert.Equal(t, fullRepoPriority, chunks[0].Priority)
	assert.Equal(t, 1200, chunks[0].TotalTokens)
	assert.Len(t, chunks[0].Files, 3)
}

// TestPlanChunksEmptyManifest verifies nil output for an empty manifest.
func TestPlanChunksEmptyManifest(t *testing.T) {
	assert.Nil(t, PlanChunks(nil, 2000, 500))
	assert.Nil(t, PlanChunks([]schema.FileEntry{}, 2000, 500))
}

// TestPlanChunksPartition verifies every file lands in exactly one chunk.
func TestPlanChunksPartition(t *testing.T) {
	files := []schema.FileEntry{
		{Path: "src/a.go", TokenEstimate: 900},
		{Path: "src/b.go", TokenEstimate: 900},
		{Path: "src/c.go", TokenEstimate: 900},
		{Path: "docs/readme.md", TokenEstimate: 100},
		{Path: "assets/logo.svg", TokenEstimate: 50},
		{Path: "main.go", TokenEstimate: 300},
		{Path: "internal/db.go", TokenEstimate: 700},
	}

	chunks := PlanChunks(files, 1000, 500)

	seen := make(map[string]int)
	for _, c := range chunks {
		sum := 0
		for _, f := range c.Files {
			seen[f.Path]++
			sum += f.TokenEstimate
		}
		assert.Equal(t, sum, c.TotalTokens, "chunk %s token total", c.Name)
		assert.LessOrEqual(t, len(c.Files), len(files))
	}
	require.Len(t, seen, len(files))
	for path, count := range seen {
		assert.Equal(t, 1, count, "file %s appears once", path)
	}
}

// TestPlanChunksBudget verifies no multi-file chunk exceeds the budget.
func TestPlanChunksBudget(t *testing.T) {
	files := []schema.FileEntry{
		{Path: "src/a.go", TokenEstimate: 600},
		{Path: "src/b.go", TokenEstimate: 600},
		{Path: "src/c.go", TokenEstimate: 600},
		{Path: "src/d.go", TokenEstimate: 600},
	}

	chunks := PlanChunks(files, 1000, 100)

	for _, c := range chunks {
		if len(c.Files) > 1 {
			assert.LessOrEqual(t, c.TotalTokens, 1000, "chunk %s", c.Name)
		}
	}
}

// TestPlanChunksSplitsOversizedFolder verifies "(part N)" naming and that
// a single file above the budget still gets a part of its own.
func TestPlanChunksSplitsOversizedFolder(t *testing.T) {
	files := []schema.FileEntry{
		{Path: "src/huge.go", TokenEstimate: 1500},
		{Path: "src/small.go", TokenEstimate: 100},
		{Path: "src/mid.go", TokenEstimate: 400},
		// Second folder pushes total past the fast path.
		{Path: "internal/x.go", TokenEstimate: 800},
	}

	chunks := PlanChunks(files, 1000, 100)

	var parts []schema.Chunk
	for _, c := range chunks {
		if strings.HasPrefix(c.Name, "src (part ") {
			parts = append(parts, c)
		}
	}
	require.Len(t, parts, 2)
	assert.Equal(t, "src (part 1)", parts[0].Name)
	assert.Equal(t, "src (part 2)", parts[1].Name)
	// Ascending first-fit packs the small files together and isolates
	// the oversized one.
	assert.Equal(t, 500, parts[0].TotalTokens)
	assert.Equal(t, 1500, parts[1].TotalTokens)
	require.Len(t, parts[1].Files, 1)
	assert.Equal(t, "src/huge.go", parts[1].Files[0].Path)
}

// TestPlanChunksMiscBundle verifies small folders merge into a named
// misc chunk at misc priority.
func TestPlanChunksMiscBundle(t *testing.T) {
	files := []schema.FileEntry{
		{Path: "src/a.go", TokenEstimate: 800},
		{Path: "docs/readme.md", TokenEstimate: 100},
		{Path: "scripts/build.sh", TokenEstimate: 80},
		{Path: "root.txt", TokenEstimate: 50},
	}

	chunks := PlanChunks(files, 1000, 300)

	var misc *schema.Chunk
	for i := range chunks {
		if strings.HasPrefix(chunks[i].Name, miscBundleName) {
			misc = &chunks[i]
		}
	}
	require.NotNil(t, misc)
	assert.Equal(t, "misc (docs, scripts, (root))", misc.Name)
	assert.Equal(t, miscPriority, misc.Priority)
	assert.Equal(t, 230, misc.TotalTokens)
	assert.Len(t, misc.Files, 3)
}

// TestPlanChunksPriorityOrder verifies dispatch order is priority
// descending with sequential chunk IDs stamped after sorting.
func TestPlanChunksPriorityOrder(t *testing.T) {
	files := []schema.FileEntry{
		{Path: "docs/a.md", TokenEstimate: 600},
		{Path: "src/a.go", TokenEstimate: 600},
		{Path: "internal/a.go", TokenEstimate: 600},
	}

	chunks := PlanChunks(files, 1000, 500)

	require.Len(t, chunks, 3)
	for i := 1; i < len(chunks); i++ {
		assert.GreaterOrEqual(t, chunks[i-1].Priority, chunks[i].Priority)
	}
	assert.Equal(t, "src", chunks[0].Name)
	assert.Equal(t, "chunk-1", chunks[0].ID)
	assert.Equal(t, "internal", chunks[1].Name)
	assert.Equal(t, "chunk-2", chunks[1].ID)
	assert.Equal(t, "docs", chunks[2].Name)
	assert.Equal(t, "chunk-3", chunks[2].ID)
}

// TestTopFolder tests top-level folder extraction.
func TestTopFolder(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"src/app/main.go", "src"},
		{"./src/main.go", "src"},
		{"main.go", rootFolderName},
		{"README.md", rootFolderName},
		{"a/b", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, topFolder(tt.path))
		})
	}
}

// TestFolderPriority tests folder priority lookup with case folding.
func TestFolderPriority(t *testing.T) {
	assert.Equal(t, 10, folderPriority("src"))
	assert.Equal(t, 10, folderPriority("SRC"))
	assert.Equal(t, 2, folderPriority("docs"))
	assert.Equal(t, defaultFolderPriority, folderPriority("mystery"))
}
