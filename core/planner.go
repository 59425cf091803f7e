package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Farahprojects/repoaudit/internal/contract"
	"github.com/Farahprojects/repoaudit/schema"
)

// Chunk planning constraints.
const (
	fullRepoPriority      = 100
	defaultFolderPriority = 5
	miscPriority          = 2
	rootFolderName        = "(root)"
	miscBundleName        = "misc"
)

// folderPriorities maps well-known top-level folder names to dispatch
// priorities. Higher values are dispatched first so the most
// security-relevant code is analyzed before docs and assets.
var folderPriorities = map[string]int{
	"src":        10,
	"app":        10,
	"api":        10,
	"auth":       10,
	"server":     9,
	"backend":    9,
	"cmd":        9,
	"internal":   8,
	"lib":        8,
	"pkg":        8,
	"core":       8,
	"services":   8,
	"frontend":   7,
	"client":     7,
	"components": 7,
	"web":        7,
	"db":         6,
	"database":   6,
	"migrations": 6,
	"config":     6,
	"scripts":    5,
	"test":       4,
	"tests":      4,
	"docs":       2,
	"doc":        2,
	"examples":   2,
	"assets":     1,
	"public":     1,
	"static":     1,
	"images":     1,
}

// folderGroup holds the files of one top-level folder during planning.
type folderGroup struct {
	name   string
	files  []schema.FileEntry
	tokens int
}

// PlanChunks partitions the manifest files into analysis chunks, each
// holding at most maxTokens estimated tokens. Every file lands in exactly
// one chunk. Grouping follows top-level folders: oversized folders are
// split into "(part N)" chunks, folders below minMergeTokens are bundled
// into shared misc chunks, and the result is ordered by priority so
// high-value chunks are dispatched first.
func PlanChunks(files []schema.FileEntry, maxTokens, minMergeTokens int) []schema.Chunk {
	if len(files) == 0 {
		return nil
	}
	if maxTokens <= 0 {
		maxTokens = contract.DefaultMaxChunkTokens
	}

	// --- 1. Whole-repo fast path ---
	total := 0
	for _, f := range files {
		total += f.TokenEstimate
	}
	if total <= maxTokens {
		return assignChunkIDs([]schema.Chunk{{
			Name:        "Full Repository",
			Files:       files,
			TotalTokens: total,
			Priority:    fullRepoPriority,
		}})
	}

	// --- 2. Group by top-level folder (stable encounter order) ---
	groups := groupByTopFolder(files)

	// --- 3. Pack groups into chunks ---
	var chunks []schema.Chunk
	var pendingMisc []folderGroup
	pendingTokens := 0

	flushMisc := func() {
		if len(pendingMisc) == 0 {
			return
		}
		chunks = append(chunks, buildMiscChunk(pendingMisc, pendingTokens))
		pendingMisc = nil
		pendingTokens = 0
	}

	for _, g := range groups {
		switch {
		case g.tokens > maxTokens:
			chunks = append(chunks, splitFolder(g, maxTokens)...)
		case g.tokens < minMergeTokens:
			if pendingTokens+g.tokens > maxTokens {
				flushMisc()
			}
			pendingMisc = append(pendingMisc, g)
			pendingTokens += g.tokens
		default:
			chunks = append(chunks, schema.Chunk{
				Name:        g.name,
				Files:       g.files,
				TotalTokens: g.tokens,
				Priority:    folderPriority(g.name),
			})
		}
	}
	flushMisc()

	// --- 4. Order by priority, high first ---
	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].Priority > chunks[j].Priority
	})

	return assignChunkIDs(chunks)
}

// groupByTopFolder buckets files by their first path segment, preserving
// the order in which folders first appear in the manifest.
func groupByTopFolder(files []schema.FileEntry) []folderGroup {
	index := make(map[string]int)
	var groups []folderGroup
	for _, f := range files {
		name := topFolder(f.Path)
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, folderGroup{name: name})
		}
		groups[i].files = append(groups[i].files, f)
		groups[i].tokens += f.TokenEstimate
	}
	return groups
}

// topFolder returns the first path segment of a slash-separated path, or
// rootFolderName for files that live at the repository root.
func topFolder(path string) string {
	clean := strings.TrimPrefix(path, "./")
	if i := strings.IndexByte(clean, '/'); i > 0 {
		return clean[:i]
	}
	return rootFolderName
}

// folderPriority resolves the dispatch priority for a folder name.
func folderPriority(name string) int {
	if p, ok := folderPriorities[strings.ToLower(name)]; ok {
		return p
	}
	return defaultFolderPriority
}

// splitFolder breaks an oversized folder into sequential "(part N)"
// chunks. Files are sorted ascending by token estimate and packed
// first-fit, so small files fill chunks densely before large ones open
// new parts. A single file above the budget gets a part of its own; files
// are never split.
func splitFolder(g folderGroup, maxTokens int) []schema.Chunk {
	sorted := make([]schema.FileEntry, len(g.files))
	copy(sorted, g.files)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TokenEstimate < sorted[j].TokenEstimate
	})

	priority := folderPriority(g.name)
	var parts []schema.Chunk
	var current []schema.FileEntry
	currentTokens := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		parts = append(parts, schema.Chunk{
			Name:        fmt.Sprintf("%s (part %d)", g.name, len(parts)+1),
			Files:       current,
			TotalTokens: currentTokens,
			Priority:    priority,
		})
		current = nil
		currentTokens = 0
	}

	for _, f := range sorted {
		if len(current) > 0 && currentTokens+f.TokenEstimate > maxTokens {
			flush()
		}
		current = append(current, f)
		currentTokens += f.TokenEstimate
	}
	flush()

	return parts
}

// buildMiscChunk merges a run of small folders into one bundle chunk.
func buildMiscChunk(groups []folderGroup, tokens int) schema.Chunk {
	var files []schema.FileEntry
	names := make([]string, 0, len(groups))
	for _, g := range groups {
		files = append(files, g.files...)
		names = append(names, g.name)
	}
	name := miscBundleName
	if len(names) > 0 {
		name = fmt.Sprintf("%s (%s)", miscBundleName, strings.Join(names, ", "))
	}
	return schema.Chunk{
		Name:        name,
		Files:       files,
		TotalTokens: tokens,
		Priority:    miscPriority,
	}
}

// assignChunkIDs stamps sequential IDs in dispatch order.
func assignChunkIDs(chunks []schema.Chunk) []schema.Chunk {
	for i := range chunks {
		chunks[i].ID = fmt.Sprintf("chunk-%d", i+1)
	}
	return chunks
}
