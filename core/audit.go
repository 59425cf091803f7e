package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Farahprojects/repoaudit/core/agg"
	"github.com/Farahprojects/repoaudit/core/synth"
	"github.com/Farahprojects/repoaudit/internal/contract"
	"github.com/Farahprojects/repoaudit/schema"
)

// taskResult pairs one dispatched task with its outcome.
type taskResult struct {
	finding schema.WorkerFinding
	err     error
}

// runAuditCore executes the full audit pipeline: archive preparation,
// manifest derivation, chunk planning, parallel task execution, and
// synthesis of the final report.
func runAuditCore(ctx context.Context, cfg *contract.Config, deps *Deps) (*schema.SynthesisResult, error) {
	if !shouldSuppressHeader(ctx) {
		contract.LogAuditHeader(cfg)
	}

	// --- 1. Archive preparation (fatal on failure) ---
	meta, err := ensureArchive(ctx, cfg, deps.Archive)
	if err != nil {
		return nil, fmt.Errorf("archive preparation failed: %w", err)
	}

	// --- 2. Manifest derivation ---
	manifest := BuildManifest(cfg, meta)
	if len(manifest.Files) == 0 {
		return nil, errors.New("no files to audit after exclusions")
	}

	// --- 3. Chunk planning ---
	chunks := PlanChunks(manifest.Files, cfg.MaxChunkTokens, cfg.MinMergeTokens)
	tasks := buildTasks(cfg, chunks)

	// --- 4. Parallel task execution ---
	findings, stats := dispatchTasks(ctx, cfg, deps, tasks, manifest)

	// --- 5. Aggregation and synthesis ---
	agg.SortByTaskID(findings)
	aggregate := agg.Merge(findings)
	result := synth.Synthesize(aggregate, stats)
	if ctx.Err() != nil {
		// Cancelled mid-flight: completed findings still count, but the
		// report is marked partial rather than discarded.
		result.Partial = true
	}

	// --- 6. Declared-cost deviation check (flag, never block) ---
	flagDeclaredDeviation(cfg, manifest)

	return result, nil
}

// ensureArchive guarantees a usable archive for the run: populate on
// first sight, sync on revisit. Any failure here aborts the run; the
// pipeline never builds on a partially written archive.
func ensureArchive(ctx context.Context, cfg *contract.Config, mgr contract.ArchiveManager) (schema.RepoArchive, error) {
	repoID := cfg.RepoID()

	meta, err := mgr.Meta(repoID)
	switch {
	case errors.Is(err, contract.ErrArchiveNotFound):
		return mgr.Populate(ctx, repoID, cfg.Owner, cfg.Repo, cfg.Ref, cfg.SourceToken)
	case err != nil:
		return schema.RepoArchive{}, err
	}

	res, err := mgr.Sync(ctx, repoID, cfg.Owner, cfg.Repo, cfg.Ref, cfg.SourceToken)
	if err != nil {
		return schema.RepoArchive{}, err
	}
	if res.ChangeCount() == 0 {
		return meta, nil
	}
	// The sync rewrote the blob; reload the fresh index.
	return mgr.Meta(repoID)
}

// BuildManifest derives the trusted file manifest from archive metadata,
// applying the configured exclusion patterns.
func BuildManifest(cfg *contract.Config, meta schema.RepoArchive) *schema.Manifest {
	m := &schema.Manifest{
		RepoID: cfg.RepoID(),
		Owner:  cfg.Owner,
		Repo:   cfg.Repo,
		Ref:    cfg.Ref,
	}
	for path, entry := range meta.FileIndex {
		if contract.ShouldIgnore(path, cfg.Excludes) {
			continue
		}
		m.Files = append(m.Files, schema.FileEntry{
			Path:          path,
			ByteSize:      entry.Size,
			TokenEstimate: schema.EstimateTokensForBytes(entry.Size),
		})
	}
	sort.Slice(m.Files, func(i, j int) bool { return m.Files[i].Path < m.Files[j].Path })
	return m
}

// buildTasks turns planned chunks into worker tasks.
func buildTasks(cfg *contract.Config, chunks []schema.Chunk) []schema.WorkerTask {
	tasks := make([]schema.WorkerTask, 0, len(chunks))
	for _, c := range chunks {
		paths := make([]string, 0, len(c.Files))
		for _, f := range c.Files {
			paths = append(paths, f.Path)
		}
		tasks = append(tasks, schema.WorkerTask{
			ID:          c.ID,
			Role:        "code-auditor",
			Instruction: taskInstruction(cfg.Tier, c.Name),
			TargetFiles: paths,
		})
	}
	return tasks
}

// taskInstruction renders the per-chunk analysis brief for the given tier.
func taskInstruction(tier schema.AuditTier, chunkName string) string {
	depth := "Review for correctness, security and maintainability."
	switch tier {
	case schema.QuickTier:
		depth = "Flag only clear defects and security problems; skip style."
	case schema.DeepTier:
		depth = "Review exhaustively: correctness, security, performance, error handling, architecture and test coverage."
	}
	return fmt.Sprintf("Audit the %q slice of this repository. %s", chunkName, depth)
}

// dispatchTasks runs tasks through a bounded worker pool of cfg.Workers
// goroutines. Cancellation stops new dispatches; tasks already picked up
// finish or time out on their own. Failed chunks contribute nothing to
// the findings, only to the failure count.
func dispatchTasks(ctx context.Context, cfg *contract.Config, deps *Deps, tasks []schema.WorkerTask, manifest *schema.Manifest) ([]schema.WorkerFinding, schema.WorkerStats) {
	taskCh := make(chan schema.WorkerTask, len(tasks))
	resultCh := make(chan taskResult, len(tasks))
	var wg sync.WaitGroup

	workerDeps := WorkerDeps{Source: deps.Source, Archive: deps.Archive, LLM: deps.LLM}

	// Start worker pool
	for range cfg.Workers {
		wg.Go(func() {
			for task := range taskCh {
				if ctx.Err() != nil {
					resultCh <- taskResult{err: fmt.Errorf("task %s: %w", task.ID, ctx.Err())}
					continue
				}
				finding, err := ExecuteTask(ctx, cfg, workerDeps, task, manifest)
				resultCh <- taskResult{finding: finding, err: err}
			}
		})
	}

	// Send tasks to worker channel
	for _, t := range tasks {
		taskCh <- t
	}
	close(taskCh)

	wg.Wait()
	close(resultCh)

	stats := schema.WorkerStats{TotalChunks: len(tasks)}
	findings := make([]schema.WorkerFinding, 0, len(tasks))
	for r := range resultCh {
		if r.err != nil {
			stats.FailedChunks++
			contract.LogWarn("Chunk failed", r.err)
			continue
		}
		stats.CompletedChunks++
		stats.TotalTokensAnalyzed += r.finding.TokensAnalyzed
		findings = append(findings, r.finding)
	}
	return findings, stats
}

// flagDeclaredDeviation warns when the caller-declared token count strays
// more than 50% from the computed estimate.
func flagDeclaredDeviation(cfg *contract.Config, manifest *schema.Manifest) {
	if cfg.DeclaredTokens <= 0 {
		return
	}
	estimate := EstimateCost(Fingerprint(manifest), cfg.Tier)
	if DeviationExceeded(cfg.DeclaredTokens, estimate.EstimatedTokens) {
		contract.LogWarn(fmt.Sprintf(
			"Declared token estimate %d deviates more than 50%% from computed estimate %d",
			cfg.DeclaredTokens, estimate.EstimatedTokens), nil)
	}
}
