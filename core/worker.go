package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Farahprojects/repoaudit/internal/contract"
	"github.com/Farahprojects/repoaudit/internal/llmclient"
	"github.com/Farahprojects/repoaudit/internal/sourceclient"
	"github.com/Farahprojects/repoaudit/schema"
)

// Fallback values used when an LLM payload cannot be parsed.
const (
	fallbackConfidence = 0.3
	fallbackLocalScore = 50
)

// workerSystemPrompt scopes the model strictly to the supplied content.
const workerSystemPrompt = `You are a senior code auditor reviewing one slice of a repository.
Analyze ONLY the file contents provided in the user message. Do not
speculate about files you cannot see; record such gaps as uncertainties.
Respond with a single JSON object and no surrounding prose, using the
fields: issues, strengths, weaknesses, crossFileFlags, uncertainties,
suspiciousFiles, appMap, riskLevel, productionReady, localScore (0-100),
confidence (0-1). Each issue carries id, severity (critical|warning|info),
category, title, description, file, line, badCode, fixedCode, suggestion.`

// WorkerDeps bundles the clients a task execution needs.
type WorkerDeps struct {
	Source  contract.SourceClient
	Archive contract.ArchiveReader
	LLM     contract.LLMClient
}

// fetchedFile is one successfully retrieved file ready for prompt assembly.
type fetchedFile struct {
	path    string
	content []byte
}

// ExecuteTask runs a single worker task end to end: allow-list filtering
// against the manifest, content retrieval, one LLM inference call, and
// parsing of the structured finding.
//
// Tasks whose target files all fall outside the manifest fail with
// contract.ErrNoValidFiles; tasks where every fetch fails surface
// contract.ErrAllFetchesFailed. Partial fetch failures are recorded on
// the finding and the task proceeds with what it has.
func ExecuteTask(ctx context.Context, cfg *contract.Config, deps WorkerDeps, task schema.WorkerTask, manifest *schema.Manifest) (schema.WorkerFinding, error) {
	// --- 1. Allow-list filtering ---
	allowed := manifest.PathSet()
	valid := make([]schema.FileEntry, 0, len(task.TargetFiles))
	for _, p := range task.TargetFiles {
		if entry, ok := allowed[p]; ok {
			valid = append(valid, entry)
		}
	}
	if len(valid) == 0 {
		return schema.WorkerFinding{}, fmt.Errorf("task %s: %w", task.ID, contract.ErrNoValidFiles)
	}

	// --- 2. Content retrieval ---
	fetched, failures := fetchTaskFiles(ctx, cfg, deps, manifest, valid)
	if len(fetched) == 0 {
		return schema.WorkerFinding{}, fmt.Errorf("task %s: %w", task.ID, contract.ErrAllFetchesFailed)
	}

	// --- 3. Inference ---
	llmCtx, cancel := context.WithTimeout(ctx, cfg.LLMTimeout)
	defer cancel()

	resp, err := deps.LLM.Complete(llmCtx, schema.CompletionRequest{
		System:      workerSystemPrompt,
		User:        buildUserPrompt(task, fetched),
		Temperature: cfg.Temperature,
	})
	if err != nil {
		return schema.WorkerFinding{}, fmt.Errorf("task %s: inference failed: %w", task.ID, err)
	}

	// --- 4. Parse and finalize ---
	finding := parseFinding(resp.Content)
	finding.TaskID = task.ID
	finding.TokenUsage = resp.Usage
	finding.FetchFailures = failures
	for _, f := range fetched {
		finding.AnalyzedPaths = append(finding.AnalyzedPaths, f.path)
		finding.TokensAnalyzed += schema.EstimateTokensForBytes(int64(len(f.content)))
	}

	return finding, nil
}

// fetchTaskFiles retrieves content for every valid entry, preferring a
// validated direct URL and falling back to the archive cache. Empty
// content counts as a failure.
func fetchTaskFiles(ctx context.Context, cfg *contract.Config, deps WorkerDeps, manifest *schema.Manifest, entries []schema.FileEntry) ([]fetchedFile, []schema.FetchFailure) {
	var fetched []fetchedFile
	var failures []schema.FetchFailure

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			failures = append(failures, schema.FetchFailure{Path: entry.Path, Reason: err.Error()})
			continue
		}
		content, err := fetchOne(ctx, cfg, deps, manifest, entry)
		if err == nil && len(content) == 0 {
			err = errors.New("empty file content")
		}
		if err != nil {
			failures = append(failures, schema.FetchFailure{Path: entry.Path, Reason: err.Error()})
			continue
		}
		fetched = append(fetched, fetchedFile{path: entry.Path, content: content})
	}

	return fetched, failures
}

// fetchOne retrieves one file. A manifest entry with a trusted source URL
// is fetched directly; anything else, including a failed URL fetch, goes
// through the archive cache.
func fetchOne(ctx context.Context, cfg *contract.Config, deps WorkerDeps, manifest *schema.Manifest, entry schema.FileEntry) ([]byte, error) {
	if entry.SourceURL != "" && deps.Source != nil {
		if err := sourceclient.ValidateSourceURL(entry.SourceURL, manifest.Owner, manifest.Repo); err != nil {
			contract.LogWarn(fmt.Sprintf("Skipping untrusted source URL for %s", entry.Path), err)
		} else {
			fetchCtx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout)
			content, err := deps.Source.FetchURL(fetchCtx, entry.SourceURL, cfg.SourceToken)
			cancel()
			if err == nil {
				return content, nil
			}
			contract.LogWarn(fmt.Sprintf("URL fetch failed for %s, falling back to archive", entry.Path), err)
		}
	}

	if deps.Archive == nil {
		return nil, errors.New("no archive reader configured")
	}
	fetchCtx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout)
	defer cancel()
	return deps.Archive.ReadFile(fetchCtx, manifest.RepoID, entry.Path)
}

// buildUserPrompt assembles the analysis payload: the task instruction
// followed by each file delimited by a path banner.
func buildUserPrompt(task schema.WorkerTask, files []fetchedFile) string {
	var b strings.Builder
	if task.Instruction != "" {
		b.WriteString(task.Instruction)
		b.WriteString("\n\n")
	}
	for _, f := range files {
		fmt.Fprintf(&b, "=== %s ===\n", f.path)
		b.Write(f.content)
		if len(f.content) > 0 && f.content[len(f.content)-1] != '\n' {
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// parseFinding decodes the LLM payload into a WorkerFinding. Markdown
// code fences are stripped first. An unparseable payload degrades to a
// neutral low-confidence finding instead of failing the task.
func parseFinding(content string) schema.WorkerFinding {
	var finding schema.WorkerFinding
	cleaned := llmclient.StripFences(content)
	if err := json.Unmarshal([]byte(cleaned), &finding); err != nil {
		contract.LogWarn("Unparseable worker payload, using low-confidence default", err)
		return schema.WorkerFinding{
			LocalScore:    fallbackLocalScore,
			Confidence:    fallbackConfidence,
			Uncertainties: []string{"worker response could not be parsed as JSON"},
		}
	}

	finding.Confidence = clampFloat(finding.Confidence, 0, 1)
	finding.LocalScore = clampFloat(finding.LocalScore, 0, 100)
	return finding
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
