// Package core has the orchestration logic for audit runs: chunk
// planning, cost estimation, worker dispatch and report synthesis.
package core

import (
	"context"
	"time"

	"github.com/Farahprojects/repoaudit/internal/contract"
	"github.com/Farahprojects/repoaudit/internal/outwriter"
	"github.com/Farahprojects/repoaudit/schema"
)

// Deps bundles the external collaborators an audit run needs.
type Deps struct {
	Source  contract.SourceClient
	LLM     contract.LLMClient
	Archive contract.ArchiveManager
}

// ExecuteAudit runs the full audit pipeline and prints the report to
// stdout. It serves as the main entry point for the 'audit' command.
func ExecuteAudit(ctx context.Context, cfg *contract.Config, deps *Deps) error {
	start := time.Now()
	result, err := runAuditCore(ctx, cfg, deps)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.PrintSynthesisResult(result, cfg, duration)
}

// GetAuditResults runs the audit pipeline and returns the raw report
// without printing. Used by the MCP tools.
func GetAuditResults(ctx context.Context, cfg *contract.Config, deps *Deps) (*schema.SynthesisResult, error) {
	return runAuditCore(ctx, cfg, deps)
}

// ExecuteEstimate derives the complexity fingerprint and prints the cost
// quote without dispatching any workers. It serves as the main entry
// point for the 'estimate' command.
func ExecuteEstimate(ctx context.Context, cfg *contract.Config, deps *Deps) error {
	fp, estimate, err := GetCostEstimate(ctx, cfg, deps)
	if err != nil {
		return err
	}
	return outwriter.PrintCostEstimate(fp, estimate, cfg)
}

// GetCostEstimate prepares the archive, derives the fingerprint and
// quotes the run for the configured tier.
func GetCostEstimate(ctx context.Context, cfg *contract.Config, deps *Deps) (schema.ComplexityFingerprint, schema.CostEstimate, error) {
	meta, err := ensureArchive(ctx, cfg, deps.Archive)
	if err != nil {
		return schema.ComplexityFingerprint{}, schema.CostEstimate{}, err
	}
	manifest := BuildManifest(cfg, meta)
	fp := Fingerprint(manifest)
	return fp, EstimateCost(fp, cfg.Tier), nil
}
