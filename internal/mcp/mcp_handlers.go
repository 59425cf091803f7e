package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Farahprojects/repoaudit/core"
	"github.com/Farahprojects/repoaudit/internal/contract"
	"github.com/Farahprojects/repoaudit/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	deps    *core.Deps
}

// applyRepoParams clones the base config with the request's repository,
// ref and tier applied.
func (h *toolHandler) applyRepoParams(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()

	owner, repo, err := contract.ParseRepoArg(request.GetString("repository", ""))
	if err != nil {
		return nil, err
	}
	cfg.Owner = owner
	cfg.Repo = repo

	if ref := request.GetString("ref", ""); ref != "" {
		cfg.Ref = ref
	}
	if t := request.GetString("tier", ""); t != "" {
		tier := schema.AuditTier(t)
		if _, ok := schema.ValidAuditTiers[tier]; !ok {
			return nil, &contract.ValidationError{Field: "tier", Reason: "must be quick, standard or deep"}
		}
		cfg.Tier = tier
	}
	return cfg, nil
}

func (h *toolHandler) handleAuditRepository(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.applyRepoParams(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid audit parameters: %v", err)), nil
	}
	if w := request.GetInt("workers", 0); w > 0 {
		cfg.Workers = w
	}

	result, err := core.GetAuditResults(core.WithSuppressHeader(ctx), cfg, h.deps)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("audit failed: %s", contract.UserFacingMessage(err))), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleEstimateCost(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.applyRepoParams(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid estimate parameters: %v", err)), nil
	}

	fp, estimate, err := core.GetCostEstimate(core.WithSuppressHeader(ctx), cfg, h.deps)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("estimate failed: %s", contract.UserFacingMessage(err))), nil
	}

	payload := struct {
		Fingerprint schema.ComplexityFingerprint `json:"fingerprint"`
		Estimate    schema.CostEstimate          `json:"estimate"`
	}{Fingerprint: fp, Estimate: estimate}

	jsonData, _ := json.MarshalIndent(payload, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleArchiveStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := h.deps.Archive.Status()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("status failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(status, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
