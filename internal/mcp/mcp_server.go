// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/Farahprojects/repoaudit/core"
	"github.com/Farahprojects/repoaudit/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the repoaudit MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, deps *core.Deps) *server.MCPServer {
	s := server.NewMCPServer(
		"Repository Audit Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		deps:    deps,
	}

	// --- 1. Tool: audit_repository ---
	s.AddTool(mcp.NewTool("audit_repository",
		mcp.WithDescription("Run a full LLM-backed audit of a repository and return the scored report."),
		mcp.WithString("repository", mcp.Description("Repository as owner/repo."), mcp.Required()),
		mcp.WithString("ref", mcp.Description("Git reference to audit. Defaults to the configured ref.")),
		mcp.WithString("tier", mcp.Description("Audit depth (quick, standard, deep). Defaults to 'standard'."), mcp.Enum("quick", "standard", "deep")),
		mcp.WithNumber("workers", mcp.Description("Bound on concurrent analysis workers.")),
	), h.handleAuditRepository)

	// --- 2. Tool: estimate_cost ---
	s.AddTool(mcp.NewTool("estimate_cost",
		mcp.WithDescription("Quote the token cost of auditing a repository without running any analysis."),
		mcp.WithString("repository", mcp.Description("Repository as owner/repo."), mcp.Required()),
		mcp.WithString("ref", mcp.Description("Git reference to quote against.")),
		mcp.WithString("tier", mcp.Description("Audit depth (quick, standard, deep)."), mcp.Enum("quick", "standard", "deep")),
	), h.handleEstimateCost)

	// --- 3. Tool: archive_status ---
	s.AddTool(mcp.NewTool("archive_status",
		mcp.WithDescription("Report the state of the repository archive cache."),
	), h.handleArchiveStatus)

	return s
}

// StartMCPServer starts the repoaudit MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, deps *core.Deps) error {
	s := NewMCPServer(baseCfg, deps)
	return server.ServeStdio(s)
}
