package mcp_test

import (
	"context"
	"testing"

	"github.com/Farahprojects/repoaudit/core"
	"github.com/Farahprojects/repoaudit/internal/contract"
	mcp_internal "github.com/Farahprojects/repoaudit/internal/mcp"
	"github.com/Farahprojects/repoaudit/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	baseCfg := &contract.Config{
		Tier:    schema.StandardTier,
		Workers: 2,
	}

	// Validation fails before any dependency is touched, so empty deps are fine
	deps := &core.Deps{}
	s := mcp_internal.NewMCPServer(baseCfg, deps)

	ctx := context.Background()

	t.Run("audit_repository malformed repository", func(t *testing.T) {
		tool := s.GetTool("audit_repository")
		require.NotNil(t, tool, "Tool audit_repository should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "audit_repository",
				Arguments: map[string]any{
					"repository": "not-a-repo-arg",
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "invalid audit parameters")
	})

	t.Run("audit_repository missing repository", func(t *testing.T) {
		tool := s.GetTool("audit_repository")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name:      "audit_repository",
				Arguments: map[string]any{},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError)
	})

	t.Run("audit_repository invalid tier", func(t *testing.T) {
		tool := s.GetTool("audit_repository")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "audit_repository",
				Arguments: map[string]any{
					"repository": "octocat/hello",
					"tier":       "extreme", // Invalid
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "quick, standard or deep")
	})

	t.Run("estimate_cost malformed repository", func(t *testing.T) {
		tool := s.GetTool("estimate_cost")
		require.NotNil(t, tool, "Tool estimate_cost should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "estimate_cost",
				Arguments: map[string]any{
					"repository": "///",
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "invalid estimate parameters")
	})
}

func TestMCPServerHandlers_ArchiveStatus(t *testing.T) {
	baseCfg := &contract.Config{Tier: schema.StandardTier}

	archive := &contract.MockArchiveManager{}
	archive.On("Status").Return(schema.ArchiveStatus{
		Backend:       "sqlite",
		Connected:     true,
		TotalArchives: 3,
	}, nil)

	deps := &core.Deps{Archive: archive}
	s := mcp_internal.NewMCPServer(baseCfg, deps)

	tool := s.GetTool("archive_status")
	require.NotNil(t, tool, "Tool archive_status should exist")

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: "archive_status"},
	}

	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, res.IsError)
	text := res.Content[0].(mcp.TextContent).Text
	assert.Contains(t, text, `"totalArchives": 3`)
	assert.Contains(t, text, `"backend": "sqlite"`)
}
