package mcp_test

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mergerisk/mergerisk/internal/contract"
	mcp_internal "github.com/mergerisk/mergerisk/internal/mcp"
)

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	baseCfg := &contract.Config{
		Threshold:   contract.DefaultThreshold,
		Concurrency: contract.DefaultConcurrency,
		ResultLimit: contract.DefaultResultLimit,
	}

	// No source, analyzer or manager needed; validation fails before any of
	// them are touched.
	s := mcp_internal.NewMCPServer(baseCfg, nil, nil, nil)

	ctx := context.Background()

	t.Run("get_change_risk_report missing repo", func(t *testing.T) {
		tool := s.GetTool("get_change_risk_report")
		require.NotNil(t, tool, "Tool get_change_risk_report should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "get_change_risk_report",
				Arguments: map[string]any{
					"repo": "", // Missing required
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "owner/repo")
	})

	t.Run("get_change_risk_report malformed repo", func(t *testing.T) {
		tool := s.GetTool("get_change_risk_report")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "get_change_risk_report",
				Arguments: map[string]any{
					"repo": "not-a-slug",
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError)
	})

	t.Run("get_recent_activity missing repo", func(t *testing.T) {
		tool := s.GetTool("get_recent_activity")
		require.NotNil(t, tool, "Tool get_recent_activity should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name:      "get_recent_activity",
				Arguments: map[string]any{},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError)
	})
}
