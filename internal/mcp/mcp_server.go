// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mergerisk/mergerisk/internal/contract"
)

// NewMCPServer initializes and configures the mergerisk MCP server without
// starting it. Exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, source contract.ChangeSource, analyzer contract.Analyzer, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Merge Risk Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg:  baseCfg,
		source:   source,
		analyzer: analyzer,
		mgr:      mgr,
	}

	// --- 1. Tool: get_change_risk_report ---
	s.AddTool(mcp.NewTool("get_change_risk_report",
		mcp.WithDescription("Score recently merged pull requests for risk, escalating high-risk changes to a qualitative reviewer."),
		mcp.WithString("repo", mcp.Description("Repository in owner/repo form."), mcp.Required()),
		mcp.WithNumber("lookback", mcp.Description("Days of merged activity to analyze. Defaults to the configured lookback.")),
		mcp.WithNumber("threshold", mcp.Description("Escalation threshold between 0 and 1. Defaults to the configured threshold.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of ranked results returned.")),
	), h.handleGetChangeRiskReport)

	// --- 2. Tool: get_recent_activity ---
	s.AddTool(mcp.NewTool("get_recent_activity",
		mcp.WithDescription("Summarize recent CI runs and deployments for a repository, without risk scoring."),
		mcp.WithString("repo", mcp.Description("Repository in owner/repo form."), mcp.Required()),
		mcp.WithNumber("lookback", mcp.Description("Days of activity to summarize.")),
	), h.handleGetRecentActivity)

	return s
}

// StartMCPServer starts the mergerisk MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, source contract.ChangeSource, analyzer contract.Analyzer, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, source, analyzer, mgr)
	return server.ServeStdio(s)
}
