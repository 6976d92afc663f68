package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mergerisk/mergerisk/core"
	"github.com/mergerisk/mergerisk/internal/contract"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg  *contract.Config
	source   contract.ChangeSource
	analyzer contract.Analyzer
	mgr      contract.CacheManager
}

// applyRequestOverrides clones the base config and applies per-request knobs.
func (h *toolHandler) applyRequestOverrides(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()

	slug := request.GetString("repo", "")
	owner, repo, err := contract.SplitRepoSlug(slug)
	if err != nil {
		return nil, err
	}
	cfg.Owner = owner
	cfg.Repo = repo

	if lookback := request.GetInt("lookback", 0); lookback > 0 {
		cfg.LookbackDays = lookback
		cfg.Since = time.Now().AddDate(0, 0, -lookback)
	}
	if threshold := request.GetFloat("threshold", -1); threshold >= 0 && threshold <= 1 {
		cfg.Threshold = threshold
	}
	if limit := request.GetInt("limit", 0); limit > 0 {
		cfg.ResultLimit = limit
	}
	return cfg, nil
}

func (h *toolHandler) handleGetChangeRiskReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.applyRequestOverrides(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid report parameters: %v", err)), nil
	}

	report, err := core.GetReportResults(ctx, cfg, h.source, h.analyzer, h.mgr, nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report failed: %v", err)), nil
	}

	// Rank for the tool consumer; the report order itself is fetch order.
	report.Records = core.RankChanges(report.Records, cfg.ResultLimit)
	jsonData, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetRecentActivity(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.applyRequestOverrides(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid activity parameters: %v", err)), nil
	}

	summary, err := core.GetActivitySummary(ctx, cfg, h.source)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("activity fetch failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(summary, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
