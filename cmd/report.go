package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mergerisk/mergerisk/core"
	"github.com/mergerisk/mergerisk/internal/contract"
)

// reportCmd runs the hybrid risk-scoring pipeline.
var reportCmd = &cobra.Command{
	Use:   "report <owner/repo>",
	Short: "Score recently merged pull requests by risk.",
	Long: `Fetch recently merged pull requests, score each with a fast size and
hygiene formula, and escalate changes at or above the threshold for
qualitative review.

Escalated changes carry a reviewer-written score, risk factors, reasoning,
concerns and recommendations; the rest keep their formula score. Reviewer
calls run in small concurrent groups with a pause between groups to stay
inside provider rate limits.

Examples:
  # Score the last 30 days of merges
  mergerisk report acme/widgets

  # Widen the window and lower the bar for escalation
  mergerisk report acme/widgets --lookback 90 --threshold 0.3

  # Formula scores only, no reviewer calls
  mergerisk report acme/widgets --no-escalate

  # Include metadata and score breakdowns
  mergerisk report acme/widgets --detail --explain

  # Export findings for tracking
  mergerisk report acme/widgets --output csv --output-file risk.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteReport(rootCtx, cfg, source, analyzer, cacheManager); err != nil {
			contract.LogFatal("Cannot run risk report", err)
		}
	},
}
