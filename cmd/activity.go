package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mergerisk/mergerisk/core"
	"github.com/mergerisk/mergerisk/internal/contract"
)

// activityCmd summarizes recent CI and deployment activity.
var activityCmd = &cobra.Command{
	Use:   "activity <owner/repo>",
	Short: "Summarize recent CI runs and deployments.",
	Long: `Show recent workflow runs and deployments for a repository without
risk scoring. Useful context when reading a risk report.

Examples:
  # Last 30 days of CI and deployment activity
  mergerisk activity acme/widgets

  # JSON for scripting
  mergerisk activity acme/widgets --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteActivity(rootCtx, cfg, source); err != nil {
			contract.LogFatal("Cannot run activity summary", err)
		}
	},
}
