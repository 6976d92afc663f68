package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mergerisk/mergerisk/internal/mcp"
)

// mcpSetup runs shared setup around a default repository slug.
// Each tool call supplies its own owner/repo.
func mcpSetup(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = []string{"mcp/default"}
	}
	return sharedSetup(rootCtx, cmd, args)
}

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [owner/repo]",
	Short: "Start the mergerisk MCP server",
	Long:  `Launch an MCP server that allows AI agents to run risk reports and activity summaries via standard tools.`,
	Args:  cobra.MaximumNArgs(1),
	// Stdio carries the protocol, so setup must not write to stdout.
	PreRunE: mcpSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, source, analyzer, cacheManager)
	},
}
