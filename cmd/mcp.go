package cmd

import (
	"github.com/spf13/cobra"
	"github.com/udithaR/Alitheia-Core/internal/mcp"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the contribution scoring MCP server",
	Long: `Launch an MCP server over stdio that lets AI agents read scores, weights and
touched resources, and trigger scoring runs, via standard tools.`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		// The project only seeds defaults; every tool may override it.
		return projectSetup(rootCtx, cmd)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, ledgerManager)
	},
}
