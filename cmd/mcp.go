package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pytyped/typescore/internal/histstore"
	"github.com/pytyped/typescore/internal/mcp"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Typescore MCP server",
	Long:  `Launch an MCP server that allows AI agents to query persisted type completeness scores via standard tools.`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		// Uses the minimal history setup so the server can run without
		// catalog configuration; stdio stays clean for the protocol.
		return historySetup()
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, histstore.GetStore())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
