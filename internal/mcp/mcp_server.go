// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/pytyped/typescore/internal/contract"
)

// NewMCPServer initializes and configures the Typescore MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, store contract.HistoryStore) *server.MCPServer {
	s := server.NewMCPServer(
		"Typescore History Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		store:   store,
	}

	// --- 1. Tool: get_package_score ---
	s.AddTool(mcp.NewTool("get_package_score",
		mcp.WithDescription("Look up the type completeness score recorded for a Python package."),
		mcp.WithString("package", mcp.Description("The package name as listed in the catalog."), mcp.Required()),
		mcp.WithString("month", mcp.Description("Partition date (YYYY-MM-DD). Defaults to the configured month.")),
	), h.handleGetPackageScore)

	// --- 2. Tool: list_package_scores ---
	s.AddTool(mcp.NewTool("list_package_scores",
		mcp.WithDescription("List type completeness scores recorded in a run partition."),
		mcp.WithString("month", mcp.Description("Partition date (YYYY-MM-DD). Defaults to the configured month.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleListPackageScores)

	return s
}

// StartMCPServer starts the Typescore MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, store contract.HistoryStore) error {
	s := NewMCPServer(baseCfg, store)
	return server.ServeStdio(s)
}
