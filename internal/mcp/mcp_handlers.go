package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pytyped/typescore/internal/contract"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	store   contract.HistoryStore
}

func (h *toolHandler) handleGetPackageScore(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pkg := request.GetString("package", "")
	if pkg == "" {
		return mcp.NewToolResultError("package is required"), nil
	}

	partition := request.GetString("month", h.baseCfg.Month)
	if partition == "" {
		return mcp.NewToolResultError("no month given and no default partition configured"), nil
	}

	entry, err := h.store.GetEntry(partition, pkg)
	if errors.Is(err, contract.ErrEntryNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("no score found for %s in partition %s", pkg, partition)), nil
	} else if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("history lookup failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(entry, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListPackageScores(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	partition := request.GetString("month", h.baseCfg.Month)
	if partition == "" {
		return mcp.NewToolResultError("no month given and no default partition configured"), nil
	}

	limit := request.GetInt("limit", h.baseCfg.ResultLimit)
	if limit <= 0 || limit > contract.MaxResultLimit {
		limit = contract.DefaultResultLimit
	}

	entries, err := h.store.GetPartitionEntries(partition)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("history lookup failed: %v", err)), nil
	}
	if len(entries) == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("no scores found in partition %s", partition)), nil
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}

	jsonData, _ := json.MarshalIndent(entries, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
