// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/motionreport/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the motion report MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Motion Report Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: list_series ---
	s.AddTool(mcp.NewTool("list_series",
		mcp.WithDescription("List the motion charts of a report and the series each one plots."),
		mcp.WithString("input_path", mcp.Description("Path to a motion input file (json, yaml, csv or chart data).")),
		mcp.WithNumber("report_id", mcp.Description("ID of a stored report, used instead of input_path.")),
	), h.handleListSeries)

	// --- 2. Tool: get_series ---
	s.AddTool(mcp.NewTool("get_series",
		mcp.WithDescription("Return every sample of one named series, such as motion_tx or FD."),
		mcp.WithString("name", mcp.Description("Series name."), mcp.Required()),
		mcp.WithString("input_path", mcp.Description("Path to a motion input file.")),
		mcp.WithNumber("report_id", mcp.Description("ID of a stored report.")),
	), h.handleGetSeries)

	// --- 3. Tool: select_time ---
	s.AddTool(mcp.NewTool("select_time",
		mcp.WithDescription("Select a time point on a chart and return the value of every series at that frame."),
		mcp.WithString("group", mcp.Description("Chart to select on."), mcp.Required(), mcp.Enum("translation", "rotation", "fd", "extra")),
		mcp.WithNumber("index", mcp.Description("Zero-based frame index."), mcp.Required()),
		mcp.WithString("input_path", mcp.Description("Path to a motion input file.")),
		mcp.WithNumber("report_id", mcp.Description("ID of a stored report.")),
	), h.handleSelectTime)

	// --- 4. Tool: summarize_motion ---
	s.AddTool(mcp.NewTool("summarize_motion",
		mcp.WithDescription("Summarize every series of a report and count the scrubbed frames."),
		mcp.WithString("input_path", mcp.Description("Path to a motion input file.")),
		mcp.WithNumber("report_id", mcp.Description("ID of a stored report.")),
	), h.handleSummarizeMotion)

	return s
}

// StartMCPServer starts the motion report MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
