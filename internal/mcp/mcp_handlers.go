package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/huangsam/motionreport/core"
	"github.com/huangsam/motionreport/internal/contract"
	"github.com/huangsam/motionreport/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// groupListing describes one chart without its samples.
type groupListing struct {
	Name             schema.GroupKey `json:"name"`
	Var              string          `json:"var"`
	Frames           int             `json:"frames"`
	SelectionEnabled bool            `json:"selection_enabled"`
	Series           []string        `json:"series"`
}

type seriesListing struct {
	Subject string         `json:"subject"`
	Frames  int            `json:"frames"`
	Groups  []groupListing `json:"groups"`
}

type seriesResult struct {
	Subject string          `json:"subject"`
	Group   schema.GroupKey `json:"group"`
	Name    string          `json:"name"`
	Values  []float64       `json:"values"`
}

// requestConfig applies the source arguments shared by every tool to a copy of the base config.
func (h *toolHandler) requestConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("input_path", ""); p != "" {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		cfg.InputPath = abs
		cfg.ReportID = 0
	}
	if id := request.GetInt("report_id", 0); id > 0 {
		cfg.ReportID = int64(id)
	}
	if cfg.InputPath == "" && cfg.ReportID <= 0 {
		return nil, fmt.Errorf("input_path or report_id is required")
	}
	return cfg, nil
}

func (h *toolHandler) loadReport(ctx context.Context, request mcp.CallToolRequest, cursor *core.TimeCursor) (*core.Report, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return nil, err
	}
	return core.LoadReport(ctx, cfg, h.mgr, cursor)
}

func (h *toolHandler) handleListSeries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := h.loadReport(ctx, request, core.NewTimeCursor())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading report failed: %v", err)), nil
	}

	listing := seriesListing{Subject: report.Subject, Frames: report.Frames()}
	for _, b := range report.Bindings() {
		g := groupListing{
			Name:             b.Name(),
			Var:              schema.ChartVar(b.Name()),
			Frames:           b.Len(),
			SelectionEnabled: b.SelectionEnabled(),
		}
		for _, s := range b.Series() {
			g.Series = append(g.Series, s.Name)
		}
		listing.Groups = append(listing.Groups, g)
	}

	jsonData, _ := json.MarshalIndent(listing, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetSeries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := request.GetString("name", "")
	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}
	report, err := h.loadReport(ctx, request, core.NewTimeCursor())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading report failed: %v", err)), nil
	}

	for _, b := range report.Bindings() {
		if s, ok := b.SeriesByName(name); ok {
			jsonData, _ := json.MarshalIndent(seriesResult{
				Subject: report.Subject,
				Group:   b.Name(),
				Name:    s.Name,
				Values:  s.Values,
			}, "", "  ")
			return mcp.NewToolResultText(string(jsonData)), nil
		}
	}
	return mcp.NewToolResultError(fmt.Sprintf("series %q not found", name)), nil
}

func (h *toolHandler) handleSelectTime(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	group, err := contract.RevalidateSelect(request.GetString("group", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid selection parameters: %v", err)), nil
	}
	index, err := request.RequireInt("index")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid selection parameters: %v", err)), nil
	}
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading report failed: %v", err)), nil
	}
	cfg.Group = group
	cfg.Index = index

	result, err := core.GetSelectionResult(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("selection failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleSummarizeMotion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := h.loadReport(ctx, request, core.NewTimeCursor())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading report failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(core.Summarize(report), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
