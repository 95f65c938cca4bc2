// Package core has core logic for building, selecting and summarizing motion reports.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/motionreport/internal/contract"
	"github.com/huangsam/motionreport/internal/loader"
	"github.com/huangsam/motionreport/internal/outwriter"
	"github.com/huangsam/motionreport/schema"
)

// ExecuteRender builds the motion charts for one input and writes them in the configured format.
// It serves as the main entry point for the 'render' command.
func ExecuteRender(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	report, err := LoadReport(ctx, cfg, mgr, NewTimeCursor())
	if err != nil {
		return err
	}

	var reportID int64
	if cfg.ReportID > 0 {
		reportID = cfg.ReportID // re-rendering does not record a new run
	} else {
		reportID = recordReport(cfg, mgr, report, start)
	}

	duration := time.Since(start)
	return outwriter.PrintReport(report.Output(reportID), Summarize(report), cfg, duration)
}

// ExecuteSelect selects one time point on a chart, the way a click on the report
// page does, and prints what every chart shows at that frame.
func ExecuteSelect(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	result, err := GetSelectionResult(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.PrintSelection(result, cfg, duration)
}

// GetSelectionResult routes cfg.Index on chart cfg.Group through the report's time cursor
// and collects the value of every series at the delivered frame.
func GetSelectionResult(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.SelectionResult, error) {
	group, err := contract.RevalidateSelect(string(cfg.Group))
	if err != nil {
		return schema.SelectionResult{}, err
	}

	cursor := NewTimeCursor()
	report, err := LoadReport(ctx, cfg, mgr, cursor)
	if err != nil {
		return schema.SelectionResult{}, err
	}

	var result *schema.SelectionResult
	cursor.Subscribe(func(index int) {
		result = &schema.SelectionResult{
			Subject:  report.Subject,
			Group:    group,
			Index:    index,
			Scrubbed: report.Scrubbed(index),
			Values:   report.ValuesAt(index),
		}
	})

	if err := report.Select(group, cfg.Index); err != nil {
		return schema.SelectionResult{}, err
	}
	if result == nil {
		return schema.SelectionResult{}, errors.New("selection was not delivered")
	}
	return *result, nil
}

// ExecuteSummary prints descriptive statistics and the scrubbed-frame count of a report.
func ExecuteSummary(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	report, err := LoadReport(ctx, cfg, mgr, NewTimeCursor())
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.PrintSummary(Summarize(report), cfg, duration)
}

// LoadReport reads the configured input and builds its report with cursor as the selection handler.
func LoadReport(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, cursor *TimeCursor) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	input, err := loadInput(cfg, mgr)
	if err != nil {
		return nil, err
	}
	if cfg.Subject != "" {
		input.Subject = cfg.Subject
	}
	return BuildReport(input, cursor.SelectTime, cfg.SelectionEnabled, WithFlagSeries(cfg.FlagSeries...))
}

// loadInput reads the input file, or a stored report when a report ID is set.
func loadInput(cfg *contract.Config, mgr contract.StoreManager) (schema.MotionInput, error) {
	if cfg.ReportID <= 0 {
		return loader.Load(cfg.InputPath, cfg.InputFormat)
	}
	store := mgr.GetReportStore()
	if store == nil {
		return schema.MotionInput{}, fmt.Errorf("report %d requested but no store is configured", cfg.ReportID)
	}
	input, err := store.LoadReportInput(cfg.ReportID)
	if err != nil {
		return schema.MotionInput{}, fmt.Errorf("failed to load report %d: %w", cfg.ReportID, err)
	}
	return input, nil
}

// recordReport saves the report to the store. Store failures only warn.
func recordReport(cfg *contract.Config, mgr contract.StoreManager, report *Report, start time.Time) int64 {
	store := mgr.GetReportStore()
	if store == nil {
		return 0
	}

	configParams := map[string]any{
		"input_path":        cfg.InputPath,
		"input_format":      string(cfg.InputFormat),
		"output":            string(cfg.Output),
		"precision":         cfg.Precision,
		"selection_enabled": cfg.SelectionEnabled,
		"flag_series":       cfg.FlagSeries,
	}
	reportID, err := store.BeginReport(report.Subject, start, configParams)
	if err != nil {
		contract.LogWarn("Report tracking initialization failed", err)
		return 0
	}
	if reportID <= 0 {
		return 0
	}

	for _, b := range report.Bindings() {
		if err := store.RecordGroup(reportID, b.Group()); err != nil {
			contract.LogWarn(fmt.Sprintf("Failed to record %s chart", b.Name()), err)
		}
	}
	if err := store.EndReport(reportID, time.Now(), report.Frames()); err != nil {
		contract.LogWarn("Failed to finalize report tracking", err)
	}
	return reportID
}
