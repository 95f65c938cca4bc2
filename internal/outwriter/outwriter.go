// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/motionreport/internal/contract"
	"github.com/huangsam/motionreport/internal/parquet"
	"github.com/huangsam/motionreport/schema"
)

// PrintReport outputs the motion charts, dispatching based on the output format configured.
func PrintReport(out schema.ReportOutput, summary schema.ReportSummary, cfg *contract.Config, duration time.Duration) error {
	format := newValueFormatter(cfg.Precision, out.Flags)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONCharts(w, out, format)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVReport(w, out, format)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.JSOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeChartScript(w, out, format)
		}, "Wrote chart data"); err != nil {
			return fmt.Errorf("error writing chart data: %w", err)
		}
	case schema.HTMLOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHTMLReport(w, out, summary, format)
		}, "Wrote HTML report"); err != nil {
			return fmt.Errorf("error writing HTML output: %w", err)
		}
	case schema.PNGOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePNGCharts(w, out)
		}, "Wrote PNG charts"); err != nil {
			return fmt.Errorf("error writing PNG output: %w", err)
		}
	case schema.ParquetOut:
		if err := printParquetReport(out, cfg); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportTable(w, out, summary, cfg, format, duration)
		}, "Wrote table"); err != nil {
			return fmt.Errorf("error writing table output: %w", err)
		}
	}
	return nil
}

// printParquetReport writes frame-major samples of every chart.
func printParquetReport(out schema.ReportOutput, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for parquet output")
	}
	samples := parquet.SamplesFromGroups(out.ReportID, out.Groups)
	if err := parquet.WriteSeriesSamplesParquet(samples, cfg.OutputFile); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stderr, "💾 Wrote %d samples to %s\n", len(samples), cfg.OutputFile)
	return nil
}
