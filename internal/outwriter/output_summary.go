package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/motionreport/internal/contract"
	"github.com/huangsam/motionreport/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintSummary outputs descriptive statistics of every series in a report.
func PrintSummary(summary schema.ReportSummary, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, summary)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVSummary(w, summary, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSummaryTable(w, summary, cfg, fmtFloat, duration)
		}, "Wrote table"); err != nil {
			return fmt.Errorf("error writing table output: %w", err)
		}
	}
	return nil
}

// createFormatter returns a float formatter for the configured precision.
func createFormatter(precision int) func(float64) string {
	if precision <= 0 {
		precision = contract.DefaultPrecision
	}
	return func(v float64) string {
		return strconv.FormatFloat(v, 'f', precision, 64)
	}
}

// writeSummaryTable generates and writes the human-readable summary table.
func writeSummaryTable(w io.Writer, summary schema.ReportSummary, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)

	// 1. Define Headers
	table.Header([]string{"Group", "Series", "Frames", "Mean", "Median", "StdDev", "Min", "Max"})

	// 2. Numbers line up on the right
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	data := make([][]string, 0, len(summary.Series))
	for _, s := range summary.Series {
		data = append(data, []string{
			string(s.Group),
			s.Name,
			strconv.Itoa(s.Frames),
			fmtFloat(s.Mean),
			fmtFloat(s.Median),
			fmtFloat(s.StdDev),
			fmtFloat(s.Min),
			fmtFloat(s.Max),
		})
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	scrubbed := fmt.Sprintf("%d", summary.ScrubbedFrames)
	if cfg.UseColors && summary.ScrubbedFrames > 0 {
		scrubbed = contract.ScrubbedColor.Sprint(scrubbed)
	}
	if _, err := fmt.Fprintf(w, "Summary of %s: %d frames, %s scrubbed (%.1f%%)\n",
		summary.Subject, summary.Frames, scrubbed, summary.ScrubbedRatio*100); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Summary completed in %v. Store backend: %s\n", duration, cfg.StoreBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVSummary writes one row per series summary.
func writeCSVSummary(w io.Writer, summary schema.ReportSummary, fmtFloat func(float64) string) error {
	header := []string{"subject", "group", "series", "frames", "mean", "median", "std_dev", "min", "max"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, s := range summary.Series {
			row := []string{
				summary.Subject,
				string(s.Group),
				s.Name,
				strconv.Itoa(s.Frames),
				fmtFloat(s.Mean),
				fmtFloat(s.Median),
				fmtFloat(s.StdDev),
				fmtFloat(s.Min),
				fmtFloat(s.Max),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
