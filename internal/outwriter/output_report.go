package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/huangsam/motionreport/internal/contract"
	"github.com/huangsam/motionreport/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// writeReportTable writes one table per chart group, splitting wide groups so they
// fit the terminal.
func writeReportTable(w io.Writer, out schema.ReportOutput, summary schema.ReportSummary, cfg *contract.Config, format valueFormatter, duration time.Duration) error {
	if _, err := fmt.Fprintf(w, "Motion report for %s\n", out.Subject); err != nil {
		return err
	}

	scrubbed := scrubbedFrames(out)
	withStatus := hasFlags(out)
	maxColumns := GetMaxTableSeriesColumns(cfg)

	for _, g := range out.Groups {
		for start := 0; start < len(g.Series); start += maxColumns {
			chunk := g.Series[start:min(start+maxColumns, len(g.Series))]
			if _, err := fmt.Fprintf(w, "\n[%s] selection %s\n", g.Key, selectionState(g.SelectionEnabled)); err != nil {
				return err
			}
			if err := writeGroupTable(w, g.Len(), chunk, scrubbed, withStatus, cfg, format); err != nil {
				return err
			}
		}
	}

	if _, err := fmt.Fprintf(w, "Showing %d frames in %d charts (scrubbed: %d, %.1f%%)\n",
		out.Frames, len(out.Groups), summary.ScrubbedFrames, summary.ScrubbedRatio*100); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Report built in %v. Store backend: %s\n", duration, cfg.StoreBackend); err != nil {
		return err
	}
	return nil
}

// writeGroupTable renders frames of a set of series sharing one group.
func writeGroupTable(w io.Writer, frames int, series []schema.Series, scrubbed []bool, withStatus bool, cfg *contract.Config, format valueFormatter) error {
	table := tablewriter.NewWriter(w)

	// 1. Define Headers
	columnWidth := max(cfg.Precision+6, 10)
	headers := []string{"Frame"}
	for _, s := range series {
		headers = append(headers, truncateName(s.Name, columnWidth))
	}
	if withStatus {
		headers = append(headers, "Status")
	}
	table.Header(headers)

	// 2. Numbers line up on the right
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	data := make([][]string, 0, frames)
	for i := range frames {
		row := []string{strconv.Itoa(i)}
		for _, s := range series {
			row = append(row, format.format(s.Name, s.Values[i]))
		}
		if withStatus {
			row = append(row, frameLabel(scrubbed[i], cfg))
		}
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func selectionState(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}

// writeCSVReport writes one row per frame with a column for every series of every chart.
// Cells of charts shorter than the report are left blank.
func writeCSVReport(w io.Writer, out schema.ReportOutput, format valueFormatter) error {
	header := []string{"frame"}
	var columns []schema.Series
	for _, g := range out.Groups {
		for _, s := range g.Series {
			header = append(header, s.Name)
			columns = append(columns, s)
		}
	}

	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i := range out.Frames {
			row := []string{strconv.Itoa(i)}
			for _, s := range columns {
				if i >= s.Len() {
					row = append(row, "")
					continue
				}
				row = append(row, format.format(s.Name, s.Values[i]))
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// chartSelection mirrors the selection block of a chart configuration.
type chartSelection struct {
	Enabled bool `json:"enabled"`
}

// chartConfig is the data configuration of one chart, columns holding the series
// name followed by its samples.
type chartConfig struct {
	Name      schema.GroupKey `json:"name"`
	Var       string          `json:"var"`
	Columns   [][]any         `json:"columns"`
	Selection chartSelection  `json:"selection"`
}

// chartDocument is the JSON rendition of a whole report.
type chartDocument struct {
	Subject    string        `json:"subject"`
	ReportID   int64         `json:"report_id,omitempty"`
	Frames     int           `json:"frames"`
	FlagSeries []string      `json:"flag_series"`
	Charts     []chartConfig `json:"charts"`
}

// buildChartConfigs converts chart groups into per-chart data configurations.
func buildChartConfigs(out schema.ReportOutput, format valueFormatter) []chartConfig {
	charts := make([]chartConfig, 0, len(out.Groups))
	for _, g := range out.Groups {
		chart := chartConfig{
			Name:      g.Key,
			Var:       g.Var,
			Columns:   make([][]any, 0, len(g.Series)),
			Selection: chartSelection{Enabled: g.SelectionEnabled},
		}
		for _, s := range g.Series {
			column := make([]any, 0, s.Len()+1)
			column = append(column, s.Name)
			for _, v := range s.Values {
				column = append(column, format.round(s.Name, v))
			}
			chart.Columns = append(chart.Columns, column)
		}
		charts = append(charts, chart)
	}
	return charts
}

// writeJSONCharts writes the chart configurations of a report as JSON.
func writeJSONCharts(w io.Writer, out schema.ReportOutput, format valueFormatter) error {
	flags := out.Flags
	if flags == nil {
		flags = []string{}
	}
	return writeJSON(w, chartDocument{
		Subject:    out.Subject,
		ReportID:   out.ReportID,
		Frames:     out.Frames,
		FlagSeries: slices.Clone(flags),
		Charts:     buildChartConfigs(out, format),
	})
}
