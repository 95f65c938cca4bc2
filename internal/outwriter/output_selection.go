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

// PrintSelection outputs the chart values at a selected time point.
func PrintSelection(result schema.SelectionResult, cfg *contract.Config, duration time.Duration) error {
	format := newValueFormatter(cfg.Precision, cfg.FlagSeries)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVSelection(w, result, format)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSelectionTable(w, result, cfg, format, duration)
		}, "Wrote table"); err != nil {
			return fmt.Errorf("error writing table output: %w", err)
		}
	}
	return nil
}

// writeSelectionTable generates and writes the human-readable selection table.
func writeSelectionTable(w io.Writer, result schema.SelectionResult, cfg *contract.Config, format valueFormatter, duration time.Duration) error {
	label := frameLabel(result.Scrubbed, cfg)
	frame := strconv.Itoa(result.Index)
	if cfg.UseColors {
		frame = contract.SelectedColor.Sprint(frame)
	}
	if _, err := fmt.Fprintf(w, "Selected frame %s on %s chart of %s (%s)\n", frame, result.Group, result.Subject, label); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Group", "Series", "Value"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(result.Values))
	for _, v := range result.Values {
		data = append(data, []string{string(v.Group), v.Name, format.format(v.Name, v.Value)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Selection completed in %v. Store backend: %s\n", duration, cfg.StoreBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVSelection writes one row per series value at the selected frame.
func writeCSVSelection(w io.Writer, result schema.SelectionResult, format valueFormatter) error {
	header := []string{"frame", "selected_group", "group", "series", "value", "label"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		label := contract.KeptValue
		if result.Scrubbed {
			label = contract.ScrubbedValue
		}
		for _, v := range result.Values {
			row := []string{
				strconv.Itoa(result.Index),     // Frame
				string(result.Group),           // Chart that was clicked
				string(v.Group),                // Group of the value
				v.Name,                         // Series
				format.format(v.Name, v.Value), // Value
				label,                          // Scrub label
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
