package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"

	"github.com/huangsam/motionreport/internal/contract"
	"github.com/huangsam/motionreport/schema"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		_, _ = fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writeRows(csvWriter); err != nil {
		return err
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// valueFormatter prints samples at a fixed precision, and flag samples as bare integers
// the way the report page expects them.
type valueFormatter struct {
	precision int
	flags     []string
}

func newValueFormatter(precision int, flags []string) valueFormatter {
	if precision <= 0 {
		precision = contract.DefaultPrecision
	}
	return valueFormatter{precision: precision, flags: flags}
}

// isFlag reports whether series holds frame flags.
func (f valueFormatter) isFlag(series string) bool {
	return slices.Contains(f.flags, series)
}

// format renders one sample of series.
func (f valueFormatter) format(series string, v float64) string {
	if f.isFlag(series) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', f.precision, 64)
}

// round returns v rounded to the formatter precision, for numeric encodings.
func (f valueFormatter) round(series string, v float64) float64 {
	if f.isFlag(series) {
		return v
	}
	scale := math.Pow10(f.precision)
	return math.Round(v*scale) / scale
}

// scrubbedFrames marks every frame that any flag series sets to 1.
func scrubbedFrames(out schema.ReportOutput) []bool {
	scrubbed := make([]bool, out.Frames)
	for _, g := range out.Groups {
		for _, s := range g.Series {
			if !slices.Contains(out.Flags, s.Name) {
				continue
			}
			for i, v := range s.Values {
				if v == 1 {
					scrubbed[i] = true
				}
			}
		}
	}
	return scrubbed
}

// hasFlags reports whether the report carries any flag series.
func hasFlags(out schema.ReportOutput) bool {
	for _, g := range out.Groups {
		for _, s := range g.Series {
			if slices.Contains(out.Flags, s.Name) {
				return true
			}
		}
	}
	return false
}

// frameLabel returns the scrub label of a frame, colored when cfg allows it.
func frameLabel(scrubbed bool, cfg *contract.Config) string {
	flag := 0.0
	if scrubbed {
		flag = 1
	}
	if cfg.UseColors {
		return contract.GetColorFrameLabel(flag)
	}
	return contract.GetPlainFrameLabel(flag)
}
