// Package loader reads the motion series handed over by the preprocessing pipeline.
package loader

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/huangsam/motionreport/schema"
	"gopkg.in/yaml.v3"
)

// frameColumn is an optional leading CSV column holding the frame number.
const frameColumn = "frame"

// columnPattern matches one chart column of the legacy report fragment:
// ['motion_tx',0.020 ,0.075 , ... ]
// Values are matched loosely so a malformed column fails parsing instead of being skipped.
var columnPattern = regexp.MustCompile(`\[\s*'((?:[^'\\]|\\.)*)'([^\]]*)\]`)

// nameUnescaper reverses the escaping the chart writer applies to series names.
var nameUnescaper = strings.NewReplacer(`\\`, `\`, `\'`, `'`, `\n`, "\n", `\r`, "\r", `\/`, "/")

// DetectFormat picks the input format from the file extension.
func DetectFormat(path string) (schema.InputFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return schema.JSONInput, nil
	case ".yaml", ".yml":
		return schema.YAMLInput, nil
	case ".csv", ".tsv":
		return schema.CSVInput, nil
	case ".js":
		return schema.ChartInput, nil
	default:
		return "", fmt.Errorf("cannot detect input format of %q; set --input-format", path)
	}
}

// Load reads a motion input file. With schema.AutoInput the format comes from the extension.
func Load(path string, format schema.InputFormat) (schema.MotionInput, error) {
	if format == "" || format == schema.AutoInput {
		detected, err := DetectFormat(path)
		if err != nil {
			return schema.MotionInput{}, err
		}
		format = detected
	}

	file, err := os.Open(path)
	if err != nil {
		return schema.MotionInput{}, fmt.Errorf("failed to open input: %w", err)
	}
	defer func() { _ = file.Close() }()

	input, err := Parse(bufio.NewReader(file), format)
	if err != nil {
		return schema.MotionInput{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if input.Subject == "" {
		input.Subject = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return input, nil
}

// Parse decodes motion series from r in the given format.
func Parse(r io.Reader, format schema.InputFormat) (schema.MotionInput, error) {
	var (
		input schema.MotionInput
		err   error
	)
	switch format {
	case schema.JSONInput, schema.YAMLInput:
		input, err = parseDocument(r)
	case schema.CSVInput:
		input, err = parseCSV(r)
	case schema.ChartInput:
		input, err = parseChartFragment(r)
	default:
		return schema.MotionInput{}, fmt.Errorf("unsupported input format: %s", format)
	}
	if err != nil {
		return schema.MotionInput{}, err
	}
	if len(input.Series) == 0 {
		return schema.MotionInput{}, errors.New("input holds no series")
	}
	return input, nil
}

// document is the JSON/YAML payload. Series stays a node so key order survives decoding.
type document struct {
	Subject string    `yaml:"subject"`
	Series  yaml.Node `yaml:"series"`
}

// parseDocument decodes JSON or YAML; JSON is read through the YAML decoder, which accepts it as flow style.
func parseDocument(r io.Reader) (schema.MotionInput, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return schema.MotionInput{}, errors.New("input is empty")
		}
		return schema.MotionInput{}, fmt.Errorf("failed to decode document: %w", err)
	}
	if doc.Series.Kind != yaml.MappingNode {
		return schema.MotionInput{}, errors.New(`"series" must be a mapping of series name to values`)
	}

	input := newInput(doc.Subject)
	content := doc.Series.Content
	for i := 0; i+1 < len(content); i += 2 {
		name := content[i].Value
		var values []float64
		if err := content[i+1].Decode(&values); err != nil {
			return schema.MotionInput{}, fmt.Errorf("series %q: %w", name, err)
		}
		if err := addSeries(&input, name, values); err != nil {
			return schema.MotionInput{}, err
		}
	}
	return input, nil
}

// parseCSV reads a header of series names followed by one row per frame.
func parseCSV(r io.Reader) (schema.MotionInput, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return schema.MotionInput{}, errors.New("input is empty")
		}
		return schema.MotionInput{}, fmt.Errorf("failed to read CSV header: %w", err)
	}

	skip := 0
	if len(header) > 0 && strings.EqualFold(strings.TrimSpace(header[0]), frameColumn) {
		skip = 1
	}
	columns := make([][]float64, len(header))

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return schema.MotionInput{}, fmt.Errorf("failed to read CSV row: %w", err)
		}
		for col := skip; col < len(record); col++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(record[col]), 64)
			if err != nil {
				return schema.MotionInput{}, fmt.Errorf("line %d, column %q: %w", line, header[col], err)
			}
			columns[col] = append(columns[col], v)
		}
	}

	input := newInput("")
	for col := skip; col < len(header); col++ {
		if err := addSeries(&input, strings.TrimSpace(header[col]), columns[col]); err != nil {
			return schema.MotionInput{}, err
		}
	}
	return input, nil
}

// parseChartFragment reads the chart-data fragment of an existing report page.
func parseChartFragment(r io.Reader) (schema.MotionInput, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return schema.MotionInput{}, fmt.Errorf("failed to read chart fragment: %w", err)
	}

	input := newInput("")
	for _, m := range columnPattern.FindAllStringSubmatch(string(raw), -1) {
		name := nameUnescaper.Replace(m[1])
		rest := strings.TrimSpace(m[2])
		var values []float64
		if rest != "" {
			if !strings.HasPrefix(rest, ",") {
				return schema.MotionInput{}, fmt.Errorf("series %q: expected ',' after the name, got %q", name, rest)
			}
			for field := range strings.SplitSeq(rest[1:], ",") {
				field = strings.TrimSpace(field)
				v, err := strconv.ParseFloat(field, 64)
				if err != nil {
					return schema.MotionInput{}, fmt.Errorf("series %q: invalid value %q", name, field)
				}
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return schema.MotionInput{}, fmt.Errorf("series %q: non-finite value %q", name, field)
				}
				values = append(values, v)
			}
		}
		if err := addSeries(&input, name, values); err != nil {
			return schema.MotionInput{}, err
		}
	}
	return input, nil
}

func newInput(subject string) schema.MotionInput {
	return schema.MotionInput{Subject: strings.TrimSpace(subject), Series: make(map[string][]float64)}
}

// addSeries appends a series, keeping first-seen order and rejecting duplicates.
func addSeries(input *schema.MotionInput, name string, values []float64) error {
	if name == "" {
		return errors.New("series name is empty")
	}
	if _, dup := input.Series[name]; dup {
		return fmt.Errorf("series %q appears more than once", name)
	}
	if values == nil {
		values = []float64{}
	}
	input.Series[name] = values
	input.Order = append(input.Order, name)
	return nil
}
