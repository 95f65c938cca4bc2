package outwriter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/motionreport/internal/contract"
	"github.com/huangsam/motionreport/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleOutput has a selectable translation chart and a displacement chart with one scrubbed frame.
func sampleOutput() schema.ReportOutput {
	return schema.ReportOutput{
		Subject: "sub-01",
		Frames:  3,
		Flags:   []string{schema.Scrub},
		Groups: []schema.ChartGroup{
			{
				Key:              schema.TranslationGroup,
				Var:              "tsl",
				SelectionEnabled: true,
				Series: []schema.Series{
					{Name: schema.MotionTX, Values: []float64{0.02, 0.0754, -0.009}},
					{Name: schema.MotionTY, Values: []float64{-0.012, 0, 0.045}},
				},
			},
			{
				Key: schema.DisplacementGroup,
				Var: "fd",
				Series: []schema.Series{
					{Name: schema.FD, Values: []float64{0.462, 0.176, 0.504}},
					{Name: schema.Scrub, Values: []float64{0, 0, 1}},
				},
			},
		},
	}
}

func sampleSummary() schema.ReportSummary {
	return schema.ReportSummary{
		Subject:        "sub-01",
		Frames:         3,
		ScrubbedFrames: 1,
		ScrubbedRatio:  1.0 / 3,
		Series: []schema.SeriesSummary{
			{Group: schema.DisplacementGroup, Name: schema.FD, Frames: 3, Mean: 0.380667, Median: 0.462, StdDev: 0.146, Min: 0.176, Max: 0.504},
		},
	}
}

func TestValueFormatter(t *testing.T) {
	tests := []struct {
		name      string
		precision int
		series    string
		value     float64
		expected  string
	}{
		{"precision 3", 3, schema.FD, 0.0754, "0.075"},
		{"precision 1", 1, schema.FD, 0.46, "0.5"},
		{"negative value", 2, schema.MotionTX, -42.567, "-42.57"},
		{"zero precision falls back to default", 0, schema.FD, 0.1, "0.100"},
		{"flag printed as integer", 3, schema.Scrub, 1, "1"},
		{"flag zero", 3, schema.Scrub, 0, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newValueFormatter(tt.precision, []string{schema.Scrub})
			assert.Equal(t, tt.expected, f.format(tt.series, tt.value))
		})
	}
}

func TestValueFormatterRound(t *testing.T) {
	f := newValueFormatter(3, []string{schema.Scrub})
	assert.InDelta(t, 0.075, f.round(schema.FD, 0.0754), 1e-12)
	assert.InDelta(t, -0.009, f.round(schema.FD, -0.0091), 1e-12)
	assert.Equal(t, 1.0, f.round(schema.Scrub, 1))
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]any{"name": "test", "value": 42}))
	assert.Equal(t, "{\n  \"name\": \"test\",\n  \"value\": 42\n}\n", buf.String())

	err := writeJSON(&buf, map[string]any{"bad": func() {}})
	assert.ErrorContains(t, err, "failed to encode JSON")
}

func TestWriteCSVWithHeader(t *testing.T) {
	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, []string{"a", "b"}, func(w *csv.Writer) error {
		return w.Write([]string{"1", "2"})
	})
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", buf.String())

	err = writeCSVWithHeader(&buf, []string{"a"}, func(*csv.Writer) error {
		return errors.New("row failure")
	})
	assert.EqualError(t, err, "row failure")
}

func TestWriteWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	err := writeWithFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "hello")
		return err
	}, "Wrote text")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	err = writeWithFile(path, func(io.Writer) error { return errors.New("write failure") }, "Wrote text")
	assert.EqualError(t, err, "write failure")

	err = writeWithFile(filepath.Join(t.TempDir(), "missing", "out.txt"), func(io.Writer) error { return nil }, "Wrote text")
	assert.Error(t, err)
}

func TestScrubbedFrames(t *testing.T) {
	out := sampleOutput()
	assert.Equal(t, []bool{false, false, true}, scrubbedFrames(out))
	assert.True(t, hasFlags(out))

	out.Flags = nil
	assert.Equal(t, []bool{false, false, false}, scrubbedFrames(out))
	assert.False(t, hasFlags(out))
}

func TestFrameLabel(t *testing.T) {
	cfg := &contract.Config{}
	assert.Equal(t, contract.ScrubbedValue, frameLabel(true, cfg))
	assert.Equal(t, contract.KeptValue, frameLabel(false, cfg))

	cfg.UseColors = true
	assert.Contains(t, frameLabel(true, cfg), contract.ScrubbedValue)
	assert.Equal(t, contract.KeptValue, frameLabel(false, cfg))
}
