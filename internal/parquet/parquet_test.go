package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/motionreport/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRuns() []ReportRun {
	now := time.Now()
	start := now.Add(-2 * time.Minute)
	end := now.Add(-1 * time.Minute)
	duration := int32(end.Sub(start).Milliseconds())
	params := `{"output":"html","precision":3}`

	return []ReportRun{
		{
			ReportID:      1,
			Subject:       "sub-01",
			StartTime:     start,
			EndTime:       &end,
			RunDurationMs: &duration,
			TotalFrames:   30,
			ConfigParams:  &params,
		},
		{
			ReportID:    2,
			Subject:     "sub-02",
			StartTime:   now,
			TotalFrames: 0,
		},
	}
}

func readAll[T any](t *testing.T, path string) []T {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[T](file)
	defer func() { _ = reader.Close() }()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	return rows[:n]
}

func TestReportRunStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(ReportRun))
	for _, col := range []string{"report_id", "subject", "start_time", "end_time", "run_duration_ms", "total_frames", "config_params"} {
		_, ok := s.Lookup(col)
		assert.True(t, ok, "Column %s should exist in schema", col)
	}
}

func TestSeriesSampleStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(SeriesSample))
	for _, col := range []string{"report_id", "group_name", "series_name", "series_pos", "frame", "value"} {
		_, ok := s.Lookup(col)
		assert.True(t, ok, "Column %s should exist in schema", col)
	}
}

func TestWriteReportRunsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "report_runs.parquet")
	data := sampleRuns()
	require.NoError(t, WriteReportRunsParquet(data, outputPath))

	got := readAll[ReportRun](t, outputPath)
	require.Len(t, got, len(data))

	assert.Equal(t, "sub-01", got[0].Subject)
	assert.Equal(t, int32(30), got[0].TotalFrames)
	require.NotNil(t, got[0].EndTime)
	assert.WithinDuration(t, *data[0].EndTime, *got[0].EndTime, time.Nanosecond)
	require.NotNil(t, got[0].ConfigParams)
	assert.Equal(t, *data[0].ConfigParams, *got[0].ConfigParams)

	assert.Nil(t, got[1].EndTime)
	assert.Nil(t, got[1].RunDurationMs)
	assert.Nil(t, got[1].ConfigParams)
}

func TestWriteSeriesSamplesParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "samples.parquet")
	groups := []schema.ChartGroup{
		{
			Key: schema.DisplacementGroup,
			Series: []schema.Series{
				{Name: "FD", Values: []float64{0.0, 0.097}},
				{Name: "scrub", Values: []float64{0, 1}},
			},
		},
	}
	data := SamplesFromGroups(7, groups)
	require.NoError(t, WriteSeriesSamplesParquet(data, outputPath))

	got := readAll[SeriesSample](t, outputPath)
	assert.Equal(t, data, got)
}

func TestWriteParquetEmptyData(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteSeriesSamplesParquet([]SeriesSample{}, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0), "Output file should contain schema even if empty")
}

func TestWriteParquetInvalidPath(t *testing.T) {
	err := WriteReportRunsParquet(sampleRuns(), "/nonexistent/directory/output.parquet")
	require.Error(t, err)
}

func TestSamplesFromGroupsIsFrameMajor(t *testing.T) {
	groups := []schema.ChartGroup{
		{
			Key: schema.TranslationGroup,
			Series: []schema.Series{
				{Name: "motion_tx", Values: []float64{0.020, 0.075}},
				{Name: "motion_ty", Values: []float64{-0.103, -0.084}},
			},
		},
	}
	got := SamplesFromGroups(0, groups)
	require.Len(t, got, 4)
	assert.Equal(t, SeriesSample{GroupName: "translation", SeriesName: "motion_tx", SeriesPos: 0, Frame: 0, Value: 0.020}, got[0])
	assert.Equal(t, SeriesSample{GroupName: "translation", SeriesName: "motion_ty", SeriesPos: 1, Frame: 0, Value: -0.103}, got[1])
	assert.Equal(t, int32(1), got[2].Frame)
}

func TestConvertRecords(t *testing.T) {
	end := time.Now()
	runs := ConvertReportRunRecords([]schema.ReportRunRecord{{ReportID: 3, Subject: "sub-03", EndTime: &end, TotalFrames: 12}})
	require.Len(t, runs, 1)
	assert.Equal(t, int64(3), runs[0].ReportID)
	assert.Equal(t, "sub-03", runs[0].Subject)
	assert.Equal(t, &end, runs[0].EndTime)

	samples := ConvertSeriesSampleRecords([]schema.SeriesSampleRecord{{ReportID: 3, GroupName: "fd", SeriesName: "FD", SeriesPos: 0, Frame: 4, Value: 0.2}})
	assert.Equal(t, []SeriesSample{{ReportID: 3, GroupName: "fd", SeriesName: "FD", Frame: 4, Value: 0.2}}, samples)
}
