// Package parquet provides data structures and functions for exporting motion
// report data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/motionreport/schema"
	"github.com/parquet-go/parquet-go"
)

// ReportRun represents a single rendered motion report with metadata.
// This struct maps to the motion_report_runs database table.
type ReportRun struct {
	// ReportID is the unique identifier for this report run
	ReportID int64 `parquet:"report_id,snappy"`

	// Subject labels the scan the motion estimates belong to
	Subject string `parquet:"subject,snappy"`

	// StartTime is when rendering began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when rendering completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalFrames is the number of frames in the report
	TotalFrames int32 `parquet:"total_frames,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// SeriesSample is the value of one series at one frame.
// This struct maps to the motion_series_samples database table.
type SeriesSample struct {
	ReportID   int64   `parquet:"report_id,snappy"`
	GroupName  string  `parquet:"group_name,dict,snappy"`
	SeriesName string  `parquet:"series_name,dict,snappy"`
	SeriesPos  int32   `parquet:"series_pos,snappy"`
	Frame      int32   `parquet:"frame,snappy"`
	Value      float64 `parquet:"value,snappy"`
}

// WriteReportRunsParquet writes a slice of ReportRun structs to a Parquet file.
func WriteReportRunsParquet(data []ReportRun, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteSeriesSamplesParquet writes a slice of SeriesSample structs to a Parquet file.
func WriteSeriesSamplesParquet(data []SeriesSample, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet creates outputPath and writes rows with a schema inferred from the struct tags of T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertReportRunRecords converts schema.ReportRunRecord to ReportRun for Parquet export.
func ConvertReportRunRecords(records []schema.ReportRunRecord) []ReportRun {
	result := make([]ReportRun, len(records))
	for i, record := range records {
		result[i] = ReportRun{
			ReportID:      record.ReportID,
			Subject:       record.Subject,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			TotalFrames:   record.TotalFrames,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertSeriesSampleRecords converts schema.SeriesSampleRecord to SeriesSample for Parquet export.
func ConvertSeriesSampleRecords(records []schema.SeriesSampleRecord) []SeriesSample {
	result := make([]SeriesSample, len(records))
	for i, record := range records {
		result[i] = SeriesSample{
			ReportID:   record.ReportID,
			GroupName:  record.GroupName,
			SeriesName: record.SeriesName,
			SeriesPos:  record.SeriesPos,
			Frame:      record.Frame,
			Value:      record.Value,
		}
	}
	return result
}

// SamplesFromGroups flattens chart groups into frame-major sample rows.
func SamplesFromGroups(reportID int64, groups []schema.ChartGroup) []SeriesSample {
	var result []SeriesSample
	for _, g := range groups {
		for frame := range g.Len() {
			for pos, s := range g.Series {
				result = append(result, SeriesSample{
					ReportID:   reportID,
					GroupName:  string(g.Key),
					SeriesName: s.Name,
					SeriesPos:  int32(pos),
					Frame:      int32(frame),
					Value:      s.Values[frame],
				})
			}
		}
	}
	return result
}
