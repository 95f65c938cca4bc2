package schema

import "time"

// ReportRunRecord represents a row from the motion_report_runs table.
type ReportRunRecord struct {
	ReportID      int64
	Subject       string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	TotalFrames   int32
	ConfigParams  *string
}

// SeriesSampleRecord represents a row from the motion_series_samples table.
type SeriesSampleRecord struct {
	ReportID   int64
	GroupName  string
	SeriesName string
	SeriesPos  int32 // legend position of the series inside its group
	Frame      int32
	Value      float64
}
