// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/huangsam/motionreport/schema"
)

// StoreManager defines the interface for reaching the report store.
// This allows the persistence layer to be mocked for testing.
type StoreManager interface {
	GetReportStore() ReportStore
}

// ReportStore defines the interface for recording rendered reports and their series.
type ReportStore interface {
	// BeginReport creates a new report run and returns its unique ID
	BeginReport(subject string, startTime time.Time, configParams map[string]any) (int64, error)

	// RecordGroup stores every sample of every series in a group
	RecordGroup(reportID int64, group schema.SeriesGroup) error

	// EndReport updates the report run with completion data
	EndReport(reportID int64, endTime time.Time, totalFrames int) error

	// LoadReportInput rebuilds the pipeline payload of a recorded report
	LoadReportInput(reportID int64) (schema.MotionInput, error)

	// GetAllReports returns every report run, oldest first
	GetAllReports() ([]schema.ReportRunRecord, error)

	// GetAllSamples returns every recorded sample
	GetAllSamples() ([]schema.SeriesSampleRecord, error)

	// GetStatus returns status information about the store
	GetStatus() (schema.StoreStatus, error)

	// Close closes the underlying connection
	Close() error
}
