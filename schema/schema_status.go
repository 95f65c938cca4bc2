package schema

import "time"

// StoreStatus represents the status of the report store.
type StoreStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalReports  int              `json:"total_reports"`
	LastReportID  int64            `json:"last_report_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TotalSamples  int              `json:"total_samples"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}
