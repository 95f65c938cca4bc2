package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/motionreport/internal/contract"
	"github.com/huangsam/motionreport/schema"
)

// ReportStoreImpl implements the ReportStore interface.
type ReportStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.ReportStore = &ReportStoreImpl{} // Compile-time check

// NewReportStore creates a new ReportStore with the specified backend.
// NoneBackend yields a store that records nothing.
func NewReportStore(backend schema.DatabaseBackend, connStr string) (contract.ReportStore, error) {
	if backend == schema.NoneBackend {
		return &ReportStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}

	if err := createReportTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create report tables: %w", err)
	}

	return &ReportStoreImpl{db: db, backend: backend}, nil
}

// createReportTables creates the report tracking tables.
func createReportTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{reportRunsTable, getCreateReportRunsQuery(backend)},
		{seriesSamplesTable, getCreateSeriesSamplesQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateReportRunsQuery returns the CREATE TABLE query for motion_report_runs.
func getCreateReportRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(reportRunsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				report_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				subject VARCHAR(255) NOT NULL,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				total_frames INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				report_id BIGSERIAL PRIMARY KEY,
				subject TEXT NOT NULL,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms INT,
				total_frames INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				report_id INTEGER PRIMARY KEY AUTOINCREMENT,
				subject TEXT NOT NULL,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				total_frames INTEGER NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateSeriesSamplesQuery returns the CREATE TABLE query for motion_series_samples.
func getCreateSeriesSamplesQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(seriesSamplesTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				report_id BIGINT NOT NULL,
				group_name VARCHAR(64) NOT NULL,
				series_name VARCHAR(128) NOT NULL,
				series_pos INT NOT NULL,
				frame_index INT NOT NULL,
				sample_value DOUBLE NOT NULL,
				PRIMARY KEY (report_id, series_name, frame_index)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				report_id BIGINT NOT NULL,
				group_name TEXT NOT NULL,
				series_name TEXT NOT NULL,
				series_pos INT NOT NULL,
				frame_index INT NOT NULL,
				sample_value DOUBLE PRECISION NOT NULL,
				PRIMARY KEY (report_id, series_name, frame_index)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				report_id INTEGER NOT NULL,
				group_name TEXT NOT NULL,
				series_name TEXT NOT NULL,
				series_pos INTEGER NOT NULL,
				frame_index INTEGER NOT NULL,
				sample_value REAL NOT NULL,
				PRIMARY KEY (report_id, series_name, frame_index)
			);
		`, quotedTableName)
	}
}

// disabled reports whether the store records nothing.
func (rs *ReportStoreImpl) disabled() bool {
	return rs.backend == schema.NoneBackend || rs.db == nil
}

// bind rewrites ? placeholders into $n for PostgreSQL.
func (rs *ReportStoreImpl) bind(query string) string {
	if rs.backend != schema.PostgreSQLBackend {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// BeginReport creates a new report run and returns its unique ID.
func (rs *ReportStoreImpl) BeginReport(subject string, startTime time.Time, configParams map[string]any) (int64, error) {
	if rs.disabled() {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(reportRunsTable, rs.backend)

	var reportID int64
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (subject, start_time, config_params) VALUES ($1, $2, $3) RETURNING report_id`, quotedTableName)
		err = rs.db.QueryRow(query, subject, startTime, string(configJSON)).Scan(&reportID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (subject, start_time, config_params) VALUES (?, ?, ?)`, quotedTableName)
		var result sql.Result
		result, err = rs.db.Exec(query, subject, formatTime(startTime, rs.backend), string(configJSON))
		if err != nil {
			return 0, fmt.Errorf("failed to insert report run: %w", err)
		}
		reportID, err = result.LastInsertId()
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert report run: %w", err)
	}
	return reportID, nil
}

// RecordGroup stores every sample of every series in group inside one transaction.
// Series positions continue from the groups already recorded so legend order survives a reload.
// Series are stored as samples only, so a series without frames is rejected.
func (rs *ReportStoreImpl) RecordGroup(reportID int64, group schema.SeriesGroup) error {
	if rs.disabled() {
		return nil
	}
	for _, s := range group.Series {
		if s.Len() == 0 {
			return fmt.Errorf("cannot record series %q of group %s: it has no frames", s.Name, group.Name)
		}
	}

	tx, err := rs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	quotedTableName := quoteTableName(seriesSamplesTable, rs.backend)

	var base int64
	posQuery := rs.bind(fmt.Sprintf(`SELECT COALESCE(MAX(series_pos) + 1, 0) FROM %s WHERE report_id = ?`, quotedTableName))
	if err := tx.QueryRow(posQuery, reportID).Scan(&base); err != nil {
		return fmt.Errorf("failed to read series positions for report %d: %w", reportID, err)
	}

	insert := rs.bind(fmt.Sprintf(`INSERT INTO %s (report_id, group_name, series_name, series_pos, frame_index, sample_value) VALUES (?, ?, ?, ?, ?, ?)`, quotedTableName))
	stmt, err := tx.Prepare(insert)
	if err != nil {
		return fmt.Errorf("failed to prepare sample insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for pos, s := range group.Series {
		for frame, v := range s.Values {
			if _, err := stmt.Exec(reportID, string(group.Name), s.Name, base+int64(pos), frame, v); err != nil {
				return fmt.Errorf("failed to insert sample %s[%d]: %w", s.Name, frame, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit samples for group %s: %w", group.Name, err)
	}
	return nil
}

// EndReport updates the report run with completion data.
func (rs *ReportStoreImpl) EndReport(reportID int64, endTime time.Time, totalFrames int) error {
	if rs.disabled() {
		return nil
	}

	quotedTableName := quoteTableName(reportRunsTable, rs.backend)
	row := rs.db.QueryRow(rs.bind(fmt.Sprintf(`SELECT start_time FROM %s WHERE report_id = ?`, quotedTableName)), reportID)
	startTime, err := rs.scanTime(row)
	if err != nil {
		return fmt.Errorf("failed to get start_time for report %d: %w", reportID, err)
	}

	durationMs := endTime.Sub(startTime).Milliseconds()
	update := rs.bind(fmt.Sprintf(`UPDATE %s SET end_time = ?, run_duration_ms = ?, total_frames = ? WHERE report_id = ?`, quotedTableName))
	if _, err := rs.db.Exec(update, formatTime(endTime, rs.backend), durationMs, totalFrames, reportID); err != nil {
		return fmt.Errorf("failed to update report run: %w", err)
	}
	return nil
}

// LoadReportInput rebuilds the pipeline payload of a recorded report.
func (rs *ReportStoreImpl) LoadReportInput(reportID int64) (schema.MotionInput, error) {
	if rs.disabled() {
		return schema.MotionInput{}, errors.New("report store is disabled")
	}

	input := schema.MotionInput{Series: make(map[string][]float64)}
	runsQuery := rs.bind(fmt.Sprintf(`SELECT subject FROM %s WHERE report_id = ?`, quoteTableName(reportRunsTable, rs.backend)))
	if err := rs.db.QueryRow(runsQuery, reportID).Scan(&input.Subject); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return schema.MotionInput{}, fmt.Errorf("report %d not found", reportID)
		}
		return schema.MotionInput{}, fmt.Errorf("failed to read report %d: %w", reportID, err)
	}

	samplesQuery := rs.bind(fmt.Sprintf(`SELECT series_name, sample_value FROM %s WHERE report_id = ? ORDER BY series_pos, frame_index`,
		quoteTableName(seriesSamplesTable, rs.backend)))
	rows, err := rs.db.Query(samplesQuery, reportID)
	if err != nil {
		return schema.MotionInput{}, fmt.Errorf("failed to query samples of report %d: %w", reportID, err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			name  string
			value float64
		)
		if err := rows.Scan(&name, &value); err != nil {
			return schema.MotionInput{}, fmt.Errorf("failed to scan sample: %w", err)
		}
		if _, seen := input.Series[name]; !seen {
			input.Order = append(input.Order, name)
		}
		input.Series[name] = append(input.Series[name], value)
	}
	if err := rows.Err(); err != nil {
		return schema.MotionInput{}, fmt.Errorf("error iterating samples: %w", err)
	}
	if len(input.Series) == 0 {
		return schema.MotionInput{}, fmt.Errorf("report %d has no recorded samples", reportID)
	}
	return input, nil
}

// GetAllReports retrieves all report runs from the store.
func (rs *ReportStoreImpl) GetAllReports() ([]schema.ReportRunRecord, error) {
	if rs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT report_id, subject, start_time, end_time, run_duration_ms, total_frames, config_params FROM %s ORDER BY report_id",
		quoteTableName(reportRunsTable, rs.backend))
	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query report runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ReportRunRecord
	for rows.Next() {
		var record schema.ReportRunRecord

		switch rs.backend {
		case schema.SQLiteBackend:
			var startTimeStr string
			var endTimeStr *string
			if err := rows.Scan(&record.ReportID, &record.Subject, &startTimeStr, &endTimeStr,
				&record.RunDurationMs, &record.TotalFrames, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan report run: %w", err)
			}
			startTime, err := time.Parse(time.RFC3339Nano, startTimeStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			record.StartTime = startTime
			if endTimeStr != nil {
				endTime, err := time.Parse(time.RFC3339Nano, *endTimeStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				record.EndTime = &endTime
			}
		default: // MySQL and PostgreSQL store as native datetime
			if err := rows.Scan(&record.ReportID, &record.Subject, &record.StartTime, &record.EndTime,
				&record.RunDurationMs, &record.TotalFrames, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan report run: %w", err)
			}
		}

		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report runs: %w", err)
	}
	return results, nil
}

// GetAllSamples retrieves every recorded sample from the store.
func (rs *ReportStoreImpl) GetAllSamples() ([]schema.SeriesSampleRecord, error) {
	if rs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT report_id, group_name, series_name, series_pos, frame_index, sample_value
		FROM %s ORDER BY report_id, series_pos, frame_index`, quoteTableName(seriesSamplesTable, rs.backend))
	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query series samples: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.SeriesSampleRecord
	for rows.Next() {
		var record schema.SeriesSampleRecord
		if err := rows.Scan(&record.ReportID, &record.GroupName, &record.SeriesName,
			&record.SeriesPos, &record.Frame, &record.Value); err != nil {
			return nil, fmt.Errorf("failed to scan series sample: %w", err)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating series samples: %w", err)
	}
	return results, nil
}

// GetStatus returns status information about the report store.
func (rs *ReportStoreImpl) GetStatus() (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:    string(rs.backend),
		Connected:  rs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if rs.disabled() {
		return status, nil
	}

	runsTable := quoteTableName(reportRunsTable, rs.backend)
	if err := rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runsTable)).Scan(&status.TotalReports); err != nil {
		return status, fmt.Errorf("failed to get total reports: %w", err)
	}

	if status.TotalReports > 0 {
		row := rs.db.QueryRow(fmt.Sprintf("SELECT report_id FROM %s ORDER BY report_id DESC LIMIT 1", runsTable))
		if err := row.Scan(&status.LastReportID); err != nil {
			return status, fmt.Errorf("failed to get last report id: %w", err)
		}

		lastRunTime, err := rs.scanTime(rs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY report_id DESC LIMIT 1", runsTable)))
		if err != nil {
			return status, fmt.Errorf("failed to get last run time: %w", err)
		}
		status.LastRunTime = lastRunTime

		oldestRunTime, err := rs.scanTime(rs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY report_id ASC LIMIT 1", runsTable)))
		if err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldestRunTime
	}

	for _, table := range []string{reportRunsTable, seriesSamplesTable} {
		var count int64
		if err := rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, rs.backend))).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalSamples = int(status.TableSizes[seriesSamplesTable])

	return status, nil
}

// Close closes the underlying connection.
func (rs *ReportStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// scanTime reads a single timestamp column, which SQLite keeps as RFC 3339 text.
func (rs *ReportStoreImpl) scanTime(row *sql.Row) (time.Time, error) {
	if rs.backend == schema.SQLiteBackend {
		var s string
		if err := row.Scan(&s); err != nil {
			return time.Time{}, err
		}
		return time.Parse(time.RFC3339Nano, s)
	}
	var t time.Time
	err := row.Scan(&t)
	return t, err
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.Format(time.RFC3339Nano)
	default:
		return t
	}
}
