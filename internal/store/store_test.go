package store

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/motionreport/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) (*ReportStoreImpl, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "motionreport.db")
	store, err := NewReportStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.(*ReportStoreImpl), dbPath
}

func translationGroup() schema.SeriesGroup {
	return schema.SeriesGroup{
		Name: schema.TranslationGroup,
		Series: []schema.Series{
			{Name: "motion_tx", Values: []float64{0.020, 0.075, 0.064}},
			{Name: "motion_ty", Values: []float64{-0.103, -0.084, -0.089}},
			{Name: "motion_tz", Values: []float64{0.026, 0.081, -0.007}},
		},
	}
}

func displacementGroup() schema.SeriesGroup {
	return schema.SeriesGroup{
		Name: schema.DisplacementGroup,
		Series: []schema.Series{
			{Name: "FD", Values: []float64{0.000, 0.097, 0.085}},
			{Name: "scrub", Values: []float64{0, 1, 0}},
		},
	}
}

// recordSample stores one full report and returns its ID.
func recordSample(t *testing.T, store *ReportStoreImpl, subject string) int64 {
	t.Helper()
	start := time.Now().Add(-time.Second)
	id, err := store.BeginReport(subject, start, map[string]any{"output": "html"})
	require.NoError(t, err)
	require.Positive(t, id)
	require.NoError(t, store.RecordGroup(id, translationGroup()))
	require.NoError(t, store.RecordGroup(id, displacementGroup()))
	require.NoError(t, store.EndReport(id, time.Now(), 3))
	return id
}

func TestReportStoreRoundTrip(t *testing.T) {
	store, _ := newSQLiteStore(t)
	id := recordSample(t, store, "sub-01")

	input, err := store.LoadReportInput(id)
	require.NoError(t, err)
	assert.Equal(t, "sub-01", input.Subject)
	assert.Equal(t, []string{"motion_tx", "motion_ty", "motion_tz", "FD", "scrub"}, input.Order)
	assert.Equal(t, []float64{-0.103, -0.084, -0.089}, input.Series["motion_ty"])
	assert.Equal(t, []float64{0, 1, 0}, input.Series["scrub"])
}

func TestReportStoreRejectsSeriesWithoutFrames(t *testing.T) {
	store, _ := newSQLiteStore(t)
	id, err := store.BeginReport("sub-01", time.Now(), nil)
	require.NoError(t, err)
	require.NoError(t, store.RecordGroup(id, translationGroup()))

	empty := schema.SeriesGroup{
		Name: schema.ExtraGroup,
		Series: []schema.Series{
			{Name: "a", Values: []float64{}},
			{Name: "b", Values: nil},
		},
	}
	err = store.RecordGroup(id, empty)
	assert.ErrorContains(t, err, `cannot record series "a" of group extra: it has no frames`)

	input, err := store.LoadReportInput(id)
	require.NoError(t, err)
	assert.Equal(t, []string{"motion_tx", "motion_ty", "motion_tz"}, input.Order)
}

func TestReportStoreLoadMissing(t *testing.T) {
	store, _ := newSQLiteStore(t)
	_, err := store.LoadReportInput(99)
	assert.ErrorContains(t, err, "report 99 not found")
}

func TestReportStoreLoadWithoutSamples(t *testing.T) {
	store, _ := newSQLiteStore(t)
	id, err := store.BeginReport("sub-02", time.Now(), nil)
	require.NoError(t, err)

	_, err = store.LoadReportInput(id)
	assert.ErrorContains(t, err, "no recorded samples")
}

func TestReportStoreGetAll(t *testing.T) {
	store, _ := newSQLiteStore(t)
	first := recordSample(t, store, "sub-01")
	second := recordSample(t, store, "sub-02")

	runs, err := store.GetAllReports()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, first, runs[0].ReportID)
	assert.Equal(t, second, runs[1].ReportID)
	assert.Equal(t, "sub-02", runs[1].Subject)
	assert.Equal(t, int32(3), runs[0].TotalFrames)
	require.NotNil(t, runs[0].EndTime)
	require.NotNil(t, runs[0].RunDurationMs)
	assert.GreaterOrEqual(t, *runs[0].RunDurationMs, int32(0))
	require.NotNil(t, runs[0].ConfigParams)
	assert.JSONEq(t, `{"output":"html"}`, *runs[0].ConfigParams)

	samples, err := store.GetAllSamples()
	require.NoError(t, err)
	assert.Len(t, samples, 2*15)
	assert.Equal(t, schema.SeriesSampleRecord{
		ReportID: first, GroupName: "translation", SeriesName: "motion_tx", SeriesPos: 0, Frame: 0, Value: 0.020,
	}, samples[0])
}

func TestReportStoreStatus(t *testing.T) {
	store, _ := newSQLiteStore(t)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, 0, status.TotalReports)

	id := recordSample(t, store, "sub-01")
	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.Equal(t, 1, status.TotalReports)
	assert.Equal(t, id, status.LastReportID)
	assert.Equal(t, 15, status.TotalSamples)
	assert.Equal(t, int64(1), status.TableSizes[reportRunsTable])
	assert.False(t, status.LastRunTime.IsZero())

	var buf bytes.Buffer
	PrintStoreStatus(&buf, status)
	assert.Contains(t, buf.String(), "Total Reports: 1")
	assert.Contains(t, buf.String(), "motion_series_samples: 15 rows")
}

func TestNoneBackendStore(t *testing.T) {
	store, err := NewReportStore(schema.NoneBackend, "")
	require.NoError(t, err)

	id, err := store.BeginReport("sub-01", time.Now(), nil)
	require.NoError(t, err)
	assert.Zero(t, id)
	assert.NoError(t, store.RecordGroup(id, translationGroup()))
	assert.NoError(t, store.EndReport(id, time.Now(), 3))

	_, err = store.LoadReportInput(1)
	assert.Error(t, err)

	runs, err := store.GetAllReports()
	assert.NoError(t, err)
	assert.Nil(t, runs)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)

	var buf bytes.Buffer
	PrintStoreStatus(&buf, status)
	assert.NotContains(t, buf.String(), "Total Reports")
	assert.NoError(t, store.Close())
}

func TestNewReportStoreUnsupportedBackend(t *testing.T) {
	_, err := NewReportStore(schema.DatabaseBackend("redis"), "")
	assert.Error(t, err)
}

func TestClearStore(t *testing.T) {
	_, dbPath := newSQLiteStore(t)
	_, err := os.Stat(dbPath)
	require.NoError(t, err)

	require.NoError(t, ClearStore(schema.SQLiteBackend, dbPath, ""))
	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, ClearStore(schema.SQLiteBackend, dbPath, ""), "clearing twice is fine")
	assert.Error(t, ClearStore(schema.SQLiteBackend, "", ""))
	assert.NoError(t, ClearStore(schema.NoneBackend, "", ""))
	assert.Error(t, ClearStore(schema.DatabaseBackend("redis"), "", ""))
}

func TestBindPlaceholders(t *testing.T) {
	pg := &ReportStoreImpl{backend: schema.PostgreSQLBackend}
	assert.Equal(t, "UPDATE t SET a = $1, b = $2 WHERE c = $3", pg.bind("UPDATE t SET a = ?, b = ? WHERE c = ?"))

	lite := &ReportStoreImpl{backend: schema.SQLiteBackend}
	assert.Equal(t, "SELECT ? FROM t", lite.bind("SELECT ? FROM t"))
}

func TestMySQLDSN(t *testing.T) {
	dsn, err := mysqlDSN("user:pass@tcp(localhost:3306)/motion")
	require.NoError(t, err)
	assert.Contains(t, dsn, "parseTime=true")

	_, err = mysqlDSN("not a dsn")
	assert.Error(t, err)
}

// TestValidateTableName tests the validateTableName function with various inputs.
func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name      string
		tableName string
		wantErr   bool
	}{
		{"valid simple name", "motion_report_runs", false},
		{"valid name starting with underscore", "_samples", false},
		{"valid mixed case", "Samples_123", false},
		{"empty name", "", true},
		{"starts with number", "123_table", true},
		{"contains dash", "motion-runs", true},
		{"sql injection attempt", "runs'; DROP TABLE users; --", true},
		{"contains dot", "motion.runs", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTableName(tt.tableName)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestQuoteTableName tests the quoteTableName function for all backends.
func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, `"runs"`, quoteTableName("runs", schema.SQLiteBackend))
	assert.Equal(t, `"runs"`, quoteTableName("runs", schema.PostgreSQLBackend))
	assert.Equal(t, "`runs`", quoteTableName("runs", schema.MySQLBackend))
}
