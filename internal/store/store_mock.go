package store

import (
	"time"

	"github.com/huangsam/motionreport/internal/contract"
	"github.com/huangsam/motionreport/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetReportStore implements the StoreManager interface.
func (m *MockStoreManager) GetReportStore() contract.ReportStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.ReportStore)
	return store
}

// MockReportStore is a mock implementation of ReportStore for testing.
type MockReportStore struct {
	mock.Mock
}

var _ contract.ReportStore = &MockReportStore{} // Compile-time check

// BeginReport implements the ReportStore interface.
func (m *MockReportStore) BeginReport(subject string, startTime time.Time, configParams map[string]any) (int64, error) {
	args := m.Called(subject, startTime, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// RecordGroup implements the ReportStore interface.
func (m *MockReportStore) RecordGroup(reportID int64, group schema.SeriesGroup) error {
	args := m.Called(reportID, group)
	return args.Error(0)
}

// EndReport implements the ReportStore interface.
func (m *MockReportStore) EndReport(reportID int64, endTime time.Time, totalFrames int) error {
	args := m.Called(reportID, endTime, totalFrames)
	return args.Error(0)
}

// LoadReportInput implements the ReportStore interface.
func (m *MockReportStore) LoadReportInput(reportID int64) (schema.MotionInput, error) {
	args := m.Called(reportID)
	return args.Get(0).(schema.MotionInput), args.Error(1)
}

// GetAllReports implements the ReportStore interface.
func (m *MockReportStore) GetAllReports() ([]schema.ReportRunRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.ReportRunRecord)
	return records, args.Error(1)
}

// GetAllSamples implements the ReportStore interface.
func (m *MockReportStore) GetAllSamples() ([]schema.SeriesSampleRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.SeriesSampleRecord)
	return records, args.Error(1)
}

// GetStatus implements the ReportStore interface.
func (m *MockReportStore) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Close implements the ReportStore interface.
func (m *MockReportStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
