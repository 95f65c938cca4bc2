package schema

// Custom string types for type safety.
type (
	// GroupKey identifies a chart group in the report.
	GroupKey string

	// OutputMode represents the format of the output.
	OutputMode string

	// InputFormat represents the format of the motion input file.
	InputFormat string

	// DatabaseBackend represents the database backend for the report store.
	DatabaseBackend string
)

// Standard chart groups of the motion report.
const (
	TranslationGroup  GroupKey = "translation"
	RotationGroup     GroupKey = "rotation"
	DisplacementGroup GroupKey = "fd"
	ExtraGroup        GroupKey = "extra" // series that belong to no standard group
)

// Series names produced by the preprocessing pipeline.
const (
	MotionTX = "motion_tx"
	MotionTY = "motion_ty"
	MotionTZ = "motion_tz"
	MotionRX = "motion_rx"
	MotionRY = "motion_ry"
	MotionRZ = "motion_rz"
	FD       = "FD"
	Scrub    = "scrub"
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	JSOut      OutputMode = "js"
	HTMLOut    OutputMode = "html"
	PNGOut     OutputMode = "png"
	ParquetOut OutputMode = "parquet"
)

// All input formats supported.
const (
	AutoInput  InputFormat = "auto" // default, picked from the file extension
	JSONInput  InputFormat = "json"
	YAMLInput  InputFormat = "yaml"
	CSVInput   InputFormat = "csv"
	ChartInput InputFormat = "js"
)

// All store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default
)

// StandardGroups lists the chart groups in report order, with their series in legend order.
var StandardGroups = []struct {
	Key    GroupKey
	Var    string // variable name of the chart config in the report page
	Series []string
}{
	{TranslationGroup, "tsl", []string{MotionTX, MotionTY, MotionTZ}},
	{RotationGroup, "rot", []string{MotionRX, MotionRY, MotionRZ}},
	{DisplacementGroup, "fd", []string{FD, Scrub}},
}

// DefaultFlagSeries are the series restricted to 0/1 values.
var DefaultFlagSeries = []string{Scrub}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	CSVOut:     {},
	JSONOut:    {},
	JSOut:      {},
	HTMLOut:    {},
	PNGOut:     {},
	ParquetOut: {},
}

// ValidInputFormats lists all valid input formats.
var ValidInputFormats = map[InputFormat]struct{}{
	AutoInput:  {},
	JSONInput:  {},
	YAMLInput:  {},
	CSVInput:   {},
	ChartInput: {},
}

// ValidDatabaseBackends lists all valid store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ChartVar returns the report-page variable name for a group.
func ChartVar(key GroupKey) string {
	for _, g := range StandardGroups {
		if g.Key == key {
			return g.Var
		}
	}
	return string(key)
}
