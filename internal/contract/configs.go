package contract

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/huangsam/motionreport/schema"
)

// Default values for configuration.
const (
	DefaultPrecision = 3
	MaxPrecision     = 6
)

// Config holds the runtime configuration for a report.
// This struct remains the "final, validated" config.
type Config struct {
	InputPath   string
	InputFormat schema.InputFormat
	Subject     string // overrides the subject read from the input when set
	ReportID    int64  // > 0 re-renders a stored report instead of reading InputPath

	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Width      int // Terminal width override (0 = auto-detect)

	SelectionEnabled bool
	FlagSeries       []string
	Group            schema.GroupKey
	Index            int

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	UseColors bool // Enable colored scrub flags in table output
}

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	InputPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	InputFormat    string `mapstructure:"input-format"`
	Subject        string `mapstructure:"subject"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Precision      int    `mapstructure:"precision"`
	Width          int    `mapstructure:"width"`
	NoSelection    bool   `mapstructure:"no-selection"`
	FlagSeries     string `mapstructure:"flag-series"`
	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`
	Color          string `mapstructure:"color"`
	ReportID       int64  `mapstructure:"report-id"`

	// --- Fields from selectCmd.Flags() ---
	Group string `mapstructure:"group"`
	Index int    `mapstructure:"index"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.FlagSeries = slices.Clone(c.FlagSeries)
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processSource(cfg, input); err != nil {
		return err
	}
	return nil
}

// ProcessAndValidateServer validates the inputs of a long-running server.
// The source is optional since every request names its own.
func ProcessAndValidateServer(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if strings.TrimSpace(input.InputPathStr) == "" && input.ReportID == 0 {
		return processInputFormat(cfg, input)
	}
	return processSource(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates the store backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	if cfg.StoreBackend == "" {
		cfg.StoreBackend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	return ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect)
}

// validateSimpleInputs processes and validates all non-source fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Subject = strings.TrimSpace(input.Subject)
	cfg.Width = input.Width
	cfg.SelectionEnabled = !input.NoSelection
	cfg.Index = input.Index
	cfg.Group = schema.GroupKey(strings.TrimSpace(input.Group))

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Precision Validation ---
	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	// --- 2. Output Validation ---
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, js, html, png, parquet", input.Output)
	}
	if (cfg.Output == schema.PNGOut || cfg.Output == schema.ParquetOut) && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for %s output", cfg.Output)
	}

	// --- 3. Flag Series Processing ---
	cfg.FlagSeries = slices.Clone(schema.DefaultFlagSeries)
	if input.FlagSeries != "" {
		cfg.FlagSeries = nil
		for p := range strings.SplitSeq(input.FlagSeries, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				cfg.FlagSeries = append(cfg.FlagSeries, trimmed)
			}
		}
	}

	return nil
}

// processSource resolves where the motion series come from: an input file or a stored report.
func processSource(cfg *Config, input *ConfigRawInput) error {
	if input.ReportID < 0 {
		return fmt.Errorf("report-id must be positive (received %d)", input.ReportID)
	}
	cfg.ReportID = input.ReportID

	if err := processInputFormat(cfg, input); err != nil {
		return err
	}

	path := strings.TrimSpace(input.InputPathStr)
	if cfg.ReportID > 0 {
		if path != "" {
			return fmt.Errorf("an input file and --report-id cannot be used together")
		}
		if cfg.StoreBackend == schema.NoneBackend {
			return fmt.Errorf("--report-id needs a store backend other than none")
		}
		return nil
	}
	if path == "" {
		return fmt.Errorf("an input file is required (or --report-id to re-render a stored report)")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	cfg.InputPath = abs
	return nil
}

// processInputFormat resolves the input format, defaulting to detection by file extension.
func processInputFormat(cfg *Config, input *ConfigRawInput) error {
	cfg.InputFormat = schema.InputFormat(strings.ToLower(input.InputFormat))
	if cfg.InputFormat == "" {
		cfg.InputFormat = schema.AutoInput
	}
	if _, ok := schema.ValidInputFormats[cfg.InputFormat]; !ok {
		return fmt.Errorf("invalid input format '%s'. must be auto, json, yaml, csv, js", input.InputFormat)
	}
	return nil
}

// ProcessProfilingConfig enables profiling when a prefix is given.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	profilePrefix = strings.TrimSpace(profilePrefix)
	if profilePrefix == "" {
		return nil
	}
	if strings.ContainsAny(profilePrefix, "\x00") {
		return fmt.Errorf("invalid profile prefix %q", profilePrefix)
	}
	profile.Enabled = true
	profile.Prefix = profilePrefix
	return nil
}

// RevalidateSelect checks the group used by a selection request.
// The index is left to the chart, which knows its frame range.
func RevalidateSelect(group string) (schema.GroupKey, error) {
	group = strings.TrimSpace(group)
	if group == "" {
		return "", fmt.Errorf("--group is required")
	}
	return schema.GroupKey(group), nil
}
