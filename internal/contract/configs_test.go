package contract

import (
	"path/filepath"
	"testing"

	"github.com/huangsam/motionreport/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		InputPathStr: "sub-01_motion.csv",
		Output:       "text",
		Precision:    DefaultPrecision,
		Color:        "yes",
		StoreBackend: "none",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
	}{
		{
			name:   "valid minimal config",
			mutate: func(*ConfigRawInput) {},
		},
		{
			name:        "invalid output",
			mutate:      func(in *ConfigRawInput) { in.Output = "svg" },
			expectError: true,
		},
		{
			name:        "png without output file",
			mutate:      func(in *ConfigRawInput) { in.Output = "png" },
			expectError: true,
		},
		{
			name: "png with output file",
			mutate: func(in *ConfigRawInput) {
				in.Output = "png"
				in.OutputFile = "motion.png"
			},
		},
		{
			name:        "precision too high",
			mutate:      func(in *ConfigRawInput) { in.Precision = 9 },
			expectError: true,
		},
		{
			name:        "precision zero",
			mutate:      func(in *ConfigRawInput) { in.Precision = 0 },
			expectError: true,
		},
		{
			name:        "invalid color",
			mutate:      func(in *ConfigRawInput) { in.Color = "maybe" },
			expectError: true,
		},
		{
			name:        "invalid input format",
			mutate:      func(in *ConfigRawInput) { in.InputFormat = "xml" },
			expectError: true,
		},
		{
			name:        "missing input",
			mutate:      func(in *ConfigRawInput) { in.InputPathStr = "" },
			expectError: true,
		},
		{
			name: "report id with store",
			mutate: func(in *ConfigRawInput) {
				in.InputPathStr = ""
				in.ReportID = 3
				in.StoreBackend = "sqlite"
			},
		},
		{
			name: "report id without store",
			mutate: func(in *ConfigRawInput) {
				in.InputPathStr = ""
				in.ReportID = 3
			},
			expectError: true,
		},
		{
			name: "report id and input file",
			mutate: func(in *ConfigRawInput) {
				in.ReportID = 3
				in.StoreBackend = "sqlite"
			},
			expectError: true,
		},
		{
			name:        "invalid backend",
			mutate:      func(in *ConfigRawInput) { in.StoreBackend = "redis" },
			expectError: true,
		},
		{
			name:        "mysql without connection",
			mutate:      func(in *ConfigRawInput) { in.StoreBackend = "mysql" },
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestProcessAndValidateFields(t *testing.T) {
	input := validInput()
	input.Output = "JSON"
	input.NoSelection = true
	input.FlagSeries = "scrub, outlier ,"
	input.Group = " fd "
	input.Index = 4

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, schema.JSONOut, cfg.Output)
	assert.False(t, cfg.SelectionEnabled)
	assert.Equal(t, []string{"scrub", "outlier"}, cfg.FlagSeries)
	assert.Equal(t, schema.DisplacementGroup, cfg.Group)
	assert.Equal(t, 4, cfg.Index)
	assert.Equal(t, schema.AutoInput, cfg.InputFormat)
	assert.True(t, filepath.IsAbs(cfg.InputPath))
	assert.Empty(t, cfg.Subject, "subject is left to the input document")
	assert.True(t, cfg.UseColors)
}

func TestProcessAndValidateDefaultsFlagSeries(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))
	assert.Equal(t, schema.DefaultFlagSeries, cfg.FlagSeries)
	assert.True(t, cfg.SelectionEnabled)
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name        string
		backend     schema.DatabaseBackend
		connStr     string
		expectError bool
	}{
		{"sqlite empty", schema.SQLiteBackend, "", false},
		{"none empty", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/motion", false},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass@localhost/motion", true},
		{"mysql empty", schema.MySQLBackend, "", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost dbname=motion", false},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRevalidateSelect(t *testing.T) {
	key, err := RevalidateSelect(" translation ")
	require.NoError(t, err)
	assert.Equal(t, schema.TranslationGroup, key)

	_, err = RevalidateSelect("")
	assert.ErrorContains(t, err, "--group is required")
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{FlagSeries: []string{"scrub"}, Precision: 3}
	clone := cfg.Clone()
	clone.FlagSeries[0] = "other"
	clone.Precision = 1
	assert.Equal(t, "scrub", cfg.FlagSeries[0])
	assert.Equal(t, 3, cfg.Precision)
}

func TestProcessAndValidateServer(t *testing.T) {
	t.Run("source is optional", func(t *testing.T) {
		input := validInput()
		input.InputPathStr = ""

		cfg := &Config{}
		require.NoError(t, ProcessAndValidateServer(cfg, input))
		assert.Empty(t, cfg.InputPath)
		assert.Equal(t, schema.AutoInput, cfg.InputFormat)
	})

	t.Run("default source is resolved", func(t *testing.T) {
		cfg := &Config{}
		require.NoError(t, ProcessAndValidateServer(cfg, validInput()))
		assert.True(t, filepath.IsAbs(cfg.InputPath))
	})

	t.Run("invalid input format", func(t *testing.T) {
		input := validInput()
		input.InputPathStr = ""
		input.InputFormat = "xml"
		assert.Error(t, ProcessAndValidateServer(&Config{}, input))
	})

	t.Run("invalid output", func(t *testing.T) {
		input := validInput()
		input.Output = "svg"
		assert.Error(t, ProcessAndValidateServer(&Config{}, input))
	})
}

func TestProcessProfilingConfig(t *testing.T) {
	profile := &ProfileConfig{}
	require.NoError(t, ProcessProfilingConfig(profile, ""))
	assert.False(t, profile.Enabled)

	require.NoError(t, ProcessProfilingConfig(profile, " motion "))
	assert.True(t, profile.Enabled)
	assert.Equal(t, "motion", profile.Prefix)

	assert.Error(t, ProcessProfilingConfig(&ProfileConfig{}, "bad\x00prefix"))
}
