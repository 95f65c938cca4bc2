package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/motionreport/internal/contract"
	"github.com/huangsam/motionreport/internal/store"
	"github.com/huangsam/motionreport/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeBackendConfig reads and validates the store backend settings.
func storeBackendConfig() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	// Handle empty backend as NoneBackend
	backend := schema.NoneBackend
	if backendStr := viper.GetString("store-backend"); backendStr != "" {
		backend = schema.DatabaseBackend(backendStr)
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", "", fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("store-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// storeSetup loads minimal configuration needed for store operations.
// This is used by commands that need store access without full shared setup.
func storeSetup() error {
	backend, connStr, err := storeBackendConfig()
	if err != nil {
		return err
	}

	if err := store.InitStore(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// storeSetupWrapper wraps storeSetup to provide PreRunE for store commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// storeMigrateSetup loads minimal configuration needed for migrate operations.
// It does NOT initialize the store or create tables, so migrations can run on a fresh database.
func storeMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := storeBackendConfig()
	if err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetStoreDBFilePath()
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	return nil
}

// storeDBFilePath returns the SQLite file used by the configured store.
func storeDBFilePath() string {
	if cfg.StoreBackend == schema.SQLiteBackend && cfg.StoreDBConnect != "" {
		return cfg.StoreDBConnect
	}
	return contract.GetStoreDBFilePath()
}

// storeCmd focused on report store management.
//
// Note: Store subcommands use minimal initialization (storeSetup) instead of
// the full sharedSetup used by report commands. This avoids input file validation
// for simple store operations.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage stored motion reports and exports",
	Long: `Manage motion reports recorded by the render command.

When a store backend is configured, every render records:
- Run metadata (subject, timestamps, configuration, frame count)
- Every sample of every series, keyed by group, series and frame

Stored reports can be rendered again with --report-id and exported for analytics.

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, the default)

Subcommands:
  status  - Show store statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all stored reports
  migrate - Run database schema migrations

Examples:
  # Check store status
  motionreport store status --store-backend sqlite

  # Export for analysis in pandas/DuckDB
  motionreport store export --store-backend sqlite --output-file motion`,
}

// storeClearCmd clears the stored reports.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored motion reports",
	Long: `Delete all stored report runs and series samples.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the report tables

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  motionreport store export --store-backend sqlite --output-file backup
  motionreport store clear --store-backend sqlite`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store.CloseStore() // release the SQLite file before removing it
		if err := store.ClearStore(cfg.StoreBackend, storeDBFilePath(), cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear stored reports", err)
		}
		fmt.Println("Stored reports cleared successfully.")
	},
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store statistics and connection details",
	Long: `Show detailed information about the report store.

Displays:
- Backend type and connection status
- Total number of stored reports and samples
- Last and oldest report timestamps
- Table row counts

Examples:
  motionreport store status --store-backend sqlite`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		reports := storeManager.GetReportStore()
		if reports == nil {
			contract.LogFatal("Failed to get store status", fmt.Errorf("store is not initialized"))
		}
		status, err := reports.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		store.PrintStoreStatus(os.Stdout, status)
	},
}

// storeExportCmd exports stored reports to Parquet files.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored reports to Parquet for BI tools and analytics",
	Long: `Export all stored report data to Parquet format.

Exports two datasets next to --output-file:
- <output-file>.report_runs.parquet    - metadata about each render
- <output-file>.series_samples.parquet - every sample, one row per frame and series

Requires: --output-file parameter

Examples:
  motionreport store export --store-backend sqlite --output-file motion
  duckdb -c "SELECT series_name, avg(value) FROM read_parquet('motion.series_samples.parquet') GROUP BY 1"`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := store.ExecuteExport(storeManager, cfg.OutputFile, os.Stdout); err != nil {
			contract.LogFatal("Failed to export stored reports", err)
		}
	},
}

// storeMigrateCmd runs database migrations for the report store.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the report store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  motionreport store migrate --store-backend sqlite

  # Migrate to specific version
  motionreport store migrate --store-backend sqlite --target-version 1

  # Rollback to initial state
  motionreport store migrate --store-backend sqlite --target-version 0`,
	PreRunE: storeMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		version, err := store.MigrateStore(cfg.StoreBackend, cfg.StoreDBConnect, viper.GetInt("target-version"))
		if err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		fmt.Printf("Store schema is at version %d.\n", version)
	},
}
