// Package cmd defines the command-line interface for motionreport.
package cmd

import (
	"github.com/huangsam/motionreport/internal/contract"
	"github.com/huangsam/motionreport/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeExportCmd)
	storeCmd.AddCommand(storeMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("input-format", string(schema.AutoInput), "Input format: auto or json or yaml or csv or js")
	rootCmd.PersistentFlags().String("subject", "", "Subject label overriding the one read from the input")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or js or html or png or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for sample values")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().Bool("no-selection", false, "Render charts without time-point selection")
	rootCmd.PersistentFlags().String("flag-series", "", "Comma-separated series restricted to 0/1 values (default: scrub)")
	rootCmd.PersistentFlags().Int64("report-id", 0, "Use a stored report instead of an input file")
	rootCmd.PersistentFlags().String("store-backend", "", "Report store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for the report store (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored scrub labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of selectCmd to Viper
	selectCmd.Flags().String("group", "", "Chart to select on: translation or rotation or fd or extra")
	selectCmd.Flags().Int("index", 0, "Zero-based frame index to select")
	if err := viper.BindPFlags(selectCmd.Flags()); err != nil {
		contract.LogFatal("Error binding select flags", err)
	}

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}
