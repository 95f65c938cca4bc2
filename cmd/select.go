package cmd

import (
	"github.com/huangsam/motionreport/core"
	"github.com/huangsam/motionreport/internal/contract"
	"github.com/spf13/cobra"
)

// selectCmd selects a time point the way a click on a chart does.
var selectCmd = &cobra.Command{
	Use:   "select [input-file]",
	Short: "Select a frame on a chart and show every series at that time point.",
	Long: `Forward a selected frame index to the report's time cursor, exactly as
clicking a point on a chart does, and print what every chart shows there.

The index must lie within the chart's frames, and selection must not be
disabled with --no-selection.

Examples:
  # Inspect the frame behind a displacement spike
  motionreport select sub-01_motion.csv --group fd --index 9

  # As JSON, from a stored report
  motionreport select --report-id 3 --store-backend sqlite --group translation --index 0 --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSelect(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot select time point", err)
		}
	},
}
