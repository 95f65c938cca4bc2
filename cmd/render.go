package cmd

import (
	"github.com/huangsam/motionreport/core"
	"github.com/huangsam/motionreport/internal/contract"
	"github.com/spf13/cobra"
)

// renderCmd builds the motion charts of one scan.
var renderCmd = &cobra.Command{
	Use:   "render [input-file]",
	Short: "Render the translation, rotation and displacement charts of a scan.",
	Long: `Read per-frame motion estimates and bind them into linked charts.

Series are grouped by name:
- translation: motion_tx, motion_ty, motion_tz
- rotation:    motion_rx, motion_ry, motion_rz
- fd:          FD and the scrub flags (0 = kept, 1 = scrubbed)
Any other series is plotted on an extra chart.

Inputs may be JSON, YAML, CSV (one column per series) or an existing chart
data script. When a store backend is configured, every render is recorded
and can be rendered again with --report-id.

Examples:
  # Print the charts as tables
  motionreport render sub-01_motion.csv

  # Write the chart data script consumed by the report page
  motionreport render sub-01_motion.csv --output js --output-file dataMotion.js

  # Write a standalone page
  motionreport render sub-01_motion.json --output html --output-file motion.html

  # Plot to PNG
  motionreport render sub-01_motion.yaml --output png --output-file motion.png

  # Re-render a stored report
  motionreport render --report-id 3 --store-backend sqlite --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRender(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot render motion report", err)
		}
	},
}
