package cmd

import (
	"github.com/huangsam/motionreport/core"
	"github.com/huangsam/motionreport/internal/contract"
	"github.com/spf13/cobra"
)

// summaryCmd prints descriptive statistics of every series.
var summaryCmd = &cobra.Command{
	Use:   "summary [input-file]",
	Short: "Summarize every motion series and count scrubbed frames.",
	Long: `Compute mean, median, standard deviation, minimum and maximum of every
series, along with the number and share of frames marked by the flag series.

Examples:
  motionreport summary sub-01_motion.csv
  motionreport summary sub-01_motion.json --output csv --output-file summary.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSummary(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot summarize motion report", err)
		}
	},
}
