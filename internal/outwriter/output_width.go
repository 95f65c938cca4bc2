package outwriter

import (
	"os"

	"github.com/huangsam/motionreport/internal/contract"
	"golang.org/x/term"
)

// GetTerminalWidth returns the width override from config, the detected terminal width,
// or a conservative default when neither is available.
func GetTerminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		return 80 // Conservative default for narrow terminals and CI
	}
	return detectedWidth
}

// GetMaxTableSeriesColumns calculates how many series columns fit next to the
// frame and status columns of a table.
func GetMaxTableSeriesColumns(cfg *contract.Config) int {
	// Reserve space for Frame + Status columns with borders/padding
	baseWidth := 24

	// Sign, integer digits, point, decimals plus separators
	columnWidth := max(cfg.Precision+6, 10) + 3

	available := GetTerminalWidth(cfg) - baseWidth
	columns := available / columnWidth
	if columns < 1 {
		return 1
	}
	return columns
}

// truncateName shortens a series name to maxWidth runes.
func truncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if maxWidth <= 3 || len(runes) <= maxWidth {
		return name
	}
	return string(runes[:maxWidth-3]) + "..."
}
