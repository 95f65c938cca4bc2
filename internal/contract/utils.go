package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Frame label constants.
const (
	ScrubbedValue = "scrubbed" // frame flagged for exclusion
	KeptValue     = "kept"     // frame kept for analysis
)

// Color variables for console output.
var (
	ScrubbedColor = color.New(color.FgRed, color.Bold)  // ScrubbedColor marks frames excluded from analysis.
	SelectedColor = color.New(color.FgCyan, color.Bold) // SelectedColor marks the current time point.
)

// GetPlainFrameLabel returns a plain text label for a frame's scrub flag.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainFrameLabel(flag float64) string {
	if flag == 1 {
		return ScrubbedValue
	}
	return KeptValue
}

// GetColorFrameLabel returns a colored label for console output (table).
func GetColorFrameLabel(flag float64) string {
	text := GetPlainFrameLabel(flag)
	if text == ScrubbedValue {
		return ScrubbedColor.Sprint(text)
	}
	return text
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetStoreDBFilePath returns the path to the SQLite DB file for report storage.
func GetStoreDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".motionreport.db"
	}
	return filepath.Join(homeDir, ".motionreport.db")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
