// Package main provides a performance benchmarking tool for the motionreport CLI.
// It generates synthetic motion files of increasing length, runs each command
// several times with and without a report store, and writes the timings to CSV.
//
// Prerequisites:
// - motionreport binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where the synthetic motion files are written
package main

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-store average, first store run and average of later store runs).
type BenchmarkResult struct {
	Frames      int
	Command     string
	NoStoreTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	NoStoreRuns int
	StoreRuns   int
	FrameCounts []int
	Commands    map[string][]string
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:     os.Args[1],
		Timeout:     2 * time.Minute,
		NoStoreRuns: 3,
		StoreRuns:   4,
		FrameCounts: []int{150, 1500, 15000},
		Commands: map[string][]string{
			"render":  {"--output", "json"},
			"select":  {"--group", "fd", "--index", "100"},
			"summary": {"--output", "csv"},
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the motionreport binary and the work directory exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("motionreport"); err != nil {
		return fmt.Errorf("motionreport binary not found in PATH")
	}
	return os.MkdirAll(config.WorkDir, 0o755)
}

// writeMotionFile writes a synthetic motion CSV with the given number of frames
func writeMotionFile(path string, frames int) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	header := []string{"frame", "motion_tx", "motion_ty", "motion_tz", "motion_rx", "motion_ry", "motion_rz", "FD", "scrub"}
	if err := writer.Write(header); err != nil {
		return err
	}
	rng := rand.New(rand.NewPCG(uint64(frames), 42))
	row := make([]string, len(header))
	for frame := range frames {
		row[0] = strconv.Itoa(frame)
		for i := 1; i <= 6; i++ {
			drift := 0.3 * math.Sin(float64(frame)/50+float64(i))
			row[i] = strconv.FormatFloat(drift+rng.NormFloat64()*0.05, 'f', 3, 64)
		}
		fd := math.Abs(rng.NormFloat64() * 0.2)
		row[7] = strconv.FormatFloat(fd, 'f', 3, 64)
		row[8] = "0"
		if fd > 0.5 {
			row[8] = "1"
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// runBenchmarks executes all benchmark commands across the configured frame counts
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d inputs, %v timeout, no-store: %d runs, store: %d runs\n",
		len(config.FrameCounts), config.Timeout, config.NoStoreRuns, config.StoreRuns)

	for _, frames := range config.FrameCounts {
		inputPath := filepath.Join(config.WorkDir, fmt.Sprintf("bench-%d_motion.csv", frames))
		if err := writeMotionFile(inputPath, frames); err != nil {
			fmt.Printf("Skipping %d frames: %v\n", frames, err)
			continue
		}
		fmt.Printf("Benchmarking %d frames\n", frames)

		for _, command := range []string{"render", "select", "summary"} {
			results = append(results, runBenchmarkSuite(config, frames, command, inputPath))
		}
	}

	return results
}

// runBenchmarkSuite runs both no-store and store benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, frames int, command, inputPath string) BenchmarkResult {
	fmt.Printf("Running %s on %d frames\n", command, frames)
	storePath := filepath.Join(config.WorkDir, "bench.db")

	// Helper to run a benchmark phase
	runPhase := func(backend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		args := append([]string{command, inputPath, "--store-backend", backend}, config.Commands[command]...)
		if backend == "sqlite" {
			args = append(args, "--store-db-connect", storePath)
		}
		cold, times := runBenchmark(config, command, args, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	_, noStoreAvg := runPhase("none", config.NoStoreRuns, "No-store")
	coldTime, warmAvg := runPhase("sqlite", config.StoreRuns, "Store")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-store average: %s, Cold time: %s, Warm average: %s\n", noStoreAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Frames:      frames,
		Command:     command,
		NoStoreTime: noStoreAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a motionreport command multiple times and returns the first and later run times
func runBenchmark(config BenchmarkConfig, command string, args []string, numRuns int) (coldTime float64, warmTimes []float64) {
	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("motionreport", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output, command) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte, command string) bool {
	outputStr := string(output)
	switch command {
	case "render":
		return strings.Contains(outputStr, `"charts"`)
	case "select":
		return strings.Contains(outputStr, "Selection completed in")
	default:
		return strings.HasPrefix(outputStr, "subject,group,series")
	}
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/motionreport_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"frames", "cmd", "no_store_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		record := []string{strconv.Itoa(result.Frames), result.Command, result.NoStoreTime, result.ColdTime, result.WarmTime}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range []string{"render", "select", "summary"} {
		fmt.Printf("%s:\n", command)
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %6d frames: No-store: %s, Cold: %s, Warm: %s\n", result.Frames, result.NoStoreTime, result.ColdTime, result.WarmTime)
			}
		}
	}
	fmt.Printf("Benchmark script completed successfully\n")
}
