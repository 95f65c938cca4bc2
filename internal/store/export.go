package store

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/motionreport/internal/contract"
	"github.com/huangsam/motionreport/internal/parquet"
)

// ExecuteExport writes every recorded report run and sample to Parquet files
// named after outputFile. Progress goes to w.
func ExecuteExport(mgr contract.StoreManager, outputFile string, w io.Writer) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := mgr.GetReportStore()
	if store == nil {
		return errors.New("report store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}
	if status.TotalReports == 0 {
		return errors.New("no report data found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total reports: %d\n", status.TotalReports)
	_, _ = fmt.Fprintf(w, "Total samples: %d\n", status.TotalSamples)

	runs, err := store.GetAllReports()
	if err != nil {
		return fmt.Errorf("failed to retrieve report runs: %w", err)
	}
	samples, err := store.GetAllSamples()
	if err != nil {
		return fmt.Errorf("failed to retrieve series samples: %w", err)
	}

	runsFile := outputFile + ".report_runs.parquet"
	parquetRuns := parquet.ConvertReportRunRecords(runs)
	if err := parquet.WriteReportRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write report runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d report runs to: %s\n", len(parquetRuns), runsFile)

	samplesFile := outputFile + ".series_samples.parquet"
	parquetSamples := parquet.ConvertSeriesSampleRecords(samples)
	if err := parquet.WriteSeriesSamplesParquet(parquetSamples, samplesFile); err != nil {
		return fmt.Errorf("failed to write series samples: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d samples to: %s\n", len(parquetSamples), samplesFile)

	return nil
}
