package histstore

import (
	"errors"
	"fmt"

	"github.com/pytyped/typescore/internal/parquet"
)

// ExecuteHistoryExport exports all score history data to a Parquet file.
func ExecuteHistoryExport(outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	hs := GetStore()
	if hs == nil {
		return errors.New("history store is not initialized")
	}

	// Check if there's any data to export
	status, err := hs.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}

	if status.TotalEntries == 0 {
		return errors.New("no score history found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total entries: %d across %d partitions\n", status.TotalEntries, status.Partitions)

	entries, err := hs.GetAllEntries()
	if err != nil {
		return fmt.Errorf("failed to retrieve history entries: %w", err)
	}

	rows := parquet.ConvertScoreHistoryEntries(entries)

	historyFile := outputFile + ".score_history.parquet"
	if err := parquet.WriteScoreHistoryParquet(rows, historyFile); err != nil {
		return fmt.Errorf("failed to write score history: %w", err)
	}
	fmt.Printf("Exported %d score entries to: %s\n", len(rows), historyFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Apache Arrow")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
