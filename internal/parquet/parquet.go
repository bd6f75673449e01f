// Package parquet provides data structures and functions for exporting score
// history data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/pytyped/typescore/schema"
)

// ScoreHistoryRow represents a single package score measurement.
// This struct maps to the typescore_history database table.
type ScoreHistoryRow struct {
	// PartitionKey is the run date partition (YYYY-MM-DD)
	PartitionKey string `parquet:"partition_key,snappy"`

	// RowKey is the package identity within the partition
	RowKey string `parquet:"row_key,snappy"`

	// Package is the package name as listed in the catalog
	Package string `parquet:"package,snappy"`

	// EntryDate is when this score was recorded (stored as TIMESTAMP with nanosecond precision)
	EntryDate time.Time `parquet:"entry_date,snappy"`

	// LatestVersion is the version that was installed and scored
	LatestVersion string `parquet:"latest_version,snappy"`

	// Score is the type completeness percentage (0.0 to 100.0)
	Score float64 `parquet:"score,snappy"`

	// PyTyped indicates whether the package ships a py.typed marker
	PyTyped bool `parquet:"py_typed,snappy"`

	// Mypy indicates whether the mypy check is enabled for the package
	Mypy bool `parquet:"mypy,snappy"`

	// Pyright indicates whether the pyright check is enabled for the package
	Pyright bool `parquet:"pyright,snappy"`

	// Samples indicates whether sample type-checking is enabled for the package
	Samples bool `parquet:"samples,snappy"`

	// Verifytypes indicates whether the verifytypes check is enabled for the package
	Verifytypes bool `parquet:"verifytypes,snappy"`
}

// ConvertScoreHistoryEntries converts store entries into Parquet rows.
func ConvertScoreHistoryEntries(entries []schema.ScoreHistoryEntry) []ScoreHistoryRow {
	rows := make([]ScoreHistoryRow, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, ScoreHistoryRow{
			PartitionKey:  entry.PartitionKey,
			RowKey:        entry.RowKey,
			Package:       entry.Package,
			EntryDate:     entry.Date,
			LatestVersion: entry.LatestVersion,
			Score:         entry.Score,
			PyTyped:       entry.PyTyped,
			Mypy:          entry.Mypy,
			Pyright:       entry.Pyright,
			Samples:       entry.Samples,
			Verifytypes:   entry.Verifytypes,
		})
	}
	return rows
}

// WriteScoreHistoryParquet writes a slice of ScoreHistoryRow structs to a Parquet file.
func WriteScoreHistoryParquet(data []ScoreHistoryRow, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the ScoreHistoryRow struct tags
	writer := parquet.NewGenericWriter[ScoreHistoryRow](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}
