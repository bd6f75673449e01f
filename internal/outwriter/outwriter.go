// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"time"

	"github.com/pytyped/typescore/internal/contract"
	"github.com/pytyped/typescore/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteRun prints scoring run results using the configured output format.
func (ow *OutWriter) WriteRun(records []schema.PackageRecord, cfg *contract.Config, duration time.Duration) error {
	return WriteRunResults(records, cfg, duration)
}

// WriteHistory prints score history entries using the configured output format.
func (ow *OutWriter) WriteHistory(entries []schema.ScoreHistoryEntry, cfg *contract.Config, duration time.Duration) error {
	return WriteHistoryEntries(entries, cfg, duration)
}

// WriteStatus prints history store status to stdout.
func (ow *OutWriter) WriteStatus(status schema.HistoryStatus) {
	fmt.Println("History store status:")
	fmt.Printf("  Backend:    %s\n", status.Backend)
	fmt.Printf("  Connected:  %t\n", status.Connected)
	fmt.Printf("  Entries:    %d\n", status.TotalEntries)
	fmt.Printf("  Partitions: %d\n", status.Partitions)
	if status.LatestPartition != "" {
		fmt.Printf("  Latest:     %s\n", status.LatestPartition)
	}
}
