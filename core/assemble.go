package core

import (
	"fmt"
	"time"

	"github.com/pytyped/typescore/internal/contract"
	"github.com/pytyped/typescore/schema"
)

// BuildEntries converts every finalized record into its persisted form.
// Partition key is the run date truncated to day; row key is the package
// name. Packages that never got a score are left out of the batch entirely.
func BuildEntries(ws *WorkSet, runDate time.Time) []schema.ScoreHistoryEntry {
	partition := schema.PartitionKey(runDate)

	var entries []schema.ScoreHistoryEntry
	for _, rec := range ws.Ordered() {
		if !rec.Finalized() {
			continue
		}
		entries = append(entries, schema.ScoreHistoryEntry{
			PartitionKey:  partition,
			RowKey:        rec.Name,
			Package:       rec.Name,
			Date:          rec.AsOf,
			LatestVersion: rec.LatestVersion,
			Score:         *rec.Score,
			PyTyped:       *rec.PyTyped,
			Mypy:          rec.Checks.Mypy,
			Pyright:       rec.Checks.Pyright,
			Samples:       rec.Checks.Samples,
			Verifytypes:   rec.Checks.Verifytypes,
		})
	}
	return entries
}

// SubmitResults persists the batch in one atomic transaction. Transaction
// failures surface to the caller unretried.
func SubmitResults(store contract.HistoryStore, entries []schema.ScoreHistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := store.SubmitBatch(entries); err != nil {
		return fmt.Errorf("failed to persist %d score entries: %w", len(entries), err)
	}
	return nil
}
