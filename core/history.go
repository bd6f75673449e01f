package core

import (
	"fmt"
	"time"

	"github.com/pytyped/typescore/internal/contract"
	"github.com/pytyped/typescore/internal/outwriter"
	"github.com/pytyped/typescore/schema"
)

// ExecuteHistoryQuery prints the persisted scores for one partition. The
// partition defaults to today's date unless a month override is configured.
func ExecuteHistoryQuery(cfg *contract.Config, store contract.HistoryStore, out *outwriter.OutWriter) error {
	start := time.Now()

	partition := cfg.Month
	if partition == "" {
		partition = schema.PartitionKey(time.Now())
	}

	entries, err := store.GetPartitionEntries(partition)
	if err != nil {
		return fmt.Errorf("failed to query partition %s: %w", partition, err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("no scores found in partition %s", partition)
	}

	if cfg.ResultLimit > 0 && len(entries) > cfg.ResultLimit {
		entries = entries[:cfg.ResultLimit]
	}

	return out.WriteHistory(entries, cfg, time.Since(start))
}

// ExecuteHistoryStatus prints backend and row-count information.
func ExecuteHistoryStatus(store contract.HistoryStore, out *outwriter.OutWriter) error {
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	out.WriteStatus(status)
	return nil
}
