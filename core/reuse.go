package core

import (
	"errors"
	"time"

	"github.com/pytyped/typescore/internal"
	"github.com/pytyped/typescore/internal/contract"
	"github.com/pytyped/typescore/schema"
)

// ApplyCacheReuse checks every work-set package against the previous month's
// history partition. A stored entry at the same version carries its score and
// marker flag forward verbatim; anything else leaves the package marked for
// recomputation. Store failures other than not-found are logged per package
// and never abort the run.
func ApplyCacheReuse(store contract.HistoryStore, ws *WorkSet, today time.Time) int {
	partition := schema.LastMonthPartition(today)

	reused := 0
	for _, rec := range ws.Ordered() {
		entry, err := store.GetEntry(partition, rec.Name)
		if errors.Is(err, contract.ErrEntryNotFound) {
			continue
		} else if err != nil {
			internal.Warningf("history lookup failed for %s, will recompute: %v", rec.Name, err)
			continue
		}

		if entry.LatestVersion != rec.LatestVersion {
			continue // new version shipped since last run
		}

		score := entry.Score
		pyTyped := entry.PyTyped
		rec.Score = &score
		rec.PyTyped = &pyTyped
		rec.AsOf = today
		rec.Reused = true
		reused++
	}
	return reused
}
