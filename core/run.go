package core

import (
	"context"
	"fmt"
	"time"

	"github.com/pytyped/typescore/internal"
	"github.com/pytyped/typescore/internal/contract"
	"github.com/pytyped/typescore/schema"
)

// ExecuteScoreRun executes one full scoring run: catalog build, cache reuse,
// the two-round install strategy, scoring and the atomic history submission.
// Execution is strictly sequential; the shared workspace is never mutated
// while a check is in flight.
func ExecuteScoreRun(ctx context.Context, cfg *contract.Config, deps *Dependencies) error {
	start := time.Now()
	today := deps.now()

	ws, err := BuildCatalog(ctx, cfg, deps.Fetcher)
	if err != nil {
		return err
	}
	internal.Infof("catalog: %d packages on the %s channel", ws.Len(), cfg.Channel)

	if cfg.Channel == schema.PreviewChannel {
		// Preview runs score the latest alpha build of every feed package.
		// Alpha builds churn daily, so prior results are never carried over.
		versions, err := ResolvePreviewVersions(ctx, cfg, deps.Fetcher)
		if err != nil {
			return err
		}
		ApplyPreviewVersions(ws, versions)
		internal.Infof("preview feed: %d packages resolved", ws.Len())
	} else {
		reused := ApplyCacheReuse(deps.Store, ws, today)
		internal.Infof("cache: %d of %d packages reused from %s", reused, ws.Len(), schema.LastMonthPartition(today))
	}

	recompute := ws.NeedsRecompute()
	if cfg.DryRun {
		internal.Infof("dry run: %d packages would be recomputed", len(recompute))
		return deps.Out.WriteRun(ws.Snapshot(), cfg, time.Since(start))
	}

	if err := scoreRecomputeSet(ctx, cfg, deps, recompute, today); err != nil {
		return err
	}

	entries := BuildEntries(ws, today)
	if err := SubmitResults(deps.Store, entries); err != nil {
		return err
	}
	internal.Infof("persisted %d entries to partition %s", len(entries), schema.PartitionKey(today))

	return deps.Out.WriteRun(ws.Snapshot(), cfg, time.Since(start))
}

// scoreRecomputeSet runs the two install rounds and scores each package.
// Round 1 installs and scores all non-conflicting packages before any
// round-2 uninstall begins; round 2 handles conflicted packages one at a
// time, each fully scored before the next begins.
func scoreRecomputeSet(ctx context.Context, cfg *contract.Config, deps *Dependencies, recompute []*schema.PackageRecord, today time.Time) error {
	if len(recompute) == 0 {
		return nil
	}

	mgr := NewEnvManager(deps.Pip, cfg)
	scorer := NewScorer(deps.Pip, deps.Checker)

	bulk, isolated := mgr.SplitRounds(recompute)
	internal.Infof("round 1: %d packages, round 2: %d packages", len(bulk), len(isolated))

	if err := mgr.InstallBulk(ctx, bulk); err != nil {
		return fmt.Errorf("environment mutation failed, aborting run: %w", err)
	}
	for _, rec := range bulk {
		if _, err := scorer.ScorePackage(ctx, rec, today); err != nil {
			return err
		}
	}

	for _, rec := range isolated {
		if err := mgr.InstallIsolated(ctx, rec); err != nil {
			return fmt.Errorf("environment mutation failed, aborting run: %w", err)
		}
		if _, err := scorer.ScorePackage(ctx, rec, today); err != nil {
			return err
		}
	}
	return nil
}
