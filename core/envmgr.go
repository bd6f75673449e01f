package core

import (
	"context"
	"fmt"

	"github.com/pytyped/typescore/internal/contract"
	"github.com/pytyped/typescore/schema"
)

// EnvManager sequences installs and uninstalls over the single shared
// workspace. The workspace is a serialized resource: every operation blocks,
// and no scoring overlaps an environment mutation. An install or uninstall
// failure leaves the workspace in an unknown state, so it aborts the run.
type EnvManager struct {
	pip contract.PipClient
	cfg *contract.Config
}

// NewEnvManager creates an environment manager over a pip workspace handle.
func NewEnvManager(pip contract.PipClient, cfg *contract.Config) *EnvManager {
	return &EnvManager{pip: pip, cfg: cfg}
}

// SplitRounds partitions the recompute set into the round-1 bulk batch and
// the round-2 isolated list. A package appears in round 2 exactly when the
// conflict table lists it; feed order is preserved on both sides.
func (m *EnvManager) SplitRounds(records []*schema.PackageRecord) (bulk, isolated []*schema.PackageRecord) {
	for _, rec := range records {
		if _, conflicted := m.cfg.ConflictGroups[rec.Name]; conflicted {
			isolated = append(isolated, rec)
		} else {
			bulk = append(bulk, rec)
		}
	}
	return bulk, isolated
}

// InstallBulk installs every round-1 package together in one batched
// invocation, pinned to exact versions. The checker pin rides along on every
// batch so the checker binary exists no matter which interpreter installed.
func (m *EnvManager) InstallBulk(ctx context.Context, records []*schema.PackageRecord) error {
	if len(records) == 0 {
		return nil
	}

	specs := m.installArgs()
	for _, rec := range records {
		specs = append(specs, pinSpec(rec))
	}
	specs = append(specs, m.cfg.PyrightPin)

	if err := m.pip.Install(ctx, specs); err != nil {
		return fmt.Errorf("bulk install of %d packages failed: %w", len(records), err)
	}
	return nil
}

// InstallIsolated prepares the workspace for one conflicted package: the
// dependency names recorded for it are uninstalled first, then the package is
// installed alone. No snapshot is restored afterwards; isolated packages are
// processed strictly one at a time.
func (m *EnvManager) InstallIsolated(ctx context.Context, rec *schema.PackageRecord) error {
	conflicts := m.cfg.ConflictGroups[rec.Name]
	if len(conflicts) > 0 {
		if err := m.pip.Uninstall(ctx, conflicts); err != nil {
			return fmt.Errorf("uninstall of conflicts for %s failed: %w", rec.Name, err)
		}
	}

	specs := append(m.installArgs(), pinSpec(rec), m.cfg.PyrightPin)
	if err := m.pip.Install(ctx, specs); err != nil {
		return fmt.Errorf("isolated install of %s failed: %w", rec.Name, err)
	}
	return nil
}

// installArgs returns the installer arguments shared by every batch.
// Preview-channel installs allow pre-releases and search the extra index.
func (m *EnvManager) installArgs() []string {
	var args []string
	if m.cfg.Channel == schema.PreviewChannel {
		args = append(args, "--pre")
		if m.cfg.ExtraIndexURL != "" {
			args = append(args, "--extra-index-url", m.cfg.ExtraIndexURL)
		}
	}
	return args
}

// pinSpec formats an exact-version requirement spec.
func pinSpec(rec *schema.PackageRecord) string {
	return rec.Name + "==" + rec.LatestVersion
}
