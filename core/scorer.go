package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/pytyped/typescore/internal"
	"github.com/pytyped/typescore/internal/contract"
	"github.com/pytyped/typescore/schema"
)

// ModuleResolutionError reports that an installed package exposes no
// importable module in its file manifest.
type ModuleResolutionError struct {
	Package string
}

func (e *ModuleResolutionError) Error() string {
	return fmt.Sprintf("no importable module found for %s", e.Package)
}

// Scorer derives type completeness scores for installed packages.
type Scorer struct {
	pip     contract.PipClient
	checker contract.TypeChecker
}

// NewScorer creates a scorer over a pip workspace and a type checker.
func NewScorer(pip contract.PipClient, checker contract.TypeChecker) *Scorer {
	return &Scorer{pip: pip, checker: checker}
}

// ResolveModule locates a package's importable top-level module by scanning
// the installer's file manifest for its module-initializer file and converting
// that path into a dotted module identifier.
func (s *Scorer) ResolveModule(ctx context.Context, pkg string) (string, error) {
	manifest, err := s.pip.ShowFiles(ctx, pkg)
	if err != nil {
		return "", fmt.Errorf("failed to read file manifest for %s: %w", pkg, err)
	}

	inFiles := false
	for _, line := range strings.Split(string(manifest), "\n") {
		trimmed := strings.TrimSpace(line)
		if !inFiles {
			if strings.HasPrefix(trimmed, "Files:") {
				inFiles = true
			}
			continue
		}
		if trimmed == "" {
			continue
		}

		rel := strings.ReplaceAll(trimmed, `\`, "/")
		if !strings.HasSuffix(rel, "/__init__.py") {
			continue
		}
		dir := path.Dir(rel)
		if dir == "." || strings.HasPrefix(dir, "..") {
			continue
		}
		return strings.ReplaceAll(dir, "/", "."), nil
	}

	return "", &ModuleResolutionError{Package: pkg}
}

// ScorePackage resolves a package's module, runs the checker against it and
// finalizes the record with a score and inline-marker flag. It returns true
// when the record was finalized; unscoreable packages are logged and return
// false so the run continues without them.
func (s *Scorer) ScorePackage(ctx context.Context, rec *schema.PackageRecord, asOf time.Time) (bool, error) {
	module, err := s.ResolveModule(ctx, rec.Name)
	if err != nil {
		var modErr *ModuleResolutionError
		if errors.As(err, &modErr) {
			internal.Warningf("skipping %s: %v", rec.Name, modErr)
			return false, nil
		}
		return false, err
	}

	outcome, err := s.checker.VerifyTypes(ctx, module)
	if err != nil {
		return false, fmt.Errorf("checker invocation for %s failed: %w", rec.Name, err)
	}

	// Exit 0 and exit 1 both carry a usable report; the checker signals
	// "ran fine, found incompleteness" through exit status 1. Any other
	// status means scoring failed for this package.
	if !outcome.HasReport() {
		internal.Warningf("skipping %s: checker exited with code %d: %s", rec.Name, outcome.Code, strings.TrimSpace(outcome.Stderr))
		return false, nil
	}

	var report schema.VerifyReport
	if err := json.Unmarshal(outcome.Report, &report); err != nil {
		internal.Warningf("skipping %s: unparseable checker report: %v", rec.Name, err)
		return false, nil
	}

	score := schema.RoundScore(report.TypeCompleteness.CompletenessScore)
	pyTyped := report.TypeCompleteness.PyTypedPath != ""
	rec.Score = &score
	rec.PyTyped = &pyTyped
	rec.AsOf = asOf
	rec.Reused = false
	return true, nil
}
