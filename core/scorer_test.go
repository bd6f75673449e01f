package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pytyped/typescore/schema"
)

func TestResolveModule(t *testing.T) {
	pip := newFakePip()
	pip.manifests["widget-sdk"] = manifestFor("widget-sdk", "widget_sdk")
	scorer := NewScorer(pip, newFakeChecker())

	module, err := scorer.ResolveModule(context.Background(), "widget-sdk")
	require.NoError(t, err)
	assert.Equal(t, "widget_sdk", module)
}

func TestResolveModuleNested(t *testing.T) {
	pip := newFakePip()
	pip.manifests["ns-widget"] = `Name: ns-widget
Files:
  ns/widget/__init__.py
  ns/widget/client.py
`
	scorer := NewScorer(pip, newFakeChecker())

	module, err := scorer.ResolveModule(context.Background(), "ns-widget")
	require.NoError(t, err)
	assert.Equal(t, "ns.widget", module)
}

func TestResolveModuleBackslashes(t *testing.T) {
	pip := newFakePip()
	pip.manifests["win-widget"] = "Name: win-widget\nFiles:\n  win_widget\\__init__.py\n"
	scorer := NewScorer(pip, newFakeChecker())

	module, err := scorer.ResolveModule(context.Background(), "win-widget")
	require.NoError(t, err)
	assert.Equal(t, "win_widget", module)
}

func TestResolveModuleNoInitializer(t *testing.T) {
	pip := newFakePip()
	pip.manifests["data-only"] = "Name: data-only\nFiles:\n  data_only/payload.json\n"
	scorer := NewScorer(pip, newFakeChecker())

	_, err := scorer.ResolveModule(context.Background(), "data-only")
	require.Error(t, err)

	var modErr *ModuleResolutionError
	require.ErrorAs(t, err, &modErr)
	assert.Equal(t, "data-only", modErr.Package)
}

func TestScorePackageClean(t *testing.T) {
	asOf := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	pip := newFakePip()
	pip.manifests["widget-sdk"] = manifestFor("widget-sdk", "widget_sdk")
	checker := newFakeChecker()
	checker.outcomes["widget_sdk"] = schema.VerifyOutcome{
		Kind:   schema.VerifyClean,
		Report: incompleteReport(1.0, "widget_sdk/py.typed"),
	}
	scorer := NewScorer(pip, checker)

	rec := &schema.PackageRecord{Name: "widget-sdk", LatestVersion: "3.1.0"}
	scored, err := scorer.ScorePackage(context.Background(), rec, asOf)
	require.NoError(t, err)
	require.True(t, scored)

	require.NotNil(t, rec.Score)
	assert.InDelta(t, 100.0, *rec.Score, 0.001)
	require.NotNil(t, rec.PyTyped)
	assert.True(t, *rec.PyTyped)
	assert.Equal(t, asOf, rec.AsOf)
	assert.False(t, rec.Reused)
}

func TestScorePackageIncomplete(t *testing.T) {
	// Exit code 1 is the checker's way of saying "ran fine, found gaps";
	// the report still must be parsed, not treated as a failure.
	asOf := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	pip := newFakePip()
	pip.manifests["widget-sdk"] = manifestFor("widget-sdk", "widget_sdk")
	checker := newFakeChecker()
	checker.outcomes["widget_sdk"] = schema.VerifyOutcome{
		Kind:   schema.VerifyIncomplete,
		Code:   1,
		Report: incompleteReport(0.873, "widget_sdk/py.typed"),
	}
	scorer := NewScorer(pip, checker)

	rec := &schema.PackageRecord{Name: "widget-sdk", LatestVersion: "3.1.0"}
	scored, err := scorer.ScorePackage(context.Background(), rec, asOf)
	require.NoError(t, err)
	require.True(t, scored)

	assert.InDelta(t, 87.3, *rec.Score, 0.001)
	assert.True(t, *rec.PyTyped)
}

func TestScorePackageNoMarker(t *testing.T) {
	asOf := time.Now()
	pip := newFakePip()
	pip.manifests["untyped-sdk"] = manifestFor("untyped-sdk", "untyped_sdk")
	checker := newFakeChecker()
	checker.outcomes["untyped_sdk"] = schema.VerifyOutcome{
		Kind:   schema.VerifyIncomplete,
		Code:   1,
		Report: []byte(`{"typeCompleteness":{"completenessScore":0.12}}`),
	}
	scorer := NewScorer(pip, checker)

	rec := &schema.PackageRecord{Name: "untyped-sdk", LatestVersion: "0.5.0"}
	scored, err := scorer.ScorePackage(context.Background(), rec, asOf)
	require.NoError(t, err)
	require.True(t, scored)

	assert.InDelta(t, 12.0, *rec.Score, 0.001)
	assert.False(t, *rec.PyTyped, "absent pyTypedPath means no inline marker")
}

func TestScorePackageCheckerFailed(t *testing.T) {
	// Any exit code other than 0 or 1 skips the package without crashing
	pip := newFakePip()
	pip.manifests["broken-sdk"] = manifestFor("broken-sdk", "broken_sdk")
	checker := newFakeChecker()
	checker.outcomes["broken_sdk"] = schema.VerifyOutcome{
		Kind:   schema.VerifyFailed,
		Code:   3,
		Stderr: "internal checker crash",
	}
	scorer := NewScorer(pip, checker)

	rec := &schema.PackageRecord{Name: "broken-sdk", LatestVersion: "1.0.0"}
	scored, err := scorer.ScorePackage(context.Background(), rec, time.Now())
	require.NoError(t, err)
	assert.False(t, scored)
	assert.Nil(t, rec.Score, "skipped packages stay unfinalized")
	assert.Nil(t, rec.PyTyped)
}

func TestScorePackageModuleResolutionSkips(t *testing.T) {
	pip := newFakePip()
	pip.manifests["data-only"] = "Name: data-only\nFiles:\n  data_only/payload.json\n"
	checker := newFakeChecker()
	scorer := NewScorer(pip, checker)

	rec := &schema.PackageRecord{Name: "data-only", LatestVersion: "1.0.0"}
	scored, err := scorer.ScorePackage(context.Background(), rec, time.Now())
	require.NoError(t, err)
	assert.False(t, scored)
	assert.Empty(t, checker.invocations, "no checker run without a module")
}

func TestScorePackageMalformedReport(t *testing.T) {
	pip := newFakePip()
	pip.manifests["widget-sdk"] = manifestFor("widget-sdk", "widget_sdk")
	checker := newFakeChecker()
	checker.outcomes["widget_sdk"] = schema.VerifyOutcome{
		Kind:   schema.VerifyClean,
		Report: []byte("not json"),
	}
	scorer := NewScorer(pip, checker)

	rec := &schema.PackageRecord{Name: "widget-sdk", LatestVersion: "3.1.0"}
	scored, err := scorer.ScorePackage(context.Background(), rec, time.Now())
	require.NoError(t, err)
	assert.False(t, scored)
}
