package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pytyped/typescore/schema"
)

const catalogCSV = `Package,VersionGA,VersionPreview,RepoPath
widget-sdk,3.1.0,,sdk/widget
gadget-core,1.0.0,2.0.0a1,sdk/gadget
widget-sdk,9.9.9,,sdk/widget-dup
,1.0.0,,sdk/nameless
legacy-nspkg,0.1.0,,sdk/legacy
mgmt-widget,4.0.0,,sdk/mgmt
no-version-pkg,,,sdk/noversion
`

func TestBuildCatalog(t *testing.T) {
	cfg := baseConfig()
	cfg.IgnorePolicy = schema.NewIgnorePolicy(
		[]string{"legacy-nspkg"},
		[]string{"mgmt-"},
		nil,
	)

	fetcher := newFakeFetcher()
	fetcher.docs[cfg.CatalogURL] = []byte(catalogCSV)

	ws, err := BuildCatalog(context.Background(), cfg, fetcher)
	require.NoError(t, err)

	// Dedupe, ignore policy, missing names and missing versions all applied
	require.Equal(t, 2, ws.Len())

	widget := ws.Get("widget-sdk")
	require.NotNil(t, widget)
	// First occurrence wins over the 9.9.9 duplicate
	assert.Equal(t, "3.1.0", widget.LatestVersion)
	assert.Equal(t, schema.AllChecksEnabled(), widget.Checks)

	gadget := ws.Get("gadget-core")
	require.NotNil(t, gadget)
	// Pre-release outranks GA under semantic ordering
	assert.Equal(t, "2.0.0a1", gadget.LatestVersion)

	assert.Nil(t, ws.Get("legacy-nspkg"))
	assert.Nil(t, ws.Get("mgmt-widget"))
	assert.Nil(t, ws.Get("no-version-pkg"))
}

func TestBuildCatalogPatternExemption(t *testing.T) {
	cfg := baseConfig()
	cfg.IgnorePolicy = schema.NewIgnorePolicy(
		nil,
		[]string{"mgmt-"},
		[]string{"mgmt-widget"},
	)

	fetcher := newFakeFetcher()
	fetcher.docs[cfg.CatalogURL] = []byte("Package,VersionGA,VersionPreview,RepoPath\nmgmt-widget,4.0.0,,sdk/mgmt\nmgmt-other,1.0.0,,sdk/other\n")

	ws, err := BuildCatalog(context.Background(), cfg, fetcher)
	require.NoError(t, err)

	assert.NotNil(t, ws.Get("mgmt-widget"), "exempted name passes pattern filtering")
	assert.Nil(t, ws.Get("mgmt-other"))
}

func TestBuildCatalogCheckFlags(t *testing.T) {
	cfg := baseConfig()

	// The config document lives under RepoPath/Package: RepoPath alone is
	// the service directory shared by several packages.
	fetcher := newFakeFetcher()
	fetcher.docs[cfg.CatalogURL] = []byte("Package,VersionGA,VersionPreview,RepoPath\nwidget-sdk,3.1.0,,sdk/widget\n")
	fetcher.docs["https://config.test/sdk/widget/widget-sdk/pyproject.toml"] = []byte(`
[tool.typecheck]
mypy = false
verifytypes = false
`)

	ws, err := BuildCatalog(context.Background(), cfg, fetcher)
	require.NoError(t, err)

	widget := ws.Get("widget-sdk")
	require.NotNil(t, widget)
	assert.False(t, widget.Checks.Mypy)
	assert.True(t, widget.Checks.Pyright)
	assert.True(t, widget.Checks.Samples)
	assert.False(t, widget.Checks.Verifytypes)
	assert.Contains(t, fetcher.gets, "https://config.test/sdk/widget/widget-sdk/pyproject.toml")
}

func TestBuildCatalogConfigURLIncludesPackageSegment(t *testing.T) {
	cfg := baseConfig()

	fetcher := newFakeFetcher()
	fetcher.docs[cfg.CatalogURL] = []byte("Package,VersionGA,VersionPreview,RepoPath\nwidget-sdk,3.1.0,,widget\n")
	fetcher.docs["https://config.test/widget/widget-sdk/pyproject.toml"] = []byte("pyright = false\n")

	ws, err := BuildCatalog(context.Background(), cfg, fetcher)
	require.NoError(t, err)

	widget := ws.Get("widget-sdk")
	require.NotNil(t, widget)
	assert.False(t, widget.Checks.Pyright, "pyright disabled in RepoPath/Package pyproject should be honored")
	assert.NotContains(t, fetcher.gets, "https://config.test/widget/pyproject.toml",
		"RepoPath alone is not a config location")
}

func TestBuildCatalogConfigNotFound(t *testing.T) {
	cfg := baseConfig()

	// No config doc registered, so the lookup 404s
	fetcher := newFakeFetcher()
	fetcher.docs[cfg.CatalogURL] = []byte("Package,VersionGA,VersionPreview,RepoPath\nwidget-sdk,3.1.0,,sdk/widget\n")

	ws, err := BuildCatalog(context.Background(), cfg, fetcher)
	require.NoError(t, err)

	widget := ws.Get("widget-sdk")
	require.NotNil(t, widget)
	assert.Equal(t, schema.AllChecksEnabled(), widget.Checks, "missing config means all checks enabled")
}

func TestBuildCatalogReorderedColumns(t *testing.T) {
	cfg := baseConfig()

	fetcher := newFakeFetcher()
	fetcher.docs[cfg.CatalogURL] = []byte("RepoPath,VersionPreview,Package,VersionGA\nsdk/widget,,widget-sdk,3.1.0\n")

	ws, err := BuildCatalog(context.Background(), cfg, fetcher)
	require.NoError(t, err)
	widget := ws.Get("widget-sdk")
	require.NotNil(t, widget)
	assert.Equal(t, "3.1.0", widget.LatestVersion)
}

func TestBuildCatalogFetchFailure(t *testing.T) {
	cfg := baseConfig()
	fetcher := newFakeFetcher() // catalog URL not registered

	_, err := BuildCatalog(context.Background(), cfg, fetcher)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch catalog")
}

func TestBuildCatalogMissingPackageColumn(t *testing.T) {
	cfg := baseConfig()
	fetcher := newFakeFetcher()
	fetcher.docs[cfg.CatalogURL] = []byte("Name,Version\nfoo,1.0.0\n")

	_, err := BuildCatalog(context.Background(), cfg, fetcher)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no Package column")
}
