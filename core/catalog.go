package core

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pytyped/typescore/internal"
	"github.com/pytyped/typescore/internal/contract"
	"github.com/pytyped/typescore/internal/fetch"
	"github.com/pytyped/typescore/internal/pyproject"
	"github.com/pytyped/typescore/schema"
)

// catalogRow is one parsed line of the catalog feed.
type catalogRow struct {
	name     string
	ga       string
	preview  string
	repoPath string
}

// BuildCatalog fetches the package roster, applies the ignore policy, dedupes
// by first occurrence and resolves each package's latest version and enabled
// checks. The returned work set preserves feed order.
func BuildCatalog(ctx context.Context, cfg *contract.Config, fetcher contract.DocumentFetcher) (*WorkSet, error) {
	doc, err := fetcher.GetDocument(ctx, cfg.CatalogURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}

	rows, err := parseCatalogCSV(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	ws := NewWorkSet()
	for _, row := range rows {
		if row.name == "" {
			continue
		}
		if cfg.IgnorePolicy.Ignored(row.name) {
			continue
		}
		if ws.Has(row.name) {
			continue // first occurrence wins
		}

		version := ResolveLatestVersion(row.ga, row.preview)
		if version == "" {
			internal.Warningf("skipping %s: no usable version in catalog", row.name)
			continue
		}

		ws.Add(&schema.PackageRecord{
			Name:          row.name,
			LatestVersion: version,
			Checks:        fetchCheckFlags(ctx, cfg, fetcher, row),
		})
	}

	return ws, nil
}

// fetchCheckFlags looks up a package's pyproject configuration. A missing
// document or missing repo path means every check stays enabled.
func fetchCheckFlags(ctx context.Context, cfg *contract.Config, fetcher contract.DocumentFetcher, row catalogRow) schema.CheckFlags {
	if row.repoPath == "" || cfg.PackageConfigURL == "" {
		return schema.AllChecksEnabled()
	}

	// Config documents live under the package's own directory, not the
	// shared service directory the catalog's RepoPath column names.
	url := fmt.Sprintf(cfg.PackageConfigURL, row.repoPath+"/"+row.name)
	doc, err := fetcher.GetDocument(ctx, url)
	if errors.Is(err, fetch.ErrNotFound) {
		return schema.AllChecksEnabled()
	} else if err != nil {
		internal.Warningf("config lookup failed for %s, keeping all checks enabled: %v", row.name, err)
		return schema.AllChecksEnabled()
	}

	flags, err := pyproject.ParseCheckFlags(doc)
	if err != nil {
		internal.Warningf("malformed config for %s, keeping all checks enabled: %v", row.name, err)
		return schema.AllChecksEnabled()
	}
	return flags
}

// parseCatalogCSV reads the catalog feed. Column positions are discovered
// from the header row by name, so upstream column reordering is tolerated.
func parseCatalogCSV(doc []byte) ([]catalogRow, error) {
	reader := csv.NewReader(bytes.NewReader(doc))
	reader.FieldsPerRecord = -1 // ragged rows are tolerated

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("missing header row: %w", err)
	}

	nameIdx, gaIdx, prevIdx, pathIdx := -1, -1, -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "package":
			nameIdx = i
		case "versionga":
			gaIdx = i
		case "versionpreview":
			prevIdx = i
		case "repopath":
			pathIdx = i
		}
	}
	if nameIdx < 0 {
		return nil, fmt.Errorf("catalog header has no Package column: %v", header)
	}

	var rows []catalogRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		row := catalogRow{name: fieldAt(record, nameIdx)}
		row.ga = fieldAt(record, gaIdx)
		row.preview = fieldAt(record, prevIdx)
		row.repoPath = fieldAt(record, pathIdx)
		rows = append(rows, row)
	}
	return rows, nil
}

// fieldAt returns a trimmed CSV field, or empty when the index is out of range.
func fieldAt(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
