package core

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pytyped/typescore/internal"
	"github.com/pytyped/typescore/internal/contract"
)

// feedList is the JSON shape of the feed index endpoint.
type feedList struct {
	Value []struct {
		Name string `json:"name"`
		ID   string `json:"id"`
	} `json:"value"`
}

// feedPackageList is the JSON shape of a feed's package listing, including
// every published version.
type feedPackageList struct {
	Value []struct {
		Name     string `json:"name"`
		Versions []struct {
			Version     string `json:"version"`
			PublishDate string `json:"publishDate"`
		} `json:"versions"`
	} `json:"value"`
}

// ResolvePreviewVersions queries the package feed API for the latest alpha
// version of every feed package: first the feed index to find the configured
// feed's identifier, then its package listing. For each package the alpha
// version with the most recent publish date wins.
func ResolvePreviewVersions(ctx context.Context, cfg *contract.Config, fetcher contract.DocumentFetcher) (map[string]string, error) {
	doc, err := fetcher.GetDocument(ctx, cfg.FeedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed index: %w", err)
	}

	var feeds feedList
	if err := json.Unmarshal(doc, &feeds); err != nil {
		return nil, fmt.Errorf("failed to parse feed index: %w", err)
	}

	feedID := ""
	for _, f := range feeds.Value {
		if f.Name == cfg.FeedName {
			feedID = f.ID
			break
		}
	}
	if feedID == "" {
		return nil, fmt.Errorf("feed %q not found in feed index", cfg.FeedName)
	}

	pkgURL := fmt.Sprintf("%s/%s/packages?includeAllVersions=true", strings.TrimRight(cfg.FeedURL, "/"), feedID)
	doc, err = fetcher.GetDocument(ctx, pkgURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed packages: %w", err)
	}

	var packages feedPackageList
	if err := json.Unmarshal(doc, &packages); err != nil {
		return nil, fmt.Errorf("failed to parse feed packages: %w", err)
	}

	versions := make(map[string]string)
	for _, pkg := range packages.Value {
		latestDate := ""
		latestVersion := ""
		for _, v := range pkg.Versions {
			if !strings.Contains(v.Version, "a") {
				continue // only alpha builds are scored on the preview channel
			}
			if v.PublishDate > latestDate {
				latestDate = v.PublishDate
				latestVersion = v.Version
			}
		}
		if latestVersion != "" {
			versions[pkg.Name] = latestVersion
		}
	}
	return versions, nil
}

// ApplyPreviewVersions narrows the work set to packages present in the feed
// and rewrites their versions to the latest alpha build. Catalog packages
// without a feed entry are dropped from the run.
func ApplyPreviewVersions(ws *WorkSet, versions map[string]string) {
	for _, rec := range ws.Ordered() {
		alpha, ok := versions[rec.Name]
		if !ok {
			ws.Remove(rec.Name)
			continue
		}
		if rec.LatestVersion != alpha {
			internal.Infof("preview: %s resolves to %s", rec.Name, alpha)
		}
		rec.LatestVersion = alpha
	}
}
