package core

import (
	"context"
	"fmt"
	"time"

	"github.com/pytyped/typescore/internal/contract"
	"github.com/pytyped/typescore/internal/fetch"
	"github.com/pytyped/typescore/internal/outwriter"
	"github.com/pytyped/typescore/schema"
)

// fakeFetcher serves canned documents by URL. Unknown URLs report not-found.
// Every requested URL is recorded in order.
type fakeFetcher struct {
	docs map[string][]byte
	errs map[string]error
	gets []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{docs: make(map[string][]byte), errs: make(map[string]error)}
}

func (f *fakeFetcher) GetDocument(_ context.Context, url string) ([]byte, error) {
	f.gets = append(f.gets, url)
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	if doc, ok := f.docs[url]; ok {
		return doc, nil
	}
	return nil, fmt.Errorf("%s: %w", url, fetch.ErrNotFound)
}

// pipCall records one invocation against the fake workspace.
type pipCall struct {
	op   string // install or uninstall
	args []string
}

// fakePip is an in-memory workspace handle that records every mutation.
type fakePip struct {
	calls     []pipCall
	manifests map[string]string
	installs  int
	failOn    string // spec substring that makes Install fail
}

func newFakePip() *fakePip {
	return &fakePip{manifests: make(map[string]string)}
}

func (p *fakePip) Install(_ context.Context, specs []string) error {
	p.calls = append(p.calls, pipCall{op: "install", args: specs})
	p.installs++
	if p.failOn != "" {
		for _, s := range specs {
			if s == p.failOn {
				return fmt.Errorf("could not find a matching distribution for %s", s)
			}
		}
	}
	return nil
}

func (p *fakePip) Uninstall(_ context.Context, names []string) error {
	p.calls = append(p.calls, pipCall{op: "uninstall", args: names})
	return nil
}

func (p *fakePip) ShowFiles(_ context.Context, name string) ([]byte, error) {
	manifest, ok := p.manifests[name]
	if !ok {
		return nil, fmt.Errorf("package %s not installed", name)
	}
	return []byte(manifest), nil
}

// manifestFor builds a plausible pip show -f output for a module directory.
func manifestFor(pkg, moduleDir string) string {
	return fmt.Sprintf(`Name: %s
Version: 1.0.0
Location: /site-packages
Files:
  %s/__init__.py
  %s/client.py
  %s/py.typed
`, pkg, moduleDir, moduleDir, moduleDir)
}

// fakeChecker returns canned outcomes per module and counts invocations.
type fakeChecker struct {
	outcomes    map[string]schema.VerifyOutcome
	invocations []string
}

func newFakeChecker() *fakeChecker {
	return &fakeChecker{outcomes: make(map[string]schema.VerifyOutcome)}
}

func (c *fakeChecker) VerifyTypes(_ context.Context, module string) (schema.VerifyOutcome, error) {
	c.invocations = append(c.invocations, module)
	if outcome, ok := c.outcomes[module]; ok {
		return outcome, nil
	}
	return schema.VerifyOutcome{Kind: schema.VerifyFailed, Code: 2, Stderr: "module not found"}, nil
}

// incompleteReport builds the checker's JSON report for a given score.
func incompleteReport(fraction float64, pyTypedPath string) []byte {
	return fmt.Appendf(nil, `{"typeCompleteness":{"completenessScore":%g,"pyTypedPath":%q}}`, fraction, pyTypedPath)
}

// memStore is an in-memory history store used by pipeline tests.
type memStore struct {
	entries map[string]schema.ScoreHistoryEntry // partition|rowKey
	batches [][]schema.ScoreHistoryEntry
	getErr  error
}

func newMemStore() *memStore {
	return &memStore{entries: make(map[string]schema.ScoreHistoryEntry)}
}

func (m *memStore) key(partition, rowKey string) string {
	return partition + "|" + rowKey
}

func (m *memStore) GetEntry(partition, rowKey string) (schema.ScoreHistoryEntry, error) {
	if m.getErr != nil {
		return schema.ScoreHistoryEntry{}, m.getErr
	}
	entry, ok := m.entries[m.key(partition, rowKey)]
	if !ok {
		return schema.ScoreHistoryEntry{}, contract.ErrEntryNotFound
	}
	return entry, nil
}

func (m *memStore) SubmitBatch(entries []schema.ScoreHistoryEntry) error {
	m.batches = append(m.batches, entries)
	for _, e := range entries {
		m.entries[m.key(e.PartitionKey, e.RowKey)] = e
	}
	return nil
}

func (m *memStore) GetPartitionEntries(partition string) ([]schema.ScoreHistoryEntry, error) {
	var out []schema.ScoreHistoryEntry
	for _, e := range m.entries {
		if e.PartitionKey == partition {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) GetAllEntries() ([]schema.ScoreHistoryEntry, error) {
	var out []schema.ScoreHistoryEntry
	for _, e := range m.entries {
		out = append(out, e)
	}
	return out, nil
}

func (m *memStore) GetStatus() (schema.HistoryStatus, error) {
	return schema.HistoryStatus{Backend: "memory", Connected: true, TotalEntries: int64(len(m.entries))}, nil
}

func (m *memStore) Close() error { return nil }

// testDeps bundles fresh fakes wired into a Dependencies value.
type testDeps struct {
	fetcher *fakeFetcher
	pip     *fakePip
	checker *fakeChecker
	store   *memStore
	deps    *Dependencies
}

func newTestDeps(now time.Time) *testDeps {
	td := &testDeps{
		fetcher: newFakeFetcher(),
		pip:     newFakePip(),
		checker: newFakeChecker(),
		store:   newMemStore(),
	}
	td.deps = &Dependencies{
		Fetcher: td.fetcher,
		Pip:     td.pip,
		Checker: td.checker,
		Store:   td.store,
		Out:     outwriter.NewOutWriter(),
		Now:     func() time.Time { return now },
	}
	return td
}

// baseConfig returns a released-channel config pointing at fake URLs.
func baseConfig() *contract.Config {
	return &contract.Config{
		Channel:          schema.ReleasedChannel,
		CatalogURL:       "https://catalog.test/latest.csv",
		PackageConfigURL: "https://config.test/%s/pyproject.toml",
		PyrightPin:       contract.DefaultPyrightPin,
		HistoryBackend:   schema.NoneBackend,
		Output:           schema.TextOut,
		OutputFile:       "", // stdout
		Width:            120,
		ResultLimit:      contract.DefaultResultLimit,
		ConflictGroups:   map[string][]string{},
	}
}
