// Package core implements the scoring pipeline: catalog building, cache
// reuse, environment management, type-completeness scoring and result
// assembly.
package core

import (
	"time"

	"github.com/pytyped/typescore/internal/contract"
	"github.com/pytyped/typescore/internal/outwriter"
	"github.com/pytyped/typescore/schema"
)

// WorkSet is the in-memory mapping of one scoring run. Records are keyed by
// package name and kept in catalog feed order. It is owned exclusively by the
// run and never accessed concurrently.
type WorkSet struct {
	records map[string]*schema.PackageRecord
	order   []string
}

// NewWorkSet creates an empty work set.
func NewWorkSet() *WorkSet {
	return &WorkSet{records: make(map[string]*schema.PackageRecord)}
}

// Add inserts a record unless its name is already present. The first
// occurrence wins; duplicates are dropped.
func (ws *WorkSet) Add(rec *schema.PackageRecord) bool {
	if _, exists := ws.records[rec.Name]; exists {
		return false
	}
	ws.records[rec.Name] = rec
	ws.order = append(ws.order, rec.Name)
	return true
}

// Get returns the record for a name, or nil.
func (ws *WorkSet) Get(name string) *schema.PackageRecord {
	return ws.records[name]
}

// Has reports whether a name is in the work set.
func (ws *WorkSet) Has(name string) bool {
	_, ok := ws.records[name]
	return ok
}

// Remove drops a record from the work set, preserving the order of the rest.
func (ws *WorkSet) Remove(name string) {
	if _, ok := ws.records[name]; !ok {
		return
	}
	delete(ws.records, name)
	for i, n := range ws.order {
		if n == name {
			ws.order = append(ws.order[:i], ws.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of records.
func (ws *WorkSet) Len() int {
	return len(ws.records)
}

// Ordered returns all records in catalog feed order.
func (ws *WorkSet) Ordered() []*schema.PackageRecord {
	out := make([]*schema.PackageRecord, 0, len(ws.order))
	for _, name := range ws.order {
		out = append(out, ws.records[name])
	}
	return out
}

// Snapshot returns copies of all records in catalog feed order, for handing
// to the output writers.
func (ws *WorkSet) Snapshot() []schema.PackageRecord {
	out := make([]schema.PackageRecord, 0, len(ws.order))
	for _, name := range ws.order {
		out = append(out, *ws.records[name])
	}
	return out
}

// NeedsRecompute returns the records that were not satisfied by cache reuse,
// in feed order.
func (ws *WorkSet) NeedsRecompute() []*schema.PackageRecord {
	var out []*schema.PackageRecord
	for _, name := range ws.order {
		if rec := ws.records[name]; !rec.Reused {
			out = append(out, rec)
		}
	}
	return out
}

// Dependencies bundles the external collaborators of a scoring run.
// Every member is an interface or swappable func so tests can run the
// pipeline without a network, interpreter or real database.
type Dependencies struct {
	Fetcher contract.DocumentFetcher
	Pip     contract.PipClient
	Checker contract.TypeChecker
	Store   contract.HistoryStore
	Out     *outwriter.OutWriter
	Now     func() time.Time
}

// now returns the dependency clock, defaulting to the wall clock.
func (d *Dependencies) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}
