// Package schema has configs, models and shared types for all parts of typescore.
package schema

import "time"

// CheckFlags holds the per-package typing check toggles. A package with no
// configuration document runs every check.
type CheckFlags struct {
	Mypy        bool `json:"mypy"`
	Pyright     bool `json:"pyright"`
	Samples     bool `json:"samples"`
	Verifytypes bool `json:"verifytypes"`
}

// AllChecksEnabled returns the default check configuration.
func AllChecksEnabled() CheckFlags {
	return CheckFlags{Mypy: true, Pyright: true, Samples: true, Verifytypes: true}
}

// PackageRecord is one package in a scoring run's work set.
// Score and PyTyped stay nil until the package is scored or its prior
// result is carried forward.
type PackageRecord struct {
	Name          string     `json:"name"`          // Unique package name, key of the work set
	LatestVersion string     `json:"latestVersion"` // Highest of GA and pre-release versions
	Checks        CheckFlags `json:"checks"`        // Enabled typing checks
	Score         *float64   `json:"score"`         // Completeness percentage, 0.0-100.0, one decimal
	PyTyped       *bool      `json:"pyTyped"`       // Whether the package ships an inline type marker
	AsOf          time.Time  `json:"asOf"`          // Date the score was computed or carried forward
	Reused        bool       `json:"reused"`        // True if Score/PyTyped were copied from a prior run
}

// Finalized reports whether the record carries a usable score.
func (r *PackageRecord) Finalized() bool {
	return r.Score != nil && r.PyTyped != nil
}

// ScoreHistoryEntry is the persisted form of a scored package, partitioned
// by computation date and keyed by package name within the partition.
// Entries are insert-only; later runs create new partitions.
type ScoreHistoryEntry struct {
	PartitionKey  string    `json:"partitionKey"`
	RowKey        string    `json:"rowKey"`
	Package       string    `json:"package"`
	Date          time.Time `json:"date"`
	LatestVersion string    `json:"latestVersion"`
	Score         float64   `json:"score"`
	PyTyped       bool      `json:"pyTyped"`
	Mypy          bool      `json:"mypy"`
	Pyright       bool      `json:"pyright"`
	Samples       bool      `json:"samples"`
	Verifytypes   bool      `json:"verifytypes"`
}

// VerifyReport mirrors the JSON report emitted by pyright --verifytypes.
// Only the fields the scorer consumes are mapped.
type VerifyReport struct {
	TypeCompleteness struct {
		CompletenessScore float64 `json:"completenessScore"`
		PyTypedPath       string  `json:"pyTypedPath"`
	} `json:"typeCompleteness"`
}

// HistoryStatus holds status information about the history store.
type HistoryStatus struct {
	Backend         string
	Connected       bool
	TotalEntries    int64
	Partitions      int64
	LatestPartition string
}

// IgnorePolicy is the immutable package filter applied when building the
// work set. Names in Exact are always dropped; names containing any Pattern
// substring are dropped unless listed in Exempt.
type IgnorePolicy struct {
	Exact    map[string]struct{}
	Patterns []string
	Exempt   map[string]struct{}
}

// NewIgnorePolicy builds a policy from slices, as read from configuration.
func NewIgnorePolicy(exact, patterns, exempt []string) IgnorePolicy {
	p := IgnorePolicy{
		Exact:    make(map[string]struct{}, len(exact)),
		Patterns: patterns,
		Exempt:   make(map[string]struct{}, len(exempt)),
	}
	for _, name := range exact {
		p.Exact[name] = struct{}{}
	}
	for _, name := range exempt {
		p.Exempt[name] = struct{}{}
	}
	return p
}

// Ignored reports whether a package name should be excluded from scoring.
func (p IgnorePolicy) Ignored(name string) bool {
	if _, ok := p.Exact[name]; ok {
		return true
	}
	if _, ok := p.Exempt[name]; ok {
		return false
	}
	for _, pattern := range p.Patterns {
		if pattern != "" && containsPattern(name, pattern) {
			return true
		}
	}
	return false
}
