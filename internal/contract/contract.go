// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"errors"

	"github.com/pytyped/typescore/schema"
)

// ErrEntryNotFound is returned by HistoryStore.GetEntry when no entry exists
// for the requested partition and row key. Callers treat it as a recoverable
// condition, not a store failure.
var ErrEntryNotFound = errors.New("history entry not found")

// PipClient defines the operations the pipeline performs against the single
// shared installation workspace. All calls block until the underlying package
// manager invocation exits; each invocation is all-or-nothing.
// This allows the environment manager to be tested without a real interpreter.
type PipClient interface {
	// Install installs the given requirement specs (name==version plus any
	// extra installer arguments) into the shared workspace.
	Install(ctx context.Context, specs []string) error

	// Uninstall removes the named packages from the shared workspace.
	Uninstall(ctx context.Context, names []string) error

	// ShowFiles returns the installer's file-manifest output for a package,
	// used to locate its importable module.
	ShowFiles(ctx context.Context, name string) ([]byte, error)
}

// TypeChecker runs the external type-completeness checker against an
// importable module and reports a tagged outcome. An error return means the
// checker could not be invoked at all.
type TypeChecker interface {
	VerifyTypes(ctx context.Context, module string) (schema.VerifyOutcome, error)
}

// HistoryStore defines the partitioned score-history storage.
// This allows mocking the store for testing.
type HistoryStore interface {
	// GetEntry fetches the entry for (partition, rowKey), or ErrEntryNotFound.
	GetEntry(partition, rowKey string) (schema.ScoreHistoryEntry, error)

	// SubmitBatch persists all entries in a single atomic transaction.
	SubmitBatch(entries []schema.ScoreHistoryEntry) error

	// GetPartitionEntries returns all entries in a partition, ordered by row key.
	GetPartitionEntries(partition string) ([]schema.ScoreHistoryEntry, error)

	// GetAllEntries returns every stored entry, ordered by partition then row key.
	GetAllEntries() ([]schema.ScoreHistoryEntry, error)

	// GetStatus returns status information about the history store.
	GetStatus() (schema.HistoryStatus, error)

	// Close closes the underlying connection.
	Close() error
}

// DocumentFetcher retrieves remote documents (catalog feed, per-package
// configuration, version feeds). Implementations surface a not-found
// condition as fetch.ErrNotFound so callers can recover locally.
type DocumentFetcher interface {
	GetDocument(ctx context.Context, url string) ([]byte, error)
}
