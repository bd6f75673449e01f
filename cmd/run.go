package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pytyped/typescore/core"
	"github.com/pytyped/typescore/internal"
	"github.com/pytyped/typescore/internal/contract"
	"github.com/pytyped/typescore/internal/fetch"
	"github.com/pytyped/typescore/internal/histstore"
	"github.com/pytyped/typescore/internal/outwriter"
)

// runCmd executes one full scoring run.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Score the type completeness of every catalog package.",
	Long: `Execute one full scoring run over the package catalog.

The run fetches the catalog, reuses last month's scores for packages that
have not shipped a new version, installs the rest into the shared Python
workspace in two rounds (bulk, then per-conflict isolation), verifies each
package's type completeness with pyright, and persists the results as one
atomic batch.

The workspace is mutated in place. Run this inside a dedicated virtual
environment, not your system interpreter.

Examples:
  # Score the released channel with the default catalog
  typescore run --catalog-url https://example.com/latest.csv

  # Score the latest alpha builds from a dev feed
  typescore run --channel preview --feed-url https://example.com/_apis/packaging/feeds --feed-name sdk-dev

  # See what would be recomputed without touching the environment
  typescore run --dry-run`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		fetcher := fetch.NewCircuitBreakerFetcher(fetch.NewFetcher())
		defer fetcher.Close()
		deps := &core.Dependencies{
			Fetcher: fetcher,
			Pip:     contract.NewLocalPipClient(cfg.PythonPath),
			Checker: contract.NewLocalPyrightClient(cfg.PythonPath),
			Store:   histstore.GetStore(),
			Out:     outwriter.NewOutWriter(),
		}
		if err := core.ExecuteScoreRun(rootCtx, cfg, deps); err != nil {
			internal.FatalError("Cannot run scoring pipeline", err)
		}
	},
}
