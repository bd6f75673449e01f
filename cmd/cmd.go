// Package cmd defines the command-line interface for typescore.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pytyped/typescore/internal"
	"github.com/pytyped/typescore/internal/contract"
	"github.com/pytyped/typescore/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("channel", string(schema.ReleasedChannel), "Package channel: released or preview")
	rootCmd.PersistentFlags().String("catalog-url", "", "URL of the CSV package catalog")
	rootCmd.PersistentFlags().String("package-config-url", "", "URL template for per-package pyproject.toml lookups (one %s for the repo path)")
	rootCmd.PersistentFlags().String("feed-url", "", "Package feed API base URL (preview channel)")
	rootCmd.PersistentFlags().String("feed-name", "", "Feed name within the feed API (preview channel)")
	rootCmd.PersistentFlags().String("extra-index-url", "", "Extra package index passed to preview installs")
	rootCmd.PersistentFlags().String("python", contract.DefaultPythonPath, "Python interpreter that owns the shared workspace")
	rootCmd.PersistentFlags().String("pyright-pin", contract.DefaultPyrightPin, "Exact pyright spec appended to every install batch")
	rootCmd.PersistentFlags().String("history-backend", string(schema.SQLiteBackend), "History backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("history-table", "", "History table name (default per channel)")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("month", "", "Partition date (YYYY-MM-DD) for history queries")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		internal.FatalError("Error binding root flags", err)
	}

	// Bind all flags of runCmd to Viper
	runCmd.Flags().Bool("dry-run", false, "Stop after cache lookup and print the recompute plan")
	if err := viper.BindPFlags(runCmd.Flags()); err != nil {
		internal.FatalError("Error binding run flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		internal.FatalError("Error binding history migrate flags", err)
	}
}
