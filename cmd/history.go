package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pytyped/typescore/core"
	"github.com/pytyped/typescore/internal"
	"github.com/pytyped/typescore/internal/contract"
	"github.com/pytyped/typescore/internal/histstore"
	"github.com/pytyped/typescore/internal/outwriter"
	"github.com/pytyped/typescore/schema"
)

// historySetup loads minimal configuration needed for history operations.
// This is used by commands that need store access without full shared setup.
func historySetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get history-related config values
	backend := schema.DatabaseBackend(viper.GetString("history-backend"))
	connStr := viper.GetString("history-db-connect")
	tableName := viper.GetString("history-table")
	if tableName == "" {
		tableName = contract.DefaultHistoryTable
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Initialize the store with the loaded config
	if err := histstore.InitHistory(tableName, backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize history store: %w", err)
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.HistoryTable = tableName
	cfg.Month = viper.GetString("month")
	cfg.ResultLimit = viper.GetInt("limit")
	cfg.Output = schema.OutputMode(viper.GetString("output"))
	cfg.OutputFile = viper.GetString("output-file")
	cfg.Width = viper.GetInt("width")
	useColors, err := contract.ParseBoolString(viper.GetString("color"))
	if err != nil {
		return fmt.Errorf("invalid color setting: %w", err)
	}
	cfg.UseColors = useColors

	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyMigrateSetup loads minimal configuration needed for migrate operations.
// This specialized setup does NOT initialize the store or create tables,
// allowing migrations to run on a fresh database.
func historyMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("history-backend"))
	connStr := viper.GetString("history-db-connect")

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = histstore.GetDBFilePath()
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr

	return nil
}

// historyMigrateSetupWrapper wraps historyMigrateSetup to provide PreRunE for the migrate command.
func historyMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return historyMigrateSetup()
}

// historyCmd focused on score history management.
//
// Note: History subcommands use minimal initialization (historySetup) instead
// of the full sharedSetup used by the run command. This avoids catalog and
// channel validation for simple history operations.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Query and manage the persisted score history",
	Long: `Query and manage the score history recorded by past runs.

Every run persists one entry per scored package, partitioned by run date.
This enables month-over-month comparisons and the cache reuse that keeps
recurring runs cheap.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Examples:
  # Show today's scores
  typescore history

  # Show a past partition as CSV
  typescore history --month 2026-07-01 --output csv`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHistoryQuery(cfg, histstore.GetStore(), outwriter.NewOutWriter()); err != nil {
			internal.FatalError("Cannot query history", err)
		}
	},
}

// historyStatusCmd shows history store status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display history statistics and connection details",
	Long: `Show detailed information about the score history store.

Displays:
- Backend type and connection status
- Total number of persisted entries
- Number of run partitions and the most recent one

Examples:
  # Check history status
  typescore history status`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHistoryStatus(histstore.GetStore(), outwriter.NewOutWriter()); err != nil {
			internal.FatalError("Failed to get history status", err)
		}
	},
}

// historyClearCmd clears the score history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all persisted score history",
	Long: `Delete all score history from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the history table

Examples:
  # Clear SQLite history (default)
  typescore history clear

  # Clear MySQL history (set connection string via env variable)
  TYPESCORE_HISTORY_BACKEND=mysql TYPESCORE_HISTORY_DB_CONNECT="..." typescore history clear`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		dbFilePath := cfg.HistoryDBConnect
		if dbFilePath == "" {
			dbFilePath = histstore.GetDBFilePath()
		}
		if err := histstore.ClearHistory(cfg.HistoryBackend, dbFilePath, cfg.HistoryDBConnect, cfg.HistoryTable); err != nil {
			internal.FatalError("Failed to clear history", err)
		}
		fmt.Println("History cleared successfully.")
	},
}

// historyExportCmd exports history to Parquet.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export score history to Parquet for analytics",
	Long: `Export all persisted score history to a Parquet file.

The exported file can be loaded into Spark, Pandas, DuckDB or any other
Parquet-compatible tool for longitudinal analysis.

Examples:
  # Export everything
  typescore history export --output-file scores`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := histstore.ExecuteHistoryExport(cfg.OutputFile); err != nil {
			internal.FatalError("Failed to export history", err)
		}
	},
}

// historyMigrateCmd runs schema migrations.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run history database schema migrations",
	Long: `Run schema migrations against the history database.

Migrations are embedded in the binary and applied with golang-migrate.

Examples:
  # Migrate to the latest schema version
  typescore history migrate

  # Roll back everything
  typescore history migrate --target-version 0`,
	PreRunE: historyMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := histstore.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			internal.FatalError("Failed to run migrations", err)
		}
	},
}
