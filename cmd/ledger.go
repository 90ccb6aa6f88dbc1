package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/udithaR/Alitheia-Core/internal/contract"
	"github.com/udithaR/Alitheia-Core/internal/ledger"
	"github.com/udithaR/Alitheia-Core/schema"
)

// ledgerMinimalSetup loads the ledger backend without opening it. Clearing
// and migrating manage the schema themselves.
func ledgerMinimalSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("ledger-backend"))
	if backend == "" {
		backend = schema.SQLiteBackend
	}
	if backend == schema.NoneBackend {
		return fmt.Errorf("the ledger cannot use the %s backend", schema.NoneBackend)
	}
	connStr := viper.GetString("ledger-db-connect")

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.LedgerBackend = backend
	cfg.LedgerDBConnect = connStr
	return nil
}

// ledgerMinimalSetupWrapper wraps ledgerMinimalSetup to provide PreRunE.
func ledgerMinimalSetupWrapper(_ *cobra.Command, _ []string) error {
	return ledgerMinimalSetup()
}

// ledgerCmd focused on ledger management.
var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Manage the contribution ledger",
	Long: `Manage the ledger that stores contribution actions, weights, evaluation
marks and run history.

Supported backends: SQLite (default), MySQL, PostgreSQL

Subcommands:
  status  - Show ledger statistics and connection info
  export  - Export actions, weights and runs to Parquet
  clear   - Remove all ledger data
  migrate - Run database schema migrations

Examples:
  # Check ledger status
  contrib ledger status

  # Export for analysis in pandas/DuckDB
  contrib ledger export --output-file ledger.parquet`,
}

// ledgerStatusCmd shows ledger status.
var ledgerStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display ledger statistics and connection details",
	Long: `Show detailed information about the contribution ledger.

Displays:
- Backend type and connection status
- Number of developers, projects and runs
- Last and oldest run timestamps
- Row counts per table

Examples:
  contrib ledger status`,
	PreRunE: ledgerSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := ledgerManager.GetLedger().GetStatus(rootCtx)
		if err != nil {
			contract.LogFatal("Failed to get ledger status", err)
		}
		ledger.PrintLedgerStatus(status)
	},
}

// ledgerClearCmd removes the ledger.
var ledgerClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all contribution data",
	Long: `Delete every action, weight, evaluation mark and run of every project.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the ledger tables

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  contrib ledger export --output-file backup.parquet
  contrib ledger clear`,
	PreRunE: ledgerMinimalSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		dbPath := sqlitePath(cfg.LedgerDBConnect, contract.GetLedgerDBFilePath())
		if err := ledger.ClearLedger(cfg.LedgerBackend, dbPath, cfg.LedgerDBConnect); err != nil {
			contract.LogFatal("Failed to clear ledger", err)
		}
		fmt.Println("Ledger cleared successfully.")
	},
}

// ledgerExportCmd exports the ledger to Parquet.
var ledgerExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export actions, weights and runs to Parquet",
	Long: `Export the ledger to Parquet files for analytics tools.

Three files are written next to --output-file: actions, weights and runs.

Requires: --output-file parameter

Examples:
  contrib ledger export --output-file contrib.parquet`,
	PreRunE: ledgerSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := ledger.ExecuteLedgerExport(rootCtx, ledgerManager.GetLedger(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export ledger", err)
		}
	},
}

// ledgerMigrateCmd runs schema migrations.
var ledgerMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run ledger schema migrations",
	Long: `Apply or roll back the ledger schema migrations.

By default the schema is migrated to the latest version. Use --target-version
to migrate to a specific version, or 0 to roll back every migration.

Examples:
  # Migrate to latest
  contrib ledger migrate

  # Roll back everything
  contrib ledger migrate --target-version 0`,
	PreRunE: ledgerMinimalSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		summary, err := ledger.MigrateLedger(cfg.LedgerBackend, cfg.LedgerDBConnect, viper.GetInt("target-version"))
		if err != nil {
			contract.LogFatal("Failed to migrate ledger", err)
		}
		fmt.Println(summary)
	},
}
