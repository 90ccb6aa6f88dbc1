// Package cmd defines the command-line interface for contrib.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/udithaR/Alitheia-Core/internal/contract"
	"github.com/udithaR/Alitheia-Core/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(mailCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(touchedCmd)
	rootCmd.AddCommand(weightsCmd)
	rootCmd.AddCommand(actionsCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(ledgerCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	weightsCmd.AddCommand(weightsRecalibrateCmd)

	// Add the ledger subcommands to the parent ledger command
	ledgerCmd.AddCommand(ledgerStatusCmd)
	ledgerCmd.AddCommand(ledgerClearCmd)
	ledgerCmd.AddCommand(ledgerExportCmd)
	ledgerCmd.AddCommand(ledgerMigrateCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("project", "p", "", "Project name (defaults to the repository directory name)")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().Int("oversized-commit-threshold", contract.DefaultOversizedCommitThreshold, "Changed files in one commit above which the commit counts as oversized")
	rootCmd.PersistentFlags().Int("calibration-interval", contract.DefaultCalibrationInterval, "Resources processed between two weight calibrations")
	rootCmd.PersistentFlags().String("score-mode", string(schema.FlatMode), "Scoring mode: flat or weighted")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("ledger-backend", string(schema.SQLiteBackend), "Ledger backend: sqlite or mysql or postgresql")
	rootCmd.PersistentFlags().String("ledger-db-connect", "", "Database connection string for the ledger (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.NoneBackend), "Diff cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for the diff cache (must differ from ledger-db-connect)")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Local flags shared by name across commands are bound to Viper in
	// bindLocalFlags once the executing command is known.
	runCmd.Flags().String("start", "", "Only classify commits after this date (ISO8601 or time ago)")
	runCmd.Flags().String("end", "", "Only classify commits before this date (ISO8601 or time ago)")
	runCmd.Flags().String("metrics-file", "", "Write Prometheus metrics of the run to this textfile")

	mailCmd.Flags().String("input", "", "Path to the mail archive (JSON)")
	mailCmd.Flags().String("metrics-file", "", "Write Prometheus metrics of the run to this textfile")

	cleanupCmd.Flags().String("input", "", "Mail archive whose messages and bugs are also purged")

	touchedCmd.Flags().String("category", "", "Resource category: C (commit), B (bug) or M (mail); inferred from the id when empty")

	// Bind all flags of ledgerMigrateCmd to Viper
	ledgerMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(ledgerMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding ledger migrate flags", err)
	}
}
