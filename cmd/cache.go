package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/udithaR/Alitheia-Core/internal/contract"
	"github.com/udithaR/Alitheia-Core/internal/ledger"
	"github.com/udithaR/Alitheia-Core/schema"
)

// cacheSetup loads the minimal configuration needed to clear the diff cache.
func cacheSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	if backend == "" {
		backend = schema.NoneBackend
	}
	connStr := viper.GetString("cache-db-connect")

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr
	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheCmd focused on diff cache management.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the diff cache (improves performance)",
	Long: `Manage the cache of per-file diffs used for line attribution.

Diffs of a commit never change, so caching them makes re-running a project
after a cleanup much faster. The cache is disabled unless --cache-backend is
set.

Supported backends: SQLite, MySQL, PostgreSQL, or None (default)

Subcommands:
  status - Show cache statistics and connection info
  clear  - Remove all cached diffs

Examples:
  # Check cache status
  contrib cache status --cache-backend sqlite

  # Clear the cache
  contrib cache clear --cache-backend sqlite`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached diffs",
	Long: `Delete all cached diffs from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache table

Examples:
  contrib cache clear --cache-backend sqlite

  # Clear MySQL cache (set connection string via env variable)
  CONTRIB_CACHE_BACKEND=mysql CONTRIB_CACHE_DB_CONNECT="..." contrib cache clear`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		dbPath := sqlitePath(cfg.CacheDBConnect, contract.GetCacheDBFilePath())
		if err := ledger.ClearDiffCache(cfg.CacheBackend, dbPath, cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show detailed information about the diff cache.

Displays:
- Backend type and connection status
- Total number of cached diffs
- Last and oldest cache entry timestamps
- Cache database size

Examples:
  contrib cache status --cache-backend sqlite`,
	PreRunE: ledgerSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := ledgerManager.GetDiffCache().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		ledger.PrintCacheStatus(status)
	},
}
