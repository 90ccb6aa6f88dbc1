package ledger

import (
	"fmt"
	"os"
	"sync"

	"github.com/udithaR/Alitheia-Core/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &StoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitStorage initializes the global manager with the ledger and the diff cache.
// An empty cacheBackend leaves the diff cache disabled.
func InitStorage(ledgerBackend schema.DatabaseBackend, ledgerConnStr string, cacheBackend schema.DatabaseBackend, cacheConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		store, err := NewStore(ledgerBackend, ledgerConnStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize ledger: %w", err)
			return
		}

		if cacheBackend == "" {
			cacheBackend = schema.NoneBackend
		}
		cache, err := NewDiffCacheStore(diffCacheTable, cacheBackend, cacheConnStr)
		if err != nil {
			_ = store.Close()
			initErr = fmt.Errorf("failed to initialize diff cache: %w", err)
			return
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.ledger = store
		Manager.cache = cache
	})

	return initErr
}

// CloseStorage should be called on application shutdown.
func CloseStorage() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.ledger != nil {
			_ = Manager.ledger.Close()
		}
		if Manager.cache != nil {
			_ = Manager.cache.Close()
		}
	})
}

// ClearLedger removes every ledger table of the backend.
// For SQLite, it deletes the database file.
func ClearLedger(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearBackend(backend, dbFilePath, connStr, []string{runsTable, evaluationsTable, weightsTable, actionsTable, "schema_migrations"})
}

// ClearDiffCache removes the diff cache of the backend.
// For SQLite, it deletes the database file.
func ClearDiffCache(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearBackend(backend, dbFilePath, connStr, []string{diffCacheTable})
}

func clearBackend(backend schema.DatabaseBackend, dbFilePath, connStr string, tables []string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		return dropSQLTables(backend, connStr, tables)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported backend for clearing: %s", backend)
	}
}

// dropSQLTables connects to the SQL database and drops the tables if they exist.
func dropSQLTables(backend schema.DatabaseBackend, connStr string, tables []string) error {
	db, err := openDB(backend, connStr, "")
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	for _, table := range tables {
		if _, err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(table, backend))); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}
