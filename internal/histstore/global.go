package histstore

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/pytyped/typescore/internal/contract"
	"github.com/pytyped/typescore/schema"
)

// Global store instance for main logic.
var (
	store     contract.HistoryStore
	storeMu   sync.RWMutex
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetDBFilePath returns the path to the SQLite DB file for history storage.
func GetDBFilePath() string {
	return contract.GetHistoryDBFilePath()
}

// InitHistory initializes the global history store.
// backend can be NoneBackend to disable persistence entirely.
func InitHistory(tableName string, backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		// This function body runs exactly once, even with concurrent calls.
		hs, err := NewHistoryStore(tableName, backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize history store: %w", err)
			return
		}

		storeMu.Lock()
		store = hs
		storeMu.Unlock()
	})

	// After once.Do, initErr will contain any error from the initialization block.
	return initErr
}

// GetStore returns the global history store, or nil if none was initialized.
func GetStore() contract.HistoryStore {
	storeMu.RLock()
	defer storeMu.RUnlock()
	return store
}

// CloseHistory should be called on application shutdown.
func CloseHistory() { // called in main defer
	closeOnce.Do(func() {
		storeMu.Lock()
		defer storeMu.Unlock()
		if store != nil {
			_ = store.Close()
		}
	})
}

// ClearHistory clears the score history for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the table.
// For NoneBackend, it does nothing.
func ClearHistory(backend schema.DatabaseBackend, dbFilePath, connStr, tableName string) error {
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

	case schema.MySQLBackend:
		return clearSQLTable("mysql", connStr, tableName)

	case schema.PostgreSQLBackend:
		return clearSQLTable("pgx", connStr, tableName)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported history backend for clearing: %s", backend)
	}
}

// clearSQLTable connects to the SQL database and drops the table if it exists.
func clearSQLTable(driverName, connStr, tableName string) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", tableName)
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}

	return nil
}
