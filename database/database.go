package database

import (
	"database/sql"
	"fmt"
	"log"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// Querier abstracts *sql.DB / *sql.Tx for the raw query helpers
type Querier interface {
	QueryRow(query string, args ...interface{}) *sql.Row
	Query(query string, args ...interface{}) (*sql.Rows, error)
	Exec(query string, args ...interface{}) (sql.Result, error)
}

// InitDB opens the raw sqlite handle used by the order queries. the gorm
// layer shares the same file but owns its own tables.
func InitDB(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// enable write-ahead logging for better concurrency
	_, err = db.Exec("PRAGMA journal_mode=WAL;")
	if err != nil {
		log.Printf("warning: failed to set WAL mode: %v", err)
	}

	sqlStmt := `
	CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		kit_id TEXT NOT NULL,
		tier_id INTEGER NOT NULL,
		target_size INTEGER NOT NULL,
		customer_email TEXT NOT NULL,
		consent INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'placed',
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_orders_kit_id ON orders (kit_id);
	CREATE INDEX IF NOT EXISTS idx_orders_status ON orders (status);
	`
	if _, err = db.Exec(sqlStmt); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create orders schema: %w", err)
	}

	return db, nil
}
