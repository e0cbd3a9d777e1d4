package database

import (
	"database/sql"
	"fmt"
)

// Open connects to Postgres and makes sure the collection tables exist.
// Each collection is a table of (id, doc) rows; merge logic stays in-process
// per the whole-collection store contract.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS leads (
			lead_id TEXT PRIMARY KEY,
			position INT NOT NULL,
			doc JSONB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS calls (
			call_id TEXT PRIMARY KEY,
			position INT NOT NULL,
			doc JSONB NOT NULL
		);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return db, nil
}
