// ABOUTME: Schema for the local record store
// ABOUTME: One generic records table keyed by table name, fields kept as JSON
package db

import (
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	id TEXT PRIMARY KEY,
	table_name TEXT NOT NULL,
	fields TEXT NOT NULL DEFAULT '{}',
	created_time DATETIME NOT NULL,
	updated_time DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_records_table ON records(table_name, created_time);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
