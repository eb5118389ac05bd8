package sqlitestore

import (
	"database/sql"
	"fmt"
)

// migrations are applied in order when the store is opened. Keep statements
// idempotent; there is no version table for a single-file deployment.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS weddings (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		title TEXT NOT NULL,
		story TEXT NOT NULL DEFAULT '',
		event_date TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		cover_image_ref TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'active',
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_weddings_owner ON weddings (owner_id)`,
	`CREATE TABLE IF NOT EXISTS gifts (
		id TEXT PRIMARY KEY,
		wedding_id TEXT NOT NULL REFERENCES weddings (id),
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		target_minor INTEGER NOT NULL CHECK (target_minor > 0),
		currency TEXT NOT NULL,
		image_ref TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'active',
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_gifts_wedding ON gifts (wedding_id)`,
	`CREATE TABLE IF NOT EXISTS contributions (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		gift_id TEXT NOT NULL REFERENCES gifts (id),
		contributor_name TEXT NOT NULL,
		amount_minor INTEGER NOT NULL CHECK (amount_minor > 0),
		currency TEXT NOT NULL,
		message TEXT NOT NULL DEFAULT '',
		country TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_contributions_gift ON contributions (gift_id, seq)`,
}

func runMigrations(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	return nil
}
