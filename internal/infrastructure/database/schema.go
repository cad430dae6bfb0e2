package database

import (
	"context"
	"fmt"
)

// schema defines the update history table.
//
// update_history stores one row per delivered entity update. Attributes
// are stored as a JSON document; created_at defaults to the insert time
// in UTC (RFC3339, matching the format used by pruning queries).
const schema = `
CREATE TABLE IF NOT EXISTS update_history (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    entity_id  TEXT NOT NULL,
    attributes TEXT NOT NULL,
    source     TEXT NOT NULL DEFAULT 'session',
    created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
);

CREATE INDEX IF NOT EXISTS idx_update_history_entity
    ON update_history (entity_id, created_at DESC);
`

// EnsureSchema creates the update history schema if it does not exist.
// Safe to call on every startup.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: If schema creation fails
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
