package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nerrad567/avr-driver/internal/entity"
)

// Query limits for history reads.
const (
	defaultLimit = 50
	maxLimit     = 200
)

// Record is one stored entity update.
type Record struct {
	ID         int64
	EntityID   string
	Attributes entity.Attributes
	Source     string
	CreatedAt  string
}

// Repository stores and queries delivered entity updates in SQLite.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a history repository.
//
// Parameters:
//   - db: Open database handle with the update history schema applied
//
// Returns:
//   - *Repository: Ready for use
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Record stores one delivered entity update.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - entityID: Entity the attributes belong to
//   - attrs: Attribute map, stored as JSON
//   - source: Origin of the update ("session", "retry")
//
// Returns:
//   - error: If marshalling or the insert fails
func (r *Repository) Record(ctx context.Context, entityID string, attrs entity.Attributes, source string) error {
	payload, err := json.Marshal(attrs)
	if err != nil {
		return fmt.Errorf("marshalling attributes: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO update_history (entity_id, attributes, source) VALUES (?, ?, ?)`,
		entityID, string(payload), source,
	)
	if err != nil {
		return fmt.Errorf("recording update: %w", err)
	}
	return nil
}

// GetHistory returns the most recent updates for one entity, newest
// first.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - entityID: Entity to query
//   - limit: Maximum rows; 0 selects the default (50), capped at 200
//
// Returns:
//   - []Record: Stored updates, newest first
//   - error: If the query fails
func (r *Repository) GetHistory(ctx context.Context, entityID string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, entity_id, attributes, source, created_at
		 FROM update_history
		 WHERE entity_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		entityID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only rows, nothing to recover

	var records []Record
	for rows.Next() {
		var rec Record
		var attrs string
		if err := rows.Scan(&rec.ID, &rec.EntityID, &attrs, &rec.Source, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		if err := json.Unmarshal([]byte(attrs), &rec.Attributes); err != nil {
			return nil, fmt.Errorf("unmarshalling attributes for row %d: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history rows: %w", err)
	}
	return records, nil
}

// Prune deletes updates older than the retention window.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - olderThan: Retention window relative to now
//
// Returns:
//   - int64: Rows deleted
//   - error: If the delete fails
func (r *Repository) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan).Format("2006-01-02T15:04:05Z")

	result, err := r.db.ExecContext(ctx,
		`DELETE FROM update_history WHERE created_at < ?`, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("pruning history: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting pruned rows: %w", err)
	}
	return deleted, nil
}
