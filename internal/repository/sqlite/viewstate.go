package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"yt-dashboard/internal/domain"
)

// ViewStateRepository implements repository.ViewStateRepository for SQLite.
// The state is stored as a JSON document per session.
type ViewStateRepository struct {
	db *DB
}

// NewViewStateRepository creates a new ViewStateRepository
func NewViewStateRepository(db *DB) *ViewStateRepository {
	return &ViewStateRepository{db: db}
}

// Get retrieves the view state of a session
func (r *ViewStateRepository) Get(ctx context.Context, sessionID string) (*domain.ViewState, error) {
	var raw string
	err := r.db.QueryRowContext(ctx,
		"SELECT state FROM view_states WHERE session_id = ?",
		sessionID,
	).Scan(&raw)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("view state %s: %w", sessionID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query view state: %w", err)
	}

	var state domain.ViewState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("failed to decode view state %s: %w", sessionID, err)
	}
	return &state, nil
}

// Save inserts or replaces the view state of a session
func (r *ViewStateRepository) Save(ctx context.Context, sessionID string, state *domain.ViewState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode view state: %w", err)
	}

	now := timeNow().UnixMilli()
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO view_states (session_id, state, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at
	`,
		sessionID,
		string(raw),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to save view state: %w", err)
	}
	return nil
}

// Delete removes the view state of a session
func (r *ViewStateRepository) Delete(ctx context.Context, sessionID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM view_states WHERE session_id = ?", sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete view state: %w", err)
	}
	return nil
}

// DeleteOlderThan removes sessions whose state was last saved before cutoff
func (r *ViewStateRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM view_states WHERE updated_at < ?", cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired view states: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted view states: %w", err)
	}
	return n, nil
}
