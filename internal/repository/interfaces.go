package repository

import (
	"context"
	"time"

	"yt-dashboard/internal/domain"
)

// ViewStateRepository persists the dashboard view state of each browser session
type ViewStateRepository interface {
	// Get returns the stored state, or domain.ErrNotFound
	Get(ctx context.Context, sessionID string) (*domain.ViewState, error)
	// Save inserts or replaces the state for sessionID
	Save(ctx context.Context, sessionID string, state *domain.ViewState) error
	Delete(ctx context.Context, sessionID string) error
	// DeleteOlderThan removes sessions not updated since cutoff and reports how many
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
