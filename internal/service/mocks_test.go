package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"yt-dashboard/internal/cache"
	"yt-dashboard/internal/domain"
)

// mockViewStateRepository is an in-memory ViewStateRepository. Like
// database/sql it refuses work on a cancelled context.
type mockViewStateRepository struct {
	mu      sync.Mutex
	states  map[string]*domain.ViewState
	saves   int
	saveErr error
}

func newMockViewStateRepository() *mockViewStateRepository {
	return &mockViewStateRepository{states: make(map[string]*domain.ViewState)}
}

func (m *mockViewStateRepository) Get(ctx context.Context, sessionID string) (*domain.ViewState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.states[sessionID]
	if !ok {
		return nil, fmt.Errorf("view state %s: %w", sessionID, domain.ErrNotFound)
	}
	return state.Clone(), nil
}

func (m *mockViewStateRepository) Save(ctx context.Context, sessionID string, state *domain.ViewState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.states[sessionID] = state.Clone()
	return nil
}

func (m *mockViewStateRepository) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, sessionID)
	return nil
}

func (m *mockViewStateRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, s := range m.states {
		if s.UpdatedAt.Before(cutoff) {
			delete(m.states, id)
			n++
		}
	}
	return n, nil
}

// errUnauthorized is what the adapter returns for a 401
var errUnauthorized = fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, domain.ErrUnauthorized)

// mockBackend is a scriptable domain.Backend
type mockBackend struct {
	mu sync.Mutex

	authenticated bool
	channel       *domain.ChannelInfo
	videos        *domain.VideosResponse
	stats         map[string]*domain.VideoStatsResponse
	summaries     map[string]*domain.AISummary
	summaryErr    error
	// onSummary runs inside GetVideoSummary before it answers
	onSummary func()

	probes int
	calls  []string
}

func newMockBackend() *mockBackend {
	return &mockBackend{
		stats:     make(map[string]*domain.VideoStatsResponse),
		summaries: make(map[string]*domain.AISummary),
	}
}

func (m *mockBackend) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *mockBackend) setAuthenticated(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authenticated = v
}

func (m *mockBackend) CheckSession(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.probes++
	return m.authenticated
}

func (m *mockBackend) AuthURL() string {
	return "http://backend.test/auth"
}

func (m *mockBackend) GetChannelInfo(ctx context.Context) (*domain.ChannelInfo, error) {
	m.record("channel-info")
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.authenticated {
		return nil, errUnauthorized
	}
	if m.channel == nil {
		return nil, fmt.Errorf("status 404: %w", domain.ErrBackendUnavailable)
	}
	return m.channel, nil
}

func (m *mockBackend) GetMyVideos(ctx context.Context) (*domain.VideosResponse, error) {
	m.record("my-videos")
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.authenticated {
		return nil, errUnauthorized
	}
	if m.videos == nil {
		return nil, fmt.Errorf("status 404: %w", domain.ErrBackendUnavailable)
	}
	return m.videos, nil
}

func (m *mockBackend) GetVideoStats(ctx context.Context, videoID string) (*domain.VideoStatsResponse, error) {
	m.record("video-stats/" + videoID)
	m.mu.Lock()
	defer m.mu.Unlock()
	stats, ok := m.stats[videoID]
	if !ok {
		return nil, fmt.Errorf("status 404: %w", domain.ErrBackendUnavailable)
	}
	return stats, nil
}

func (m *mockBackend) GetVideoSummary(ctx context.Context, videoID string) (*domain.AISummary, error) {
	m.record("video-summary/" + videoID)
	if m.onSummary != nil {
		m.onSummary()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.summaryErr != nil {
		return nil, m.summaryErr
	}
	summary, ok := m.summaries[videoID]
	if !ok {
		return nil, fmt.Errorf("status 500: %w", domain.ErrBackendUnavailable)
	}
	return summary, nil
}

// mockWatcher records Watch calls and reports at most one active watcher per session
type mockWatcher struct {
	mu       sync.Mutex
	watching map[string]bool
	started  int
}

func (m *mockWatcher) Watch(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.watching == nil {
		m.watching = make(map[string]bool)
	}
	if m.watching[sessionID] {
		return false
	}
	m.watching[sessionID] = true
	m.started++
	return true
}

func newTestStore(t *testing.T, repo *mockViewStateRepository) *StateStore {
	t.Helper()
	c, err := cache.New[*domain.ViewState](16, time.Hour)
	if err != nil {
		t.Fatalf("cache.New() failed: %v", err)
	}
	return NewStateStore(repo, c)
}

func sampleChannel() *domain.ChannelInfo {
	return &domain.ChannelInfo{Items: []domain.Channel{{
		ID:         "UC123",
		Snippet:    domain.ChannelSnippet{Title: "My Channel"},
		Statistics: domain.ChannelStatistics{SubscriberCount: "12345", ViewCount: "999", VideoCount: "2"},
	}}}
}

func sampleVideos() *domain.VideosResponse {
	return &domain.VideosResponse{Items: []domain.Video{
		{Snippet: domain.VideoSnippet{Title: "Video A", ResourceID: domain.ResourceID{VideoID: "A"}}},
		{Snippet: domain.VideoSnippet{Title: "Video B", ResourceID: domain.ResourceID{VideoID: "B"}}},
	}}
}

func sampleStats(id string) *domain.VideoStatsResponse {
	return &domain.VideoStatsResponse{Items: []domain.VideoItem{{
		ID:         id,
		Snippet:    domain.VideoItemSnippet{Title: "Video " + id},
		Statistics: domain.VideoStatistics{ViewCount: "1000", LikeCount: "50", CommentCount: "5"},
	}}}
}
