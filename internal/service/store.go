package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"yt-dashboard/internal/cache"
	"yt-dashboard/internal/domain"
	"yt-dashboard/internal/repository"
	"yt-dashboard/internal/viewstate"
)

// StateStore loads and persists view states per dashboard session. Reads go
// through the cache; writes go to the repository first, then the cache.
// Every Apply holds the session's lock for its read-modify-write.
type StateStore struct {
	repo  repository.ViewStateRepository
	cache *cache.Cache[*domain.ViewState]

	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// NewStateStore creates a StateStore
func NewStateStore(repo repository.ViewStateRepository, c *cache.Cache[*domain.ViewState]) *StateStore {
	return &StateStore{
		repo:  repo,
		cache: c,
		locks: make(map[string]*sessionLock),
	}
}

// Load returns a copy of the session's view state. A session without a
// stored state starts from the initial state.
func (s *StateStore) Load(ctx context.Context, sessionID string) (*domain.ViewState, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id cannot be empty", domain.ErrInvalidInput)
	}
	if state, ok := s.cache.Get(sessionID); ok {
		return state.Clone(), nil
	}

	state, err := s.repo.Get(ctx, sessionID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewViewState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load view state: %w", err)
	}

	s.cache.Set(sessionID, state)
	return state.Clone(), nil
}

// Apply reduces events, in order, into the session's view state and persists
// the result
func (s *StateStore) Apply(ctx context.Context, sessionID string, events ...viewstate.Event) (*domain.ViewState, error) {
	return s.Update(ctx, sessionID, func(*domain.ViewState) []viewstate.Event {
		return events
	})
}

// Update is Apply with the events chosen from the current state while the
// session lock is held. Returning no events leaves the state untouched.
func (s *StateStore) Update(ctx context.Context, sessionID string, decide func(current *domain.ViewState) []viewstate.Event) (*domain.ViewState, error) {
	unlock := s.lock(sessionID)
	defer unlock()

	state, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	events := decide(state.Clone())
	if len(events) == 0 {
		return state, nil
	}
	for _, ev := range events {
		state = viewstate.Reduce(state, ev)
	}

	if err := s.repo.Save(ctx, sessionID, state); err != nil {
		s.cache.Delete(sessionID)
		return nil, err
	}
	s.cache.Set(sessionID, state)
	return state.Clone(), nil
}

// lock acquires the per-session mutex and returns its release func. Entries
// are removed from the map once nobody holds or waits for them.
func (s *StateStore) lock(sessionID string) func() {
	s.mu.Lock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		s.locks[sessionID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, sessionID)
		}
		s.mu.Unlock()
	}
}
