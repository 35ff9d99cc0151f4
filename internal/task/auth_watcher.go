package task

import (
	"context"
	"sync"
	"time"

	"yt-dashboard/internal/domain"
	"yt-dashboard/internal/logger"
	"yt-dashboard/internal/viewstate"
)

// StateApplier persists view transitions for a session
type StateApplier interface {
	Apply(ctx context.Context, sessionID string, events ...viewstate.Event) (*domain.ViewState, error)
}

// AuthWatcher polls the backend session probe after a user starts signing in.
// A session is marked authenticated as soon as the probe succeeds, or has its
// pending flag cleared when the timeout passes first.
type AuthWatcher struct {
	backend  domain.Backend
	states   StateApplier
	interval time.Duration
	timeout  time.Duration
	logger   *logger.Logger

	mu       sync.Mutex
	ctx      context.Context
	watching map[string]struct{}
	stopCh   chan struct{}
	stopped  bool
	wg       sync.WaitGroup
}

// NewAuthWatcher creates a new AuthWatcher instance
func NewAuthWatcher(backend domain.Backend, states StateApplier, interval, timeout time.Duration) *AuthWatcher {
	return &AuthWatcher{
		backend:  backend,
		states:   states,
		interval: interval,
		timeout:  timeout,
		logger:   logger.GetGlobalLogger(),
		ctx:      context.Background(),
		watching: make(map[string]struct{}),
		stopCh:   make(chan struct{}),
	}
}

// Start sets the parent context for watchers started afterwards
func (w *AuthWatcher) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ctx = ctx
}

// Stop ends all running watchers and waits for them to exit. Watch calls
// after Stop are ignored.
func (w *AuthWatcher) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	close(w.stopCh)
	w.mu.Unlock()

	w.wg.Wait()
}

// Watch starts polling for sessionID unless a watcher for it is running
func (w *AuthWatcher) Watch(sessionID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return false
	}
	if _, ok := w.watching[sessionID]; ok {
		return false
	}
	w.watching[sessionID] = struct{}{}

	w.wg.Add(1)
	go w.run(w.ctx, sessionID)
	return true
}

// Watching reports whether a watcher for sessionID is running
func (w *AuthWatcher) Watching(sessionID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.watching[sessionID]
	return ok
}

// run polls until the probe succeeds, the timeout passes or the watcher stops
func (w *AuthWatcher) run(ctx context.Context, sessionID string) {
	defer w.wg.Done()
	defer func() {
		w.mu.Lock()
		delete(w.watching, sessionID)
		w.mu.Unlock()
	}()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	deadline := time.NewTimer(w.timeout)
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-deadline.C:
			w.logger.Info("Sign-in not completed before timeout", map[string]interface{}{
				"session_id": sessionID,
				"timeout":    w.timeout.String(),
			})
			w.apply(ctx, sessionID, viewstate.AuthTimedOut)
			return
		case <-ticker.C:
			if w.backend.CheckSession(ctx) {
				w.logger.Info("Sign-in completed", map[string]interface{}{
					"session_id": sessionID,
				})
				w.apply(ctx, sessionID, viewstate.ProbeSucceeded)
				return
			}
		}
	}
}

func (w *AuthWatcher) apply(ctx context.Context, sessionID string, event viewstate.EventType) {
	if _, err := w.states.Apply(ctx, sessionID, viewstate.Event{Type: event}); err != nil {
		w.logger.Error("auth watcher: failed to update view state", map[string]interface{}{
			"session_id": sessionID,
			"event":      string(event),
			"error":      err.Error(),
		})
	}
}
