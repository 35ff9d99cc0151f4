package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"yt-dashboard/internal/domain"
	"yt-dashboard/internal/logger"
	"yt-dashboard/internal/viewstate"
)

// AuthWatcher polls the backend for a completed sign-in on behalf of a session
type AuthWatcher interface {
	// Watch starts polling for sessionID and reports whether a new watcher
	// was started; false means one is already running
	Watch(sessionID string) bool
}

// dashboardService implements the DashboardService interface
type dashboardService struct {
	backend domain.Backend
	store   *StateStore
	watcher AuthWatcher
	logger  *logger.Logger
}

// NewDashboardService creates a new DashboardService instance. watcher may be
// nil, in which case Authenticate only marks the session as pending.
func NewDashboardService(backend domain.Backend, store *StateStore, watcher AuthWatcher) domain.DashboardService {
	return &dashboardService{
		backend: backend,
		store:   store,
		watcher: watcher,
		logger:  logger.GetGlobalLogger(),
	}
}

// State probes the backend session on every render, so an expired backend
// session shows the Authenticate control again, then returns the state to
// render. A pending alert is included in the returned state and cleared from
// the stored one.
func (s *dashboardService) State(ctx context.Context, sessionID string) (*domain.ViewState, error) {
	ev := viewstate.Event{Type: viewstate.ProbeFailed}
	if s.backend.CheckSession(ctx) {
		ev.Type = viewstate.ProbeSucceeded
	}
	state, err := s.store.Apply(ctx, sessionID, ev)
	if err != nil {
		return nil, err
	}

	if state.Alert == "" {
		return state, nil
	}

	alert := state.Alert
	consumed, err := s.store.Update(ctx, sessionID, func(current *domain.ViewState) []viewstate.Event {
		if current.Alert == "" {
			return nil
		}
		return []viewstate.Event{{Type: viewstate.AlertShown}}
	})
	if err != nil {
		return nil, err
	}
	consumed.Alert = alert
	return consumed, nil
}

// Snapshot returns the stored state as is
func (s *dashboardService) Snapshot(ctx context.Context, sessionID string) (*domain.ViewState, error) {
	return s.store.Load(ctx, sessionID)
}

// Authenticate marks the session as waiting for sign-in and returns the URL
// the browser opens to start it
func (s *dashboardService) Authenticate(ctx context.Context, sessionID string) (string, error) {
	if _, err := s.store.Apply(ctx, sessionID, viewstate.Event{Type: viewstate.AuthStarted}); err != nil {
		return "", err
	}

	if s.watcher != nil && !s.watcher.Watch(sessionID) {
		s.logger.WithContext(ctx).Debug("Auth watcher already running", map[string]interface{}{
			"session_id": sessionID,
		})
	}

	return s.backend.AuthURL(), nil
}

// ShowHome switches to the home page
func (s *dashboardService) ShowHome(ctx context.Context, sessionID string) error {
	_, err := s.store.Apply(ctx, sessionID, viewstate.Event{Type: viewstate.NavigatedHome})
	return err
}

// FetchChannelInfo loads the channel and switches to the channel page
func (s *dashboardService) FetchChannelInfo(ctx context.Context, sessionID string) error {
	if _, err := s.store.Apply(ctx, sessionID, viewstate.Event{Type: viewstate.ChannelRequested}); err != nil {
		return err
	}

	info, err := s.backend.GetChannelInfo(ctx)
	if err != nil {
		s.logFailure(ctx, "Error fetching channel info", sessionID, err)
		return s.settle(ctx, sessionID, err, viewstate.Event{Type: viewstate.ChannelFailed})
	}
	return s.settle(ctx, sessionID, nil, viewstate.Event{Type: viewstate.ChannelLoaded, ChannelInfo: info})
}

// FetchVideos loads the uploads list and switches to the videos page
func (s *dashboardService) FetchVideos(ctx context.Context, sessionID string) error {
	if _, err := s.store.Apply(ctx, sessionID, viewstate.Event{Type: viewstate.VideosRequested}); err != nil {
		return err
	}

	videos, err := s.backend.GetMyVideos(ctx)
	if err != nil {
		s.logFailure(ctx, "Error fetching videos", sessionID, err)
		return s.settle(ctx, sessionID, err, viewstate.Event{Type: viewstate.VideosFailed})
	}
	return s.settle(ctx, sessionID, nil, viewstate.Event{Type: viewstate.VideosLoaded, Videos: videos})
}

// FetchVideoStats loads one video's statistics, which opens the modal
func (s *dashboardService) FetchVideoStats(ctx context.Context, sessionID, videoID string) error {
	if err := validateVideoID(videoID); err != nil {
		return err
	}
	if _, err := s.store.Apply(ctx, sessionID, viewstate.Event{Type: viewstate.StatsRequested}); err != nil {
		return err
	}

	stats, err := s.backend.GetVideoStats(ctx, videoID)
	if err != nil {
		s.logFailure(ctx, "Error fetching video stats", sessionID, err)
		return s.settle(ctx, sessionID, err, viewstate.Event{Type: viewstate.StatsFailed})
	}
	return s.settle(ctx, sessionID, nil, viewstate.Event{Type: viewstate.StatsLoaded, Stats: stats})
}

// GenerateSummary requests an AI summary for a video. Calling it again
// replaces the previous summary.
func (s *dashboardService) GenerateSummary(ctx context.Context, sessionID, videoID string) error {
	if err := validateVideoID(videoID); err != nil {
		return err
	}
	if _, err := s.store.Apply(ctx, sessionID, viewstate.Event{Type: viewstate.SummaryRequested}); err != nil {
		return err
	}

	summary, err := s.backend.GetVideoSummary(ctx, videoID)
	if err != nil {
		s.logFailure(ctx, "Error generating AI summary", sessionID, err)
		return s.settle(ctx, sessionID, err, viewstate.Event{Type: viewstate.SummaryFailed})
	}
	return s.settle(ctx, sessionID, nil, viewstate.Event{Type: viewstate.SummaryLoaded, Summary: summary})
}

// CloseModal hides the modal and drops its stats and summary
func (s *dashboardService) CloseModal(ctx context.Context, sessionID string) error {
	return s.apply(ctx, sessionID, viewstate.Event{Type: viewstate.ModalClosed})
}

func (s *dashboardService) apply(ctx context.Context, sessionID string, ev viewstate.Event) error {
	_, err := s.store.Apply(ctx, sessionID, ev)
	return err
}

// settle applies the outcome of a backend call. It runs detached from the
// request context so a client that disconnects mid-call still gets its
// loading flag reset. A 401 also marks the session as logged out.
func (s *dashboardService) settle(ctx context.Context, sessionID string, backendErr error, outcome viewstate.Event) error {
	events := []viewstate.Event{outcome}
	if errors.Is(backendErr, domain.ErrUnauthorized) {
		events = append(events, viewstate.Event{Type: viewstate.ProbeFailed})
	}
	_, err := s.store.Apply(context.WithoutCancel(ctx), sessionID, events...)
	return err
}

func (s *dashboardService) logFailure(ctx context.Context, msg, sessionID string, err error) {
	s.logger.WithContext(ctx).Error(msg, map[string]interface{}{
		"session_id": sessionID,
		"error":      err.Error(),
	})
}

// validateVideoID rejects ids that cannot name a single backend path segment
func validateVideoID(videoID string) error {
	if strings.TrimSpace(videoID) == "" {
		return domain.NewUserFriendlyError(
			fmt.Errorf("%w: video id cannot be empty", domain.ErrInvalidInput),
			"Invalid video id", http.StatusBadRequest)
	}
	if strings.Contains(videoID, "/") {
		return domain.NewUserFriendlyError(
			fmt.Errorf("%w: video id cannot contain '/'", domain.ErrInvalidInput),
			"Invalid video id", http.StatusBadRequest)
	}
	return nil
}
