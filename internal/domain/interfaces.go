package domain

import "context"

// Backend abstracts the HTTP collaborator that owns OAuth, the YouTube Data
// API and the summarisation engine. Every method issues exactly one GET.
type Backend interface {
	// CheckSession reports whether the backend holds a valid session.
	// Any failure means "not authenticated"; it never returns an error.
	CheckSession(ctx context.Context) bool

	// AuthURL is the address the browser opens to start the OAuth flow
	AuthURL() string

	GetChannelInfo(ctx context.Context) (*ChannelInfo, error)
	GetMyVideos(ctx context.Context) (*VideosResponse, error)
	GetVideoStats(ctx context.Context, videoID string) (*VideoStatsResponse, error)
	GetVideoSummary(ctx context.Context, videoID string) (*AISummary, error)
}

// DashboardService runs the dashboard operations for one browser session.
// Fetch operations never return backend failures: those are folded into the
// view state (loading flag reset, optional alert). Returned errors are input
// or storage errors only.
type DashboardService interface {
	// State returns the session's view state for rendering and consumes any
	// pending alert, probing the backend first if the session was never probed
	State(ctx context.Context, sessionID string) (*ViewState, error)

	// Snapshot returns the view state without side effects
	Snapshot(ctx context.Context, sessionID string) (*ViewState, error)

	// Authenticate starts watching for a completed OAuth flow and returns the
	// URL the browser should open
	Authenticate(ctx context.Context, sessionID string) (string, error)

	ShowHome(ctx context.Context, sessionID string) error
	FetchChannelInfo(ctx context.Context, sessionID string) error
	FetchVideos(ctx context.Context, sessionID string) error
	FetchVideoStats(ctx context.Context, sessionID, videoID string) error
	GenerateSummary(ctx context.Context, sessionID, videoID string) error
	CloseModal(ctx context.Context, sessionID string) error
}
