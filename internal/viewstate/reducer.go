// Package viewstate is the dashboard's state container. Every transition of
// the view is an Event applied by Reduce; nothing else mutates a ViewState.
package viewstate

import (
	"time"

	"yt-dashboard/internal/domain"
)

// EventType names a view transition
type EventType string

const (
	ProbeSucceeded   EventType = "probe_succeeded"
	ProbeFailed      EventType = "probe_failed"
	AuthStarted      EventType = "auth_started"
	AuthTimedOut     EventType = "auth_timed_out"
	NavigatedHome    EventType = "navigated_home"
	ChannelRequested EventType = "channel_requested"
	ChannelLoaded    EventType = "channel_loaded"
	ChannelFailed    EventType = "channel_failed"
	VideosRequested  EventType = "videos_requested"
	VideosLoaded     EventType = "videos_loaded"
	VideosFailed     EventType = "videos_failed"
	StatsRequested   EventType = "stats_requested"
	StatsLoaded      EventType = "stats_loaded"
	StatsFailed      EventType = "stats_failed"
	SummaryRequested EventType = "summary_requested"
	SummaryLoaded    EventType = "summary_loaded"
	SummaryFailed    EventType = "summary_failed"
	ModalClosed      EventType = "modal_closed"
	AlertShown       EventType = "alert_shown"
)

// Event is one transition plus the payload it carries, if any
type Event struct {
	Type        EventType
	ChannelInfo *domain.ChannelInfo
	Videos      *domain.VideosResponse
	Stats       *domain.VideoStatsResponse
	Summary     *domain.AISummary
}

// Reduce applies ev to a copy of s and returns the copy. Unknown events
// return the copy unchanged apart from UpdatedAt.
func Reduce(s *domain.ViewState, ev Event) *domain.ViewState {
	next := s.Clone()
	if !next.Page.Valid() {
		next.Page = domain.PageHome
	}

	switch ev.Type {
	case ProbeSucceeded:
		next.Probed = true
		next.Authenticated = true
		next.AuthPending = false
	case ProbeFailed:
		next.Probed = true
		next.Authenticated = false
	case AuthStarted:
		next.AuthPending = true
	case AuthTimedOut:
		next.AuthPending = false

	case NavigatedHome:
		next.Page = domain.PageHome

	case ChannelRequested, VideosRequested:
		next.Loading = true
	case ChannelLoaded:
		next.ChannelInfo = ev.ChannelInfo
		next.Page = domain.PageChannel
		next.Loading = false
	case VideosLoaded:
		next.Videos = ev.Videos
		next.Page = domain.PageVideos
		next.Loading = false
	case ChannelFailed, VideosFailed:
		next.Loading = false
		next.Alert = domain.AlertAuthenticateFirst

	case StatsRequested:
		// a new video's stats never shows the previous video's summary
		next.Loading = true
		next.Summary = nil
	case StatsLoaded:
		next.Stats = ev.Stats
		next.Loading = false
	case StatsFailed:
		next.Loading = false

	case SummaryRequested:
		next.LoadingAI = true
	case SummaryLoaded:
		next.Summary = ev.Summary
		next.LoadingAI = false
	case SummaryFailed:
		next.LoadingAI = false
		next.Alert = domain.AlertSummaryFailed

	case ModalClosed:
		next.Stats = nil
		next.Summary = nil
		next.LoadingAI = false

	case AlertShown:
		next.Alert = ""
	}

	next.UpdatedAt = timeNow()
	return next
}

// timeNow is a variable so tests can pin the clock
var timeNow = func() time.Time {
	return time.Now().UTC()
}
