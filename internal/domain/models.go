package domain

import "time"

// Page identifies which dashboard page is displayed
type Page string

const (
	PageHome    Page = "home"
	PageChannel Page = "channel"
	PageVideos  Page = "videos"
)

// Valid reports whether p is one of the known pages
func (p Page) Valid() bool {
	switch p {
	case PageHome, PageChannel, PageVideos:
		return true
	}
	return false
}

// Thumbnail is a single thumbnail rendition
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// Thumbnails groups the renditions returned by the backend
type Thumbnails struct {
	Default Thumbnail `json:"default"`
	Medium  Thumbnail `json:"medium"`
	High    Thumbnail `json:"high"`
}

// PageInfo is the paging summary attached to list responses
type PageInfo struct {
	TotalResults   int `json:"totalResults"`
	ResultsPerPage int `json:"resultsPerPage"`
}

// ChannelSnippet holds the descriptive part of a channel
type ChannelSnippet struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CustomURL   string     `json:"customUrl,omitempty"`
	PublishedAt string     `json:"publishedAt"`
	Thumbnails  Thumbnails `json:"thumbnails"`
	Country     string     `json:"country,omitempty"`
}

// ChannelStatistics holds channel counters. Counts arrive as decimal strings.
type ChannelStatistics struct {
	ViewCount             string `json:"viewCount"`
	SubscriberCount       string `json:"subscriberCount"`
	HiddenSubscriberCount bool   `json:"hiddenSubscriberCount"`
	VideoCount            string `json:"videoCount"`
}

// RelatedPlaylists points at the channel's system playlists
type RelatedPlaylists struct {
	Likes   string `json:"likes"`
	Uploads string `json:"uploads"`
}

// ChannelContentDetails wraps the related playlists
type ChannelContentDetails struct {
	RelatedPlaylists RelatedPlaylists `json:"relatedPlaylists"`
}

// Channel is one YouTube channel resource
type Channel struct {
	Kind           string                 `json:"kind"`
	Etag           string                 `json:"etag"`
	ID             string                 `json:"id"`
	Snippet        ChannelSnippet         `json:"snippet"`
	ContentDetails *ChannelContentDetails `json:"contentDetails,omitempty"`
	Statistics     ChannelStatistics      `json:"statistics"`
}

// ChannelInfo is one page of channel metadata for the caller
type ChannelInfo struct {
	Kind     string    `json:"kind"`
	Etag     string    `json:"etag"`
	PageInfo PageInfo  `json:"pageInfo"`
	Items    []Channel `json:"items"`
}

// ResourceID identifies the video a playlist item refers to
type ResourceID struct {
	Kind    string `json:"kind"`
	VideoID string `json:"videoId"`
}

// VideoSnippet is the playlist-item snippet of an uploaded video
type VideoSnippet struct {
	PublishedAt  string     `json:"publishedAt"`
	ChannelID    string     `json:"channelId"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Thumbnails   Thumbnails `json:"thumbnails"`
	ChannelTitle string     `json:"channelTitle"`
	PlaylistID   string     `json:"playlistId,omitempty"`
	Position     *int       `json:"position,omitempty"`
	ResourceID   ResourceID `json:"resourceId"`
}

// Video is one uploaded video as returned by the uploads playlist
type Video struct {
	Kind    string       `json:"kind"`
	Etag    string       `json:"etag"`
	ID      string       `json:"id"`
	Snippet VideoSnippet `json:"snippet"`
}

// VideosResponse is one page of the caller's uploaded videos
type VideosResponse struct {
	Kind          string   `json:"kind"`
	Etag          string   `json:"etag"`
	NextPageToken string   `json:"nextPageToken,omitempty"`
	PrevPageToken string   `json:"prevPageToken,omitempty"`
	PageInfo      PageInfo `json:"pageInfo"`
	Items         []Video  `json:"items"`
}

// VideoStatistics holds per-video counters as decimal strings
type VideoStatistics struct {
	ViewCount     string `json:"viewCount"`
	LikeCount     string `json:"likeCount"`
	DislikeCount  string `json:"dislikeCount,omitempty"`
	FavoriteCount string `json:"favoriteCount"`
	CommentCount  string `json:"commentCount"`
}

// VideoItemSnippet is the full video snippet returned with statistics
type VideoItemSnippet struct {
	PublishedAt  string     `json:"publishedAt"`
	ChannelID    string     `json:"channelId"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Thumbnails   Thumbnails `json:"thumbnails"`
	ChannelTitle string     `json:"channelTitle"`
	Tags         []string   `json:"tags,omitempty"`
	CategoryID   string     `json:"categoryId"`
}

// VideoItem is a video resource with statistics
type VideoItem struct {
	Kind       string           `json:"kind"`
	Etag       string           `json:"etag"`
	ID         string           `json:"id"`
	Snippet    VideoItemSnippet `json:"snippet"`
	Statistics VideoStatistics  `json:"statistics"`
}

// VideoStatsResponse carries the stats for one selected video.
// Items is expected to hold exactly one entry.
type VideoStatsResponse struct {
	Kind     string      `json:"kind"`
	Etag     string      `json:"etag"`
	Items    []VideoItem `json:"items"`
	PageInfo PageInfo    `json:"pageInfo"`
}

// AISummary is the backend-generated synopsis of a video
type AISummary struct {
	Summary  string   `json:"summary"`
	Topics   []string `json:"topics"`
	Audience string   `json:"audience"`
}

// ModalMode describes what the video detail overlay currently shows
type ModalMode string

const (
	ModalClosed          ModalMode = "closed"
	ModalStats           ModalMode = "stats"
	ModalStatsAndSummary ModalMode = "stats_and_summary"
)

// ViewState is everything the dashboard renders for one browser session.
// Modal visibility is derived from Stats; there is no separate flag.
type ViewState struct {
	Authenticated bool                `json:"authenticated"`
	AuthPending   bool                `json:"auth_pending"`
	Probed        bool                `json:"probed"`
	Page          Page                `json:"page"`
	ChannelInfo   *ChannelInfo        `json:"channel_info,omitempty"`
	Videos        *VideosResponse     `json:"videos,omitempty"`
	Stats         *VideoStatsResponse `json:"stats,omitempty"`
	Summary       *AISummary          `json:"summary,omitempty"`
	Loading       bool                `json:"loading"`
	LoadingAI     bool                `json:"loading_ai"`
	Alert         string              `json:"alert,omitempty"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// NewViewState returns the state of a freshly mounted dashboard
func NewViewState() *ViewState {
	return &ViewState{Page: PageHome}
}

// ModalOpen reports whether the video detail overlay is shown
func (s *ViewState) ModalOpen() bool {
	return s.Stats != nil
}

// ModalMode reports what the overlay shows
func (s *ViewState) ModalMode() ModalMode {
	switch {
	case s.Stats == nil:
		return ModalClosed
	case s.Summary == nil:
		return ModalStats
	default:
		return ModalStatsAndSummary
	}
}

// Clone returns a copy whose top-level fields can be changed independently.
// Payload pointers are shared; payloads are never mutated in place.
func (s *ViewState) Clone() *ViewState {
	if s == nil {
		return NewViewState()
	}
	c := *s
	return &c
}
