package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"yt-dashboard/internal/domain"
	"yt-dashboard/internal/logger"

	"github.com/pkg/errors"
)

// BackendAdapter implements domain.Backend over HTTP/JSON
type BackendAdapter struct {
	baseURL     string
	sessionPath string
	httpClient  *http.Client
	logger      *logger.Logger
}

// NewBackendAdapter creates a client for the backend at baseURL. sessionPath
// is the endpoint used to check session validity; its body is discarded.
func NewBackendAdapter(baseURL, sessionPath string, timeout time.Duration) *BackendAdapter {
	if sessionPath == "" {
		sessionPath = "/channel-info"
	}
	if !strings.HasPrefix(sessionPath, "/") {
		sessionPath = "/" + sessionPath
	}
	return &BackendAdapter{
		baseURL:     strings.TrimRight(baseURL, "/"),
		sessionPath: sessionPath,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.GetGlobalLogger(),
	}
}

// AuthURL returns the backend endpoint that starts the OAuth flow
func (b *BackendAdapter) AuthURL() string {
	return b.baseURL + "/auth"
}

// CheckSession probes the session endpoint. A 2xx response with a non-empty
// body counts as authenticated; everything else, including 401, 404 and
// connection errors, counts as logged out.
func (b *BackendAdapter) CheckSession(ctx context.Context) bool {
	body, err := b.get(ctx, b.sessionPath)
	if err != nil {
		b.logger.Debug("Backend session check failed", map[string]interface{}{
			"path":  b.sessionPath,
			"error": err.Error(),
		})
		return false
	}
	trimmed := strings.TrimSpace(string(body))
	return trimmed != "" && trimmed != "null"
}

// GetChannelInfo fetches the caller's channel data
func (b *BackendAdapter) GetChannelInfo(ctx context.Context) (*domain.ChannelInfo, error) {
	var info domain.ChannelInfo
	if err := b.getJSON(ctx, "/channel-info", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetMyVideos fetches the caller's uploaded videos
func (b *BackendAdapter) GetMyVideos(ctx context.Context) (*domain.VideosResponse, error) {
	var videos domain.VideosResponse
	if err := b.getJSON(ctx, "/my-videos", &videos); err != nil {
		return nil, err
	}
	return &videos, nil
}

// GetVideoStats fetches statistics for one video
func (b *BackendAdapter) GetVideoStats(ctx context.Context, videoID string) (*domain.VideoStatsResponse, error) {
	if videoID == "" {
		return nil, fmt.Errorf("video id is required: %w", domain.ErrInvalidInput)
	}
	var stats domain.VideoStatsResponse
	if err := b.getJSON(ctx, "/video-stats/"+url.PathEscape(videoID), &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetVideoSummary asks the backend to generate a summary for one video
func (b *BackendAdapter) GetVideoSummary(ctx context.Context, videoID string) (*domain.AISummary, error) {
	if videoID == "" {
		return nil, fmt.Errorf("video id is required: %w", domain.ErrInvalidInput)
	}
	var summary domain.AISummary
	if err := b.getJSON(ctx, "/video-summary/"+url.PathEscape(videoID), &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (b *BackendAdapter) getJSON(ctx context.Context, path string, out interface{}) error {
	body, err := b.get(ctx, path)
	if err != nil {
		b.logger.Error("Backend request failed", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		b.logger.Error("Backend response could not be decoded", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return unavailable(errors.Wrapf(err, "decode %s", path))
	}
	return nil
}

// unavailable marks cause as a backend failure while keeping it in the chain
func unavailable(cause error) error {
	return fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, cause)
}

// get issues one GET and returns the body of a 2xx response. Any other
// outcome wraps domain.ErrBackendUnavailable; a 401 also wraps
// domain.ErrUnauthorized.
func (b *BackendAdapter) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+path, nil)
	if err != nil {
		return nil, unavailable(errors.Wrapf(err, "build request %s", path))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, unavailable(errors.Wrapf(err, "GET %s", path))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, unavailable(errors.Wrapf(err, "read %s", path))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b.logger.Warn("Backend returned non-2xx status", map[string]interface{}{
			"path":        path,
			"status_code": resp.StatusCode,
		})
		cause := errors.Errorf("GET %s: status %d", path, resp.StatusCode)
		if resp.StatusCode == http.StatusUnauthorized {
			cause = fmt.Errorf("%w: %w", domain.ErrUnauthorized, cause)
		}
		return nil, unavailable(cause)
	}

	return body, nil
}
