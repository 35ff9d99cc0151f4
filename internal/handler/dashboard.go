package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"time"

	"yt-dashboard/internal/domain"
	"yt-dashboard/internal/logger"
	"yt-dashboard/internal/middleware"
)

// DashboardHandler serves the dashboard page and its actions. Every action is
// a POST that redirects back to GET / once the view state is updated.
type DashboardHandler struct {
	dashboardService domain.DashboardService
	templates        *template.Template
	refreshInterval  time.Duration
}

// NewDashboardHandler creates a new DashboardHandler. refreshInterval is how
// often the page reloads while a sign-in is pending.
func NewDashboardHandler(dashboardService domain.DashboardService, refreshInterval time.Duration) *DashboardHandler {
	if refreshInterval < time.Second {
		refreshInterval = time.Second
	}
	return &DashboardHandler{
		dashboardService: dashboardService,
		templates:        LoadTemplates(),
		refreshInterval:  refreshInterval,
	}
}

// RegisterRoutes adds the dashboard routes to mux
func (h *DashboardHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.HandleIndex)
	mux.HandleFunc("POST /home", h.HandleShowHome)
	mux.HandleFunc("POST /authenticate", h.HandleAuthenticate)
	mux.HandleFunc("POST /channel", h.HandleChannelInfo)
	mux.HandleFunc("POST /videos", h.HandleVideos)
	mux.HandleFunc("POST /videos/{id}/stats", h.HandleVideoStats)
	mux.HandleFunc("POST /videos/{id}/summary", h.HandleVideoSummary)
	mux.HandleFunc("POST /modal/close", h.HandleCloseModal)
	mux.HandleFunc("GET /api/state", h.HandleStateAPI)
	mux.HandleFunc("GET /healthz", h.HandleHealth)
}

// dashboardPage is the data passed to dashboard.html
type dashboardPage struct {
	State          *domain.ViewState
	RefreshSeconds int
}

// HandleIndex renders the dashboard for the session's current view state
// GET /
func (h *DashboardHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	state, err := h.dashboardService.State(r.Context(), sessionID)
	if err != nil {
		h.handleError(w, r, err, "Failed to load dashboard")
		return
	}

	data := dashboardPage{
		State:          state,
		RefreshSeconds: int(h.refreshInterval / time.Second),
	}

	// Render into a buffer so a template error does not leave a half-written page
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, "dashboard.html", data); err != nil {
		logger.GetGlobalLogger().WithContext(r.Context()).Error("Error rendering dashboard", map[string]interface{}{
			"error": err.Error(),
		})
		http.Error(w, "Failed to render dashboard", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	buf.WriteTo(w)
}

// HandleShowHome switches to the home page
// POST /home
func (h *DashboardHandler) HandleShowHome(w http.ResponseWriter, r *http.Request) {
	h.runAction(w, r, "Failed to show home page", h.dashboardService.ShowHome)
}

// HandleAuthenticate starts the sign-in watch and sends the browser to the
// backend's auth endpoint
// POST /authenticate
func (h *DashboardHandler) HandleAuthenticate(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	authURL, err := h.dashboardService.Authenticate(r.Context(), sessionID)
	if err != nil {
		h.handleError(w, r, err, "Failed to start authentication")
		return
	}

	http.Redirect(w, r, authURL, http.StatusSeeOther)
}

// HandleChannelInfo loads the channel page
// POST /channel
func (h *DashboardHandler) HandleChannelInfo(w http.ResponseWriter, r *http.Request) {
	h.runAction(w, r, "Failed to load channel info", h.dashboardService.FetchChannelInfo)
}

// HandleVideos loads the videos page
// POST /videos
func (h *DashboardHandler) HandleVideos(w http.ResponseWriter, r *http.Request) {
	h.runAction(w, r, "Failed to load videos", h.dashboardService.FetchVideos)
}

// HandleVideoStats opens the stats modal for a video
// POST /videos/{id}/stats
func (h *DashboardHandler) HandleVideoStats(w http.ResponseWriter, r *http.Request) {
	videoID := r.PathValue("id")
	h.runAction(w, r, "Failed to load video stats", func(ctx context.Context, sessionID string) error {
		return h.dashboardService.FetchVideoStats(ctx, sessionID, videoID)
	})
}

// HandleVideoSummary generates (or regenerates) the AI summary for a video
// POST /videos/{id}/summary
func (h *DashboardHandler) HandleVideoSummary(w http.ResponseWriter, r *http.Request) {
	videoID := r.PathValue("id")
	h.runAction(w, r, "Failed to generate summary", func(ctx context.Context, sessionID string) error {
		return h.dashboardService.GenerateSummary(ctx, sessionID, videoID)
	})
}

// HandleCloseModal closes the stats modal
// POST /modal/close
func (h *DashboardHandler) HandleCloseModal(w http.ResponseWriter, r *http.Request) {
	h.runAction(w, r, "Failed to close modal", h.dashboardService.CloseModal)
}

// HandleStateAPI returns the session's view state as JSON without consuming
// the alert
// GET /api/state
func (h *DashboardHandler) HandleStateAPI(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	state, err := h.dashboardService.Snapshot(r.Context(), sessionID)
	if err != nil {
		h.handleError(w, r, err, "Failed to load state")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(stateResponse{ViewState: state, ModalMode: state.ModalMode()}); err != nil {
		logger.GetGlobalLogger().WithContext(r.Context()).Error("Error encoding state", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// stateResponse adds the derived modal mode to the stored state
type stateResponse struct {
	*domain.ViewState
	ModalMode domain.ModalMode `json:"modal_mode"`
}

// HandleHealth reports liveness
// GET /healthz
func (h *DashboardHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

// runAction executes a dashboard action and redirects back to the page
func (h *DashboardHandler) runAction(w http.ResponseWriter, r *http.Request, failure string, action func(ctx context.Context, sessionID string) error) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	if err := action(r.Context(), sessionID); err != nil {
		h.handleError(w, r, err, failure)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *DashboardHandler) sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	sessionID := middleware.GetSessionID(r.Context())
	if sessionID == "" {
		http.Error(w, "Missing session", http.StatusBadRequest)
		return "", false
	}
	return sessionID, true
}

// handleError maps service errors to HTTP responses
func (h *DashboardHandler) handleError(w http.ResponseWriter, r *http.Request, err error, failure string) {
	var friendly *domain.UserFriendlyError
	switch {
	case errors.As(err, &friendly):
		http.Error(w, friendly.UserMessage, friendly.HTTPStatusCode)
	case errors.Is(err, domain.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		logger.GetGlobalLogger().WithContext(r.Context()).Error(failure, map[string]interface{}{
			"path":  r.URL.Path,
			"error": err.Error(),
		})
		http.Error(w, failure, http.StatusInternalServerError)
	}
}
