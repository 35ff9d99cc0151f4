package middleware

import (
	"context"
	"net/http"

	"yt-dashboard/internal/auth"
	"yt-dashboard/internal/logger"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// SessionIDKey is the context key for the dashboard session ID
	SessionIDKey ContextKey = "sessionID"
)

// SessionMiddleware attaches a dashboard session to every request
type SessionMiddleware struct {
	sessionManager *auth.SessionManager
}

// NewSessionMiddleware creates a new SessionMiddleware instance
func NewSessionMiddleware(sessionManager *auth.SessionManager) *SessionMiddleware {
	return &SessionMiddleware{
		sessionManager: sessionManager,
	}
}

// Session ensures the request carries a session cookie, issuing one when it
// does not, and stores the session ID in the request context
func (m *SessionMiddleware) Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID, fresh := m.sessionManager.EnsureSession(w, r)
		if fresh {
			logger.GetGlobalLogger().WithContext(r.Context()).Debug("Issued dashboard session", map[string]interface{}{
				"session_id": sessionID,
			})
		}

		ctx := context.WithValue(r.Context(), SessionIDKey, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSessionID retrieves the session ID from the request context
func GetSessionID(ctx context.Context) string {
	sessionID, ok := ctx.Value(SessionIDKey).(string)
	if !ok {
		return ""
	}
	return sessionID
}
