// Package auth manages the dashboard session cookie. Signing in to YouTube
// happens on the backend; the dashboard only needs to tell browsers apart.
package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// ErrInvalidSession is returned for a missing or malformed session cookie
var ErrInvalidSession = errors.New("invalid session")

// SessionManager manages dashboard sessions with secure cookies.
// The cookie value is an opaque random id keying the server-side view state.
type SessionManager struct {
	cookieName   string // Name of the session cookie
	cookiePath   string // Cookie path (always "/")
	cookieDomain string // Cookie domain (empty for current domain)
	secure       bool   // Secure flag (true in production)
	httpOnly     bool   // HttpOnly flag (always true for security)
	maxAge       int    // Session lifetime in seconds
}

// NewSessionManager creates a new session manager with the specified configuration.
// Parameters:
//   - cookieName: Name for the session cookie
//   - secure: Whether to set the Secure flag (true in production)
//   - maxAge: Session lifetime in seconds
func NewSessionManager(cookieName string, secure bool, maxAge int) *SessionManager {
	return &SessionManager{
		cookieName: cookieName,
		cookiePath: "/",
		secure:     secure,
		httpOnly:   true,
		maxAge:     maxAge,
	}
}

// NewSessionID returns a fresh random session id
func NewSessionID() string {
	return uuid.New().String()
}

// SetSession sets a session cookie with the session ID
func (sm *SessionManager) SetSession(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sm.cookieName,
		Value:    sessionID,
		Path:     sm.cookiePath,
		Domain:   sm.cookieDomain,
		MaxAge:   sm.maxAge,
		Secure:   sm.secure,
		HttpOnly: sm.httpOnly,
		SameSite: http.SameSiteLaxMode,
	})
}

// GetSession retrieves the session ID from the session cookie. Values that
// are not ids issued by NewSessionID are rejected.
func (sm *SessionManager) GetSession(r *http.Request) (string, error) {
	cookie, err := r.Cookie(sm.cookieName)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	id, err := uuid.Parse(cookie.Value)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	return id.String(), nil
}

// EnsureSession returns the request's session ID, issuing a new cookie when
// the request carries none or an invalid one. fresh reports a new session.
func (sm *SessionManager) EnsureSession(w http.ResponseWriter, r *http.Request) (sessionID string, fresh bool) {
	if id, err := sm.GetSession(r); err == nil {
		return id, false
	}
	id := NewSessionID()
	sm.SetSession(w, id)
	return id, true
}
