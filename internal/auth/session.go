package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
)

const (
	// SessionName is the cookie holding the login session
	SessionName = "roomchat_session"

	userIDKey = "user_id"
)

var errNoSession = errors.New("no user in session")

// SessionManager stores the logged-in user id in a signed cookie
type SessionManager struct {
	store *sessions.CookieStore
}

// NewSessionManager creates a cookie-backed session manager
func NewSessionManager(secret []byte, ttl time.Duration, secure bool) *SessionManager {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionManager{store: store}
}

// Login marks the session as belonging to userID
func (m *SessionManager) Login(w http.ResponseWriter, r *http.Request, userID uint64) error {
	sess, _ := m.store.Get(r, SessionName) // a decode error still yields a fresh session
	sess.Values[userIDKey] = userID
	return sess.Save(r, w)
}

// Logout clears the session cookie
func (m *SessionManager) Logout(w http.ResponseWriter, r *http.Request) error {
	sess, _ := m.store.Get(r, SessionName)
	delete(sess.Values, userIDKey)
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// UserID returns the user id stored in the request's session
func (m *SessionManager) UserID(r *http.Request) (uint64, error) {
	sess, err := m.store.Get(r, SessionName)
	if err != nil {
		return 0, err
	}
	id, ok := sess.Values[userIDKey].(uint64)
	if !ok || id == 0 {
		return 0, errNoSession
	}
	return id, nil
}
