package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mmuslimabdulj/roomchat/internal/domain"
)

// UserGetter is the part of the user store identity resolution needs
type UserGetter interface {
	GetUser(ctx context.Context, id uint64) (*domain.User, error)
}

// IdentityProvider resolves an inbound request to the authenticated user.
// Bearer tokens (header or ?token=) take precedence over the session cookie.
type IdentityProvider struct {
	users    UserGetter
	sessions *SessionManager
	tokens   *TokenIssuer
}

// NewIdentityProvider wires the session and token sources to the user store
func NewIdentityProvider(users UserGetter, sessions *SessionManager, tokens *TokenIssuer) *IdentityProvider {
	return &IdentityProvider{users: users, sessions: sessions, tokens: tokens}
}

// Identify returns domain.ErrUnauthenticated when no valid identity is present
func (p *IdentityProvider) Identify(r *http.Request) (*domain.User, error) {
	userID, err := p.userID(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}

	user, err := p.users.GetUser(r.Context(), userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("%w: user %d no longer exists", domain.ErrUnauthenticated, userID)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (p *IdentityProvider) userID(r *http.Request) (uint64, error) {
	if token := bearerToken(r); token != "" {
		if p.tokens == nil {
			return 0, errors.New("token auth disabled")
		}
		return p.tokens.Verify(token)
	}
	if p.sessions == nil {
		return 0, errNoSession
	}
	return p.sessions.UserID(r)
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return r.URL.Query().Get("token")
}
