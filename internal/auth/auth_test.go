package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mmuslimabdulj/roomchat/internal/domain"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestPassword_RoundTrip(t *testing.T) {
	req := require.New(t)

	hash, err := HashPassword("correct horse battery")
	req.NoError(err)
	req.True(strings.HasPrefix(hash, "$argon2id$v=19$"))

	ok, err := ComparePassword("correct horse battery", hash)
	req.NoError(err)
	req.True(ok)

	ok, err = ComparePassword("wrong", hash)
	req.NoError(err)
	req.False(ok)
}

func TestPassword_SaltedHashesDiffer(t *testing.T) {
	a, err := HashPassword("secret-password")
	require.NoError(t, err)
	b, err := HashPassword("secret-password")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestComparePassword_InvalidHash(t *testing.T) {
	for _, h := range []string{"", "plain", "$bcrypt$v=1$m=1,t=1,p=1$aa$bb", "$argon2id$v=x$m=1,t=1,p=1$aa$bb"} {
		ok, err := ComparePassword("x", h)
		require.Error(t, err, h)
		require.False(t, ok)
	}
}

func TestTokenIssuer(t *testing.T) {
	req := require.New(t)
	issuer := NewTokenIssuer(testSecret, time.Hour)

	token, err := issuer.Issue(7, "alice")
	req.NoError(err)

	id, err := issuer.Verify(token)
	req.NoError(err)
	req.Equal(uint64(7), id)

	_, err = NewTokenIssuer([]byte("another-secret-another-secret-xx"), time.Hour).Verify(token)
	req.Error(err)

	_, err = issuer.Verify("garbage")
	req.Error(err)
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Minute)
	issuer.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, err := issuer.Issue(1, "alice")
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Verify(token)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestSessionManager_LoginLogout(t *testing.T) {
	req := require.New(t)
	m := NewSessionManager(testSecret, time.Hour, false)

	rec := httptest.NewRecorder()
	req.NoError(m.Login(rec, httptest.NewRequest(http.MethodPost, "/login", nil), 42))
	cookies := rec.Result().Cookies()
	req.Len(cookies, 1)
	req.Equal(SessionName, cookies[0].Name)
	req.True(cookies[0].HttpOnly)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookies[0])
	id, err := m.UserID(r)
	req.NoError(err)
	req.Equal(uint64(42), id)

	rec = httptest.NewRecorder()
	req.NoError(m.Logout(rec, r))
	out := rec.Result().Cookies()
	req.Len(out, 1)
	req.Negative(out[0].MaxAge)

	_, err = m.UserID(httptest.NewRequest(http.MethodGet, "/", nil))
	req.Error(err)
}

func TestSessionManager_TamperedCookie(t *testing.T) {
	m := NewSessionManager(testSecret, time.Hour, false)
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: SessionName, Value: "forged"})

	_, err := m.UserID(r)
	require.Error(t, err)
}

type fakeUsers map[uint64]*domain.User

func (f fakeUsers) GetUser(_ context.Context, id uint64) (*domain.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func TestIdentityProvider(t *testing.T) {
	users := fakeUsers{1: {ID: 1, Username: "alice"}}
	sessions := NewSessionManager(testSecret, time.Hour, false)
	tokens := NewTokenIssuer(testSecret, time.Hour)
	provider := NewIdentityProvider(users, sessions, tokens)

	sessionCookie := func(id uint64) *http.Cookie {
		rec := httptest.NewRecorder()
		require.NoError(t, sessions.Login(rec, httptest.NewRequest(http.MethodGet, "/", nil), id))
		return rec.Result().Cookies()[0]
	}
	token := func(id uint64) string {
		tok, err := tokens.Issue(id, "x")
		require.NoError(t, err)
		return tok
	}

	t.Run("session cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/ws", nil)
		r.AddCookie(sessionCookie(1))
		u, err := provider.Identify(r)
		require.NoError(t, err)
		require.Equal(t, "alice", u.Username)
	})

	t.Run("bearer header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/ws", nil)
		r.Header.Set("Authorization", "Bearer "+token(1))
		u, err := provider.Identify(r)
		require.NoError(t, err)
		require.Equal(t, uint64(1), u.ID)
	})

	t.Run("query token", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/ws?token="+token(1), nil)
		u, err := provider.Identify(r)
		require.NoError(t, err)
		require.Equal(t, uint64(1), u.ID)
	})

	t.Run("anonymous", func(t *testing.T) {
		_, err := provider.Identify(httptest.NewRequest(http.MethodGet, "/ws", nil))
		require.ErrorIs(t, err, domain.ErrUnauthenticated)
	})

	t.Run("deleted user", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/ws", nil)
		r.AddCookie(sessionCookie(9))
		_, err := provider.Identify(r)
		require.ErrorIs(t, err, domain.ErrUnauthenticated)
	})

	t.Run("bad token", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/ws", nil)
		r.Header.Set("Authorization", "Bearer nope")
		_, err := provider.Identify(r)
		require.ErrorIs(t, err, domain.ErrUnauthenticated)
	})
}
