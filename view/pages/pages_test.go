package pages

import (
	"bytes"
	"context"
	"testing"

	"github.com/a-h/templ"
	"github.com/mmuslimabdulj/roomchat/internal/domain"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestHome(t *testing.T) {
	user := &domain.User{ID: 1, Username: "alice"}
	html := render(t, Home(user, []domain.Room{{ID: 3, Title: "<b>general</b>"}}, ""))

	require.Contains(t, html, `<form method="post" action="/join">`)
	require.Contains(t, html, `name="room_id" value="3"`)
	require.Contains(t, html, "&lt;b&gt;general&lt;/b&gt;")
	require.NotContains(t, html, "<b>general</b>")
	require.Contains(t, html, "/logout")
}

func TestHome_Empty(t *testing.T) {
	html := render(t, Home(nil, nil, "Room not found"))

	require.Contains(t, html, "No rooms yet")
	require.Contains(t, html, `class="error">Room not found`)
	require.Contains(t, html, `href="/login"`)
}

func TestCredentialsForms(t *testing.T) {
	html := render(t, Register(CredentialsForm{Username: `"bob"`, Error: "Username already taken"}))
	require.Contains(t, html, `action="/register"`)
	require.Contains(t, html, `value="&#34;bob&#34;"`)
	require.Contains(t, html, "Username already taken")

	html = render(t, Login(CredentialsForm{}))
	require.Contains(t, html, `action="/login"`)
	require.NotContains(t, html, `class="error"`)
}

func TestChat(t *testing.T) {
	user := &domain.User{ID: 1, Username: "alice"}
	html := render(t, Chat(user, &domain.Room{ID: 1, Title: "general"}))

	require.Contains(t, html, "<h1>general</h1>")
	require.Contains(t, html, `"/ws"`)
	require.Contains(t, html, "textContent")
	require.Contains(t, html, `maxlength="4096"`)
}

func TestJoinRoom(t *testing.T) {
	user := &domain.User{ID: 1, Username: "alice"}
	html := render(t, JoinRoom(user, &domain.Room{ID: 7, Title: "<i>ops</i>"}))

	require.Contains(t, html, `action="/join"`)
	require.Contains(t, html, `name="room_id" value="7"`)
	require.Contains(t, html, "Join &lt;i&gt;ops&lt;/i&gt;")
	require.NotContains(t, html, `id="messages"`)
}

func TestCreateRoom(t *testing.T) {
	html := render(t, CreateRoom(nil, "gen<eral", "Title already taken"))

	require.Contains(t, html, `maxlength="50"`)
	require.Contains(t, html, `value="gen&lt;eral"`)
	require.Contains(t, html, `class="error">Title already taken`)
}
