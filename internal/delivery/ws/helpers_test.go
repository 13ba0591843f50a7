package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/mmuslimabdulj/roomchat/internal/domain"
	"github.com/stretchr/testify/require"
)

// fakeRooms is a RoomLookup backed by a fixed set of room ids
type fakeRooms map[uint64]string

func (f fakeRooms) GetRoom(_ context.Context, id uint64) (*domain.Room, error) {
	title, ok := f[id]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return &domain.Room{ID: id, Title: title}, nil
}

func newTestHub(t *testing.T, opts Options) *Hub {
	t.Helper()
	return NewHub(fakeRooms{1: "general", 2: "random"}, opts, slog.Default())
}

func newUser(id uint64, name string, roomID uint64) *domain.User {
	u := &domain.User{ID: id, Username: name}
	if roomID != 0 {
		u.RoomID = &roomID
	}
	return u
}

// newMockClient creates a joined client without a websocket connection
func newMockClient(t *testing.T, hub *Hub, user *domain.User) *Client {
	t.Helper()
	c, err := hub.Connect(context.Background(), nil, user)
	require.NoError(t, err)
	return c
}

// recv reads the next payload queued for c
func recv(t *testing.T, c *Client) domain.Payload {
	t.Helper()
	select {
	case data, ok := <-c.send:
		require.True(t, ok, "send channel closed")
		var p domain.Payload
		require.NoError(t, json.Unmarshal(data, &p))
		return p
	case <-time.After(time.Second):
		t.Fatalf("client %s received nothing", c.User.Username)
		return domain.Payload{}
	}
}

// requireNothing asserts no payload is queued for c
func requireNothing(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data, ok := <-c.send:
		if ok {
			t.Fatalf("client %s got unexpected payload %s", c.User.Username, data)
		}
	default:
	}
}

func requirePayload(t *testing.T, c *Client, username, message string) {
	t.Helper()
	p := recv(t, c)
	require.Equal(t, username, p.Username)
	require.Equal(t, message, p.Message)
}
