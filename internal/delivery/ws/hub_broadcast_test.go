package ws

import (
	"log/slog"
	"testing"

	"github.com/mmuslimabdulj/roomchat/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_Dispatch(t *testing.T) {
	req := require.New(t)
	hub := newTestHub(t, DefaultOptions())
	registry := NewRegistry()

	var failed []*Client
	d := NewDispatcher(registry, func(c *Client, err error) {
		failed = append(failed, c)
	}, slog.Default())

	live := NewClient(hub, nil, newUser(1, "alice", 1), 1)
	live.join()
	closed := NewClient(hub, nil, newUser(2, "bob", 1), 1)
	closed.join()
	other := NewClient(hub, nil, newUser(3, "carol", 2), 2)
	other.join()

	req.NoError(registry.Register(1, live))
	req.NoError(registry.Register(1, closed))
	req.NoError(registry.Register(2, other))
	closed.close()

	res, err := d.Dispatch(1, domain.ChatMessage("alice", "hi"))
	req.NoError(err)
	req.Equal(DispatchResult{Delivered: 1, Failed: 1}, res)
	req.Equal([]*Client{closed}, failed)

	requirePayload(t, live, "alice", "hi")
	requireNothing(t, other)
}

func TestDispatcher_EmptyRoom(t *testing.T) {
	d := NewDispatcher(NewRegistry(), nil, slog.Default())

	res, err := d.Dispatch(7, domain.Joined("ghost"))
	require.NoError(t, err)
	require.Zero(t, res.Delivered)
	require.Zero(t, res.Failed)
}
