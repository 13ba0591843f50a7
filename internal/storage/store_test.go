package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/mmuslimabdulj/roomchat/internal/domain"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Options{InMemory: true}, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func Test_CreateRoom_Assigns_Sequential_IDs(t *testing.T) {
	req := require.New(t)
	s := newTestStore(t)
	ctx := context.Background()

	general, err := s.CreateRoom(ctx, "general")
	req.NoError(err)
	req.Equal(uint64(1), general.ID)

	random, err := s.CreateRoom(ctx, "random")
	req.NoError(err)
	req.Equal(uint64(2), random.ID)

	got, err := s.GetRoom(ctx, 1)
	req.NoError(err)
	req.Equal("general", got.Title)
}

func Test_CreateRoom_Rejects_Duplicate_Title(t *testing.T) {
	req := require.New(t)
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateRoom(ctx, "general")
	req.NoError(err)

	_, err = s.CreateRoom(ctx, "general")
	req.ErrorIs(err, domain.ErrDuplicateTitle)

	rooms, err := s.ListRooms(ctx)
	req.NoError(err)
	req.Len(rooms, 1)
}

func Test_CreateRoom_Concurrent_Same_Title(t *testing.T) {
	req := require.New(t)
	s := newTestStore(t)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.CreateRoom(ctx, "lobby"); err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	req.Equal(1, created)
	rooms, err := s.ListRooms(ctx)
	req.NoError(err)
	req.Len(rooms, 1)
}

func Test_GetRoom_Unknown(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetRoom(context.Background(), 42)
	require.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func Test_ListRooms_Ordered_By_ID(t *testing.T) {
	req := require.New(t)
	s := newTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 12; i++ {
		_, err := s.CreateRoom(ctx, fmt.Sprintf("room-%d", i))
		req.NoError(err)
	}

	rooms, err := s.ListRooms(ctx)
	req.NoError(err)
	req.Len(rooms, 12)
	for i, r := range rooms {
		req.Equal(uint64(i+1), r.ID)
	}
}

func Test_CreateUser_And_Lookup(t *testing.T) {
	req := require.New(t)
	s := newTestStore(t)
	ctx := context.Background()

	alice, err := s.CreateUser(ctx, "alice", "hash")
	req.NoError(err)
	req.Equal(uint64(1), alice.ID)
	req.False(alice.HasRoom())

	byName, err := s.GetUserByUsername(ctx, "alice")
	req.NoError(err)
	req.Equal(alice.ID, byName.ID)
	req.Equal("hash", byName.PasswordHash)

	byID, err := s.GetUser(ctx, alice.ID)
	req.NoError(err)
	req.Equal("alice", byID.Username)

	_, err = s.CreateUser(ctx, "alice", "other")
	req.ErrorIs(err, domain.ErrDuplicateUsername)

	_, err = s.GetUserByUsername(ctx, "bob")
	req.ErrorIs(err, domain.ErrUserNotFound)

	_, err = s.GetUser(ctx, 99)
	req.ErrorIs(err, domain.ErrUserNotFound)
}

func Test_AssignRoom(t *testing.T) {
	req := require.New(t)
	s := newTestStore(t)
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "alice", "hash")
	req.NoError(err)
	room, err := s.CreateRoom(ctx, "general")
	req.NoError(err)

	updated, err := s.AssignRoom(ctx, user.ID, room.ID)
	req.NoError(err)
	req.Equal(room.ID, updated.CurrentRoom())

	reloaded, err := s.GetUser(ctx, user.ID)
	req.NoError(err)
	req.Equal(room.ID, reloaded.CurrentRoom())

	_, err = s.AssignRoom(ctx, user.ID, 77)
	req.ErrorIs(err, domain.ErrRoomNotFound)

	_, err = s.AssignRoom(ctx, 77, room.ID)
	req.ErrorIs(err, domain.ErrUserNotFound)
}

func Test_Store_Persists_Across_Reopen(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(Options{Path: dir}, slog.Default())
	req.NoError(err)
	_, err = s.CreateRoom(ctx, "general")
	req.NoError(err)
	_, err = s.CreateUser(ctx, "alice", "hash")
	req.NoError(err)
	req.NoError(s.Close())

	s, err = Open(Options{Path: dir}, slog.Default())
	req.NoError(err)
	defer s.Close()

	rooms, err := s.ListRooms(ctx)
	req.NoError(err)
	req.Len(rooms, 1)
	req.Equal("general", rooms[0].Title)

	next, err := s.CreateRoom(ctx, "random")
	req.NoError(err)
	req.Greater(next.ID, rooms[0].ID)

	users, err := s.ListUsers(ctx)
	req.NoError(err)
	req.Len(users, 1)
}

func Test_Canceled_Context(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ListRooms(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
