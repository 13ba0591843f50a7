package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/mmuslimabdulj/roomchat/internal/auth"
	"github.com/mmuslimabdulj/roomchat/internal/domain"
	"github.com/mmuslimabdulj/roomchat/internal/mocks"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAccountService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserStore(ctrl)
	svc := NewAccountService(users, slog.Default())
	ctx := context.Background()

	t.Run("stores a hashed password", func(t *testing.T) {
		req := require.New(t)
		users.EXPECT().
			CreateUser(gomock.Any(), "alice", gomock.Any()).
			DoAndReturn(func(_ context.Context, username, hash string) (*domain.User, error) {
				req.NotEqual("password123", hash)
				ok, err := auth.ComparePassword("password123", hash)
				req.NoError(err)
				req.True(ok)
				return &domain.User{ID: 1, Username: username, PasswordHash: hash}, nil
			})

		user, err := svc.Register(ctx, "  alice ", "password123")
		req.NoError(err)
		req.Equal(uint64(1), user.ID)
	})

	t.Run("duplicate username", func(t *testing.T) {
		users.EXPECT().
			CreateUser(gomock.Any(), "alice", gomock.Any()).
			Return(nil, domain.ErrDuplicateUsername)

		_, err := svc.Register(ctx, "alice", "password123")
		require.ErrorIs(t, err, domain.ErrDuplicateUsername)
	})

	t.Run("invalid input never reaches the store", func(t *testing.T) {
		users.EXPECT().CreateUser(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		cases := map[string][2]string{
			"short username": {"al", "password123"},
			"long username":  {strings.Repeat("a", 21), "password123"},
			"bad characters": {"alice!", "password123"},
			"short password": {"alice", "short"},
			"long password":  {"alice", strings.Repeat("p", 73)},
		}
		for name, c := range cases {
			_, err := svc.Register(ctx, c[0], c[1])
			require.ErrorIs(t, err, domain.ErrInvalidInput, name)
		}
	})
}

func TestAccountService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserStore(ctrl)
	svc := NewAccountService(users, slog.Default())
	ctx := context.Background()

	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)
	stored := &domain.User{ID: 3, Username: "alice", PasswordHash: hash}

	t.Run("correct password", func(t *testing.T) {
		users.EXPECT().GetUserByUsername(gomock.Any(), "alice").Return(stored, nil)
		user, err := svc.Login(ctx, "alice", "password123")
		require.NoError(t, err)
		require.Equal(t, stored.ID, user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		users.EXPECT().GetUserByUsername(gomock.Any(), "alice").Return(stored, nil)
		_, err := svc.Login(ctx, "alice", "nope-nope")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown user looks the same", func(t *testing.T) {
		users.EXPECT().GetUserByUsername(gomock.Any(), "bob").Return(nil, domain.ErrUserNotFound)
		_, err := svc.Login(ctx, "bob", "password123")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("store failure is not masked", func(t *testing.T) {
		boom := errors.New("disk on fire")
		users.EXPECT().GetUserByUsername(gomock.Any(), "alice").Return(nil, boom)
		_, err := svc.Login(ctx, "alice", "password123")
		require.ErrorIs(t, err, boom)
	})
}
