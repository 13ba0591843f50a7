package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmuslimabdulj/roomchat/internal/auth"
	"github.com/mmuslimabdulj/roomchat/internal/domain"
	"github.com/mmuslimabdulj/roomchat/internal/storage"
)

// AccountService registers and authenticates users
type AccountService struct {
	users  storage.UserStore
	logger *slog.Logger
}

// NewAccountService creates an AccountService backed by users
func NewAccountService(users storage.UserStore, logger *slog.Logger) *AccountService {
	return &AccountService{users: users, logger: logger.With("component", "accounts")}
}

// Register validates the credentials, hashes the password and stores the user.
// Returns domain.ErrDuplicateUsername when the name is taken.
func (s *AccountService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	req := CredentialsRequest{Username: strings.TrimSpace(username), Password: password}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, req.Username, hash)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login returns domain.ErrInvalidCredentials for unknown users and bad
// passwords alike so usernames cannot be enumerated.
func (s *AccountService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil {
		s.logger.Warn("stored password hash unreadable", "user_id", user.ID, "error", err)
		return nil, domain.ErrInvalidCredentials
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// User loads a user by id
func (s *AccountService) User(ctx context.Context, id uint64) (*domain.User, error) {
	return s.users.GetUser(ctx, id)
}
