package domain

import "errors"

// Sentinel errors shared by the storage, auth, usecase and delivery layers.
// Callers wrap them with context and match with errors.Is.
var (
	// Connection lifecycle
	ErrUnauthenticated = errors.New("connection has no authenticated user")
	ErrNoRoomAssigned  = errors.New("user has no room assigned")
	ErrUnknownRoom     = errors.New("unknown room")
	ErrClientClosed    = errors.New("client is closed")
	ErrSendBufferFull  = errors.New("client send buffer is full")
	ErrShuttingDown    = errors.New("server is shutting down")

	// Directory and accounts
	ErrRoomNotFound       = errors.New("room not found")
	ErrDuplicateTitle     = errors.New("room title already taken")
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
)
