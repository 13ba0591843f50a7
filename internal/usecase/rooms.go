package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mmuslimabdulj/roomchat/internal/domain"
	"github.com/mmuslimabdulj/roomchat/internal/storage"
)

// Evictor disconnects a user's live connections that are bound to a room
// other than keep. The websocket hub implements it.
type Evictor interface {
	EvictUser(userID, keep uint64) int
}

// RoomService creates rooms and moves users between them
type RoomService struct {
	rooms   storage.RoomDirectory
	users   storage.UserStore
	evictor Evictor
	logger  *slog.Logger
}

// NewRoomService creates a RoomService. evictor may be nil.
func NewRoomService(rooms storage.RoomDirectory, users storage.UserStore, evictor Evictor, logger *slog.Logger) *RoomService {
	return &RoomService{
		rooms:   rooms,
		users:   users,
		evictor: evictor,
		logger:  logger.With("component", "rooms"),
	}
}

// Create adds a room. Returns domain.ErrDuplicateTitle when the title exists.
func (s *RoomService) Create(ctx context.Context, title string) (*domain.Room, error) {
	req := CreateRoomRequest{Title: strings.TrimSpace(title)}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	room, err := s.rooms.CreateRoom(ctx, req.Title)
	if err != nil {
		return nil, err
	}
	s.logger.Info("room created", "room_id", room.ID, "title", room.Title)
	return room, nil
}

// Get returns domain.ErrRoomNotFound for unknown ids
func (s *RoomService) Get(ctx context.Context, id uint64) (*domain.Room, error) {
	return s.rooms.GetRoom(ctx, id)
}

// List returns all rooms ordered by id
func (s *RoomService) List(ctx context.Context) ([]domain.Room, error) {
	return s.rooms.ListRooms(ctx)
}

// Join assigns roomID to the user. Live connections the user still has in a
// different room are disconnected, which announces the leave there.
func (s *RoomService) Join(ctx context.Context, userID, roomID uint64) (*domain.Room, error) {
	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.AssignRoom(ctx, userID, room.ID); err != nil {
		return nil, err
	}

	if s.evictor != nil {
		if n := s.evictor.EvictUser(userID, room.ID); n > 0 {
			s.logger.Info("evicted connections from previous room", "user_id", userID, "room_id", room.ID, "count", n)
		}
	}
	return room, nil
}
