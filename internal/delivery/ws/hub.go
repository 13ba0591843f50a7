package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mmuslimabdulj/roomchat/internal/domain"
	"golang.org/x/time/rate"
)

// RoomLookup is the part of the room directory the hub needs to validate
// a user's room assignment
type RoomLookup interface {
	GetRoom(ctx context.Context, id uint64) (*domain.Room, error)
}

// Options tunes per-connection limits
type Options struct {
	MaxMessageSize int
	SendBufferSize int
	// MessageRate caps chat messages per second per connection.
	// rate.Inf turns the limit off.
	MessageRate  rate.Limit
	MessageBurst int
}

// DefaultOptions returns the limits used when none are configured.
// Message rate limiting is off.
func DefaultOptions() Options {
	return Options{
		MaxMessageSize: domain.MaxMessageSize,
		SendBufferSize: domain.SendBufferSize,
		MessageRate:    rate.Inf,
		MessageBurst:   1,
	}
}

// Hub owns the lifecycle of every connection: it accepts connections into
// their room, relays their messages and tears them down exactly once.
type Hub struct {
	registry   *Registry
	dispatcher *Dispatcher
	rooms      RoomLookup
	opts       Options
	logger     *slog.Logger

	// closing is set once by Shutdown. Connect holds the read lock from the
	// check through registration so Shutdown never misses a new client.
	mu      sync.RWMutex
	closing bool
}

// NewHub creates a Hub that validates room assignments against rooms
func NewHub(rooms RoomLookup, opts Options, logger *slog.Logger) *Hub {
	h := &Hub{
		registry: NewRegistry(),
		rooms:    rooms,
		opts:     opts,
		logger:   logger.With("component", "hub"),
	}
	h.dispatcher = NewDispatcher(h.registry, h.handleSendFailure, logger)
	return h
}

// Connect accepts a connection for user into the user's current room.
// On rejection the socket (if any) is closed and nothing is broadcast.
func (h *Hub) Connect(ctx context.Context, conn *websocket.Conn, user *domain.User) (*Client, error) {
	roomID, err := h.admit(ctx, user)
	if err != nil {
		h.reject(conn, err)
		return nil, err
	}

	client, err := h.register(conn, user, roomID)
	if err != nil {
		h.reject(conn, err)
		return nil, err
	}

	h.logger.Info("client joined",
		"client_id", client.ID,
		"user_id", user.ID,
		"username", user.Username,
		"room_id", roomID,
	)

	// The joiner is already a member, so it receives its own announcement.
	h.dispatch(roomID, domain.Joined(user.Username))
	return client, nil
}

func (h *Hub) register(conn *websocket.Conn, user *domain.User, roomID uint64) (*Client, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closing {
		return nil, domain.ErrShuttingDown
	}

	client := NewClient(h, conn, user, roomID)
	client.join()
	if err := h.registry.Register(roomID, client); err != nil {
		client.close()
		return nil, err
	}
	return client, nil
}

// admit resolves the room a user may join
func (h *Hub) admit(ctx context.Context, user *domain.User) (uint64, error) {
	if user == nil {
		return 0, domain.ErrUnauthenticated
	}
	if !user.HasRoom() {
		return 0, domain.ErrNoRoomAssigned
	}

	room, err := h.rooms.GetRoom(ctx, user.CurrentRoom())
	if errors.Is(err, domain.ErrRoomNotFound) {
		return 0, fmt.Errorf("%w: %d", domain.ErrRoomNotFound, user.CurrentRoom())
	}
	if err != nil {
		return 0, fmt.Errorf("room lookup: %w", err)
	}
	return room.ID, nil
}

func (h *Hub) reject(conn *websocket.Conn, err error) {
	h.logger.Info("connection rejected", "reason", err)
	if conn == nil {
		return
	}

	msg := websocket.FormatCloseMessage(closeCode(err), closeReason(err))
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	_ = conn.Close()
}

func closeCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrNoRoomAssigned),
		errors.Is(err, domain.ErrRoomNotFound):
		return websocket.ClosePolicyViolation
	case errors.Is(err, domain.ErrShuttingDown):
		return websocket.CloseGoingAway
	default:
		return websocket.CloseInternalServerErr
	}
}

func closeReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, domain.ErrNoRoomAssigned):
		return "no room assigned"
	case errors.Is(err, domain.ErrRoomNotFound):
		return "room not found"
	case errors.Is(err, domain.ErrShuttingDown):
		return "server shutting down"
	default:
		return "internal error"
	}
}

// HandleMessage broadcasts a chat message from c to c's room.
// Invalid and late messages are dropped; a rate limited sender is told its
// message was not delivered.
func (h *Hub) HandleMessage(c *Client, body string) {
	if c.State() != StateJoined {
		return
	}

	if !ValidMessage(body, h.opts.MaxMessageSize) {
		h.logger.Debug("dropping invalid message", "client_id", c.ID)
		return
	}
	if !c.limiter.Allow() {
		h.logger.Debug("rate limited message", "client_id", c.ID)
		h.notify(c, domain.Notice(domain.RateLimitedNotice))
		return
	}

	h.dispatch(c.RoomID, domain.ChatMessage(c.User.Username, body))
}

// Disconnect removes c from its room and announces the leave.
// Safe to call any number of times from any goroutine.
func (h *Hub) Disconnect(c *Client) bool {
	if prev := c.close(); prev != StateJoined {
		return false
	}

	h.registry.Deregister(c.RoomID, c)
	h.logger.Info("client left",
		"client_id", c.ID,
		"user_id", c.User.ID,
		"username", c.User.Username,
		"room_id", c.RoomID,
	)
	h.dispatch(c.RoomID, domain.Left(c.User.Username))
	return true
}

// EvictUser disconnects the user's clients bound to any room except keep
// and returns how many were disconnected
func (h *Hub) EvictUser(userID, keep uint64) int {
	n := 0
	for _, c := range h.registry.ClientsOfUser(userID) {
		if c.RoomID != keep && h.Disconnect(c) {
			n++
		}
	}
	return n
}

// Shutdown disconnects every live client and refuses new ones
func (h *Hub) Shutdown() {
	h.mu.Lock()
	h.closing = true
	h.mu.Unlock()

	clients := h.registry.All()
	for _, c := range clients {
		h.Disconnect(c)
	}
	h.logger.Info("hub shut down", "disconnected", len(clients))
}

// handleSendFailure treats a failed recipient as disconnected. It runs the
// teardown on its own goroutine so dispatch never waits on it.
func (h *Hub) handleSendFailure(c *Client, err error) {
	if errors.Is(err, domain.ErrClientClosed) {
		return
	}
	go h.Disconnect(c)
}

// notify sends ev to c alone
func (h *Hub) notify(c *Client, ev domain.Event) {
	data, err := json.Marshal(ev.Payload())
	if err != nil {
		h.logger.Error("marshal notice", "error", err)
		return
	}
	if err := c.Send(data); err != nil {
		h.handleSendFailure(c, err)
	}
}

func (h *Hub) dispatch(roomID uint64, ev domain.Event) {
	if _, err := h.dispatcher.Dispatch(roomID, ev); err != nil {
		h.logger.Error("dispatch failed", "room_id", roomID, "error", err)
	}
}
