package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mmuslimabdulj/roomchat/internal/domain"
	"golang.org/x/time/rate"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Room for the JSON envelope around a maximum size body
	frameOverhead = 512
)

// State is where a connection is in its lifecycle
type State int

const (
	StateConnecting State = iota
	StateJoined
	StateDisconnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateJoined:
		return "joined"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Client represents a single websocket connection bound to one room.
// User and RoomID are fixed when the connection is accepted.
type Client struct {
	ID     string
	User   *domain.User
	RoomID uint64

	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	limiter *rate.Limiter

	mu    sync.Mutex
	state State
}

// NewClient creates a Client in the connecting state
func NewClient(hub *Hub, conn *websocket.Conn, user *domain.User, roomID uint64) *Client {
	return &Client{
		ID:      uuid.New().String(),
		User:    user,
		RoomID:  roomID,
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, hub.opts.SendBufferSize),
		limiter: rate.NewLimiter(hub.opts.MessageRate, hub.opts.MessageBurst),
		state:   StateConnecting,
	}
}

// State returns the current lifecycle state
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Send queues msg for delivery without blocking
func (c *Client) Send(msg []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateJoined {
		return domain.ErrClientClosed
	}
	select {
	case c.send <- msg:
		return nil
	default:
		return domain.ErrSendBufferFull
	}
}

// join moves the client from connecting to joined
func (c *Client) join() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateConnecting {
		return false
	}
	c.state = StateJoined
	return true
}

// close moves the client to disconnected and releases the send queue,
// which makes WritePump send a close frame and drop the socket.
// Returns the state the client was in, so only one caller sees StateJoined.
func (c *Client) close() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev := c.state
	if prev != StateDisconnected {
		c.state = StateDisconnected
		close(c.send)
	}
	return prev
}

// ReadPump pumps messages from the websocket connection to the hub
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Disconnect(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(int64(c.hub.opts.MaxMessageSize + frameOverhead))
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("connection closed unexpectedly", "client_id", c.ID, "error", err)
			}
			break
		}

		var incoming domain.InboundMessage
		if err := json.Unmarshal(message, &incoming); err != nil {
			c.hub.logger.Debug("ignoring malformed frame", "client_id", c.ID, "error", err)
			continue
		}

		c.hub.HandleMessage(c, incoming.Data)
	}
}

// WritePump pumps messages from the hub to the websocket connection.
// Each queued payload is written as its own text frame.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
