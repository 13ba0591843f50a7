package ws

import (
	"errors"
	"sync"

	"github.com/mmuslimabdulj/roomchat/internal/domain"
	"github.com/samber/lo"
)

var errAlreadyMember = errors.New("client is already registered in another room")

// Registry tracks which live clients are joined to which room.
// All methods are safe for concurrent use; the lock is never held across I/O.
type Registry struct {
	mu    sync.RWMutex
	rooms map[uint64]map[string]*Client // map[roomID]map[clientID]*Client
	index map[string]uint64             // clientID -> roomID
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[uint64]map[string]*Client),
		index: make(map[string]uint64),
	}
}

// Register adds c to the room's membership, creating the bucket on first use
func (r *Registry) Register(roomID uint64, c *Client) error {
	if roomID == 0 {
		return domain.ErrUnknownRoom
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.index[c.ID]; ok {
		if current == roomID {
			return nil
		}
		return errAlreadyMember
	}

	bucket, ok := r.rooms[roomID]
	if !ok {
		bucket = make(map[string]*Client)
		r.rooms[roomID] = bucket
	}
	bucket[c.ID] = c
	r.index[c.ID] = roomID
	return nil
}

// Deregister removes c from the room. Absent clients are ignored.
func (r *Registry) Deregister(roomID uint64, c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bucket, ok := r.rooms[roomID]
	if !ok {
		return
	}
	if _, ok := bucket[c.ID]; !ok {
		return
	}
	delete(bucket, c.ID)
	delete(r.index, c.ID)
	if len(bucket) == 0 {
		delete(r.rooms, roomID)
	}
}

// Members returns a snapshot of the room's clients
func (r *Registry) Members(roomID uint64) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Values(r.rooms[roomID])
}

// Contains reports whether c is currently registered in roomID
func (r *Registry) Contains(roomID uint64, c *Client) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rooms[roomID][c.ID]
	return ok
}

// Count returns the number of clients in a room
func (r *Registry) Count(roomID uint64) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[roomID])
}

// Len returns the number of registered clients across all rooms
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.index)
}

// ActiveRooms returns the ids of rooms with at least one member
func (r *Registry) ActiveRooms() []uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Keys(r.rooms)
}

// ClientsOfUser returns every registered client owned by userID
func (r *Registry) ClientsOfUser(userID uint64) []*Client {
	return lo.Filter(r.All(), func(c *Client, _ int) bool {
		return c.User.ID == userID
	})
}

// All returns a snapshot of every registered client
func (r *Registry) All() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*Client, 0, len(r.index))
	for _, bucket := range r.rooms {
		for _, c := range bucket {
			all = append(all, c)
		}
	}
	return all
}
