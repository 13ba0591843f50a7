package ws

// Members returns a snapshot of the clients joined to a room
func (h *Hub) Members(roomID uint64) []*Client {
	return h.registry.Members(roomID)
}

// RoomCount returns the number of clients joined to a room
func (h *Hub) RoomCount(roomID uint64) int {
	return h.registry.Count(roomID)
}

// ClientCount returns the number of connected clients across all rooms
func (h *Hub) ClientCount() int {
	return h.registry.Len()
}

// ActiveRooms returns the ids of rooms that currently have members
func (h *Hub) ActiveRooms() []uint64 {
	return h.registry.ActiveRooms()
}
