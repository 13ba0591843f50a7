package domain

import "time"

// Room is a named channel. Titles are unique across the directory.
type Room struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}
