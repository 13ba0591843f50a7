package domain

import "time"

// ==== WebSocket Constants ====

// MaxMessageSize is the maximum allowed chat message body in bytes
const MaxMessageSize = 4096

// SendBufferSize is the number of outbound frames queued per connection
// before a recipient is treated as broken
const SendBufferSize = 256

// ==== Announcement Text ====

const (
	// JoinAnnouncement is broadcast when a connection enters a room
	JoinAnnouncement = "has entered the chat"

	// LeaveAnnouncement is broadcast when a connection leaves a room
	LeaveAnnouncement = "has left the chat"
)

// ==== Session Constants ====

// SessionTTL is the default login session time-to-live
const SessionTTL = 24 * time.Hour

// ==== Notices ====

const (
	// NoticeUsername labels frames addressed to a single connection by the server
	NoticeUsername = "system"

	// RateLimitedNotice tells a sender its message was not delivered
	RateLimitedNotice = "message not delivered: you are sending too fast"
)

// ==== Field Limits ====

const (
	MaxRoomTitleLength = 50
	MinUsernameLength  = 3
	MaxUsernameLength  = 20
	MinPasswordLength  = 8
	MaxPasswordLength  = 72
)
