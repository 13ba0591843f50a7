package domain

// User is a registered account. RoomID is the room the user last joined;
// nil means the user has not joined any room yet.
type User struct {
	ID           uint64  `json:"id"`
	Username     string  `json:"username"`
	PasswordHash string  `json:"password_hash"`
	RoomID       *uint64 `json:"room_id,omitempty"`
}

// HasRoom reports whether the user currently has a room assignment
func (u *User) HasRoom() bool {
	return u != nil && u.RoomID != nil && *u.RoomID != 0
}

// CurrentRoom returns the assigned room id or zero
func (u *User) CurrentRoom() uint64 {
	if !u.HasRoom() {
		return 0
	}
	return *u.RoomID
}
