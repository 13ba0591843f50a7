package domain

import "time"

// EventKind identifies what happened in a room
type EventKind string

const (
	EventJoined  EventKind = "joined"
	EventMessage EventKind = "message"
	EventLeft    EventKind = "left"
	EventNotice  EventKind = "notice"
)

// Event is something to announce to every member of a room
type Event struct {
	Kind     EventKind
	Username string
	Body     string
	At       time.Time
}

// Joined builds the announcement for a user entering a room
func Joined(username string) Event {
	return Event{Kind: EventJoined, Username: username, At: time.Now()}
}

// Left builds the announcement for a user leaving a room
func Left(username string) Event {
	return Event{Kind: EventLeft, Username: username, At: time.Now()}
}

// ChatMessage builds a chat event carrying a message body
func ChatMessage(username, body string) Event {
	return Event{Kind: EventMessage, Username: username, Body: body, At: time.Now()}
}

// Notice builds a server message meant only for one connection
func Notice(text string) Event {
	return Event{Kind: EventNotice, Username: NoticeUsername, Body: text, At: time.Now()}
}

// Text returns the message text delivered to clients for this event
func (e Event) Text() string {
	switch e.Kind {
	case EventJoined:
		return JoinAnnouncement
	case EventLeft:
		return LeaveAnnouncement
	default:
		return e.Body
	}
}

// Payload converts the event into its wire representation
func (e Event) Payload() Payload {
	return Payload{
		Username:  e.Username,
		Message:   e.Text(),
		Timestamp: e.At.UTC(),
	}
}

// Payload is the outbound frame sent to every member of a room
type Payload struct {
	Username  string    `json:"username"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// InboundMessage is the frame a client sends to post a chat message
type InboundMessage struct {
	Data string `json:"data"`
}
