package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types pushed to board subscribers. EventNotification is only
// delivered through personal groups, never through a board group.
const (
	EventItemMoved    = "item_moved"
	EventItemCreated  = "item_created"
	EventCommentAdded = "comment_added"
	EventUserJoined   = "user_joined"
	EventUserLeft     = "user_left"
	EventUserTyping   = "user_typing"
	EventBoardRefresh = "board_refresh"
	EventBoardSync    = "board_sync"
	EventNotification = "notification"
	EventPong         = "pong"
)

// Message types accepted from clients
const (
	MessagePing          = "ping"
	MessageTypingComment = "typing_comment"
	MessageSyncBoard     = "sync_board"
	MessageMarkRead      = "mark_read"
)

// Envelope is the wire format for every event sent to a client
type Envelope struct {
	Type      string      `json:"type"`
	Message   interface{} `json:"message,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEnvelope creates an envelope stamped with the current time
func NewEnvelope(eventType string, message interface{}) Envelope {
	return Envelope{
		Type:      eventType,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// ClientMessage is the wire format for messages received from clients
type ClientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// eventFrame wraps an event on a group channel with routing metadata.
// ExcludeUserID suppresses delivery to the originator's own sessions,
// used for presence and typing events on board channels.
type eventFrame struct {
	ExcludeUserID *uuid.UUID      `json:"exclude_user_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// ItemMovedPayload describes a committed move
type ItemMovedPayload struct {
	ItemID        uuid.UUID `json:"item_id"`
	ItemType      string    `json:"item_type"`
	FromColumnID  uuid.UUID `json:"from_column_id"`
	ToColumnID    uuid.UUID `json:"to_column_id"`
	ToColumnTitle string    `json:"to_column_title"`
	Position      int       `json:"position"`
	ActorID       uuid.UUID `json:"actor_id"`
	ActorName     string    `json:"actor_name"`
}

// ItemCreatedPayload describes a newly created item
type ItemCreatedPayload struct {
	ItemID    uuid.UUID `json:"item_id"`
	ItemType  string    `json:"item_type"`
	ColumnID  uuid.UUID `json:"column_id"`
	Title     string    `json:"title"`
	Points    int       `json:"points"`
	ActorID   uuid.UUID `json:"actor_id"`
	ActorName string    `json:"actor_name"`
}

// CommentAddedPayload describes a new comment on an item
type CommentAddedPayload struct {
	CommentID  uuid.UUID `json:"comment_id"`
	ItemID     uuid.UUID `json:"item_id"`
	ItemType   string    `json:"item_type"`
	AuthorID   uuid.UUID `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Text       string    `json:"text"`
}

// PresencePayload identifies the user behind a join/leave event
type PresencePayload struct {
	UserID   uuid.UUID `json:"user_id"`
	UserName string    `json:"user_name"`
}

// TypingPayload identifies who is typing a comment and where
type TypingPayload struct {
	UserID   uuid.UUID  `json:"user_id"`
	UserName string     `json:"user_name"`
	ItemID   *uuid.UUID `json:"item_id,omitempty"`
	ItemType string     `json:"item_type,omitempty"`
}

// BoardRefreshPayload tells clients to re-fetch the full board
type BoardRefreshPayload struct {
	Reason string `json:"reason"`
}

// NotificationPayload is pushed to a user's personal group when something
// they are involved in changes: an item assigned to them is created, moved
// or commented on, or has gone overdue.
type NotificationPayload struct {
	NotificationID uuid.UUID  `json:"notification_id"`
	Kind           string     `json:"kind"`
	ItemID         uuid.UUID  `json:"item_id"`
	ItemType       string     `json:"item_type"`
	ItemTitle      string     `json:"item_title"`
	BoardID        uuid.UUID  `json:"board_id"`
	ActorName      string     `json:"actor_name,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	Text           string     `json:"text"`
}

// Notification kinds
const (
	NotificationItemAssigned  = "item_assigned"
	NotificationItemMoved     = "item_moved"
	NotificationItemCommented = "item_commented"
	NotificationItemOverdue   = "item_overdue"
)

// MarkReadPayload acknowledges a previously delivered notification
type MarkReadPayload struct {
	NotificationID uuid.UUID `json:"notification_id"`
}
