package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/vinilopesc/vortex-board/internal/domain"
)

// AddCommentRequest represents the request to comment on an item
type AddCommentRequest struct {
	ItemID   uuid.UUID `json:"itemId" binding:"required"`
	ItemType string    `json:"itemType" binding:"required,oneof=bug feature" example:"bug"`
	Text     string    `json:"text" binding:"required,min=1,max=2000" example:"Reproduced on staging with the same payload"`
}

// StartTimeEntryRequest represents the request to open a time entry
type StartTimeEntryRequest struct {
	ItemID   uuid.UUID `json:"itemId" binding:"required"`
	ItemType string    `json:"itemType" binding:"required,oneof=bug feature" example:"bug"`
}

// ArchiveItemRequest represents the request to archive an item
type ArchiveItemRequest struct {
	ItemID   uuid.UUID `json:"itemId" binding:"required"`
	ItemType string    `json:"itemType" binding:"required,oneof=bug feature" example:"bug"`
}

// CommentResponse represents a comment in API responses
type CommentResponse struct {
	CommentID  uuid.UUID  `json:"commentId"`
	ItemID     uuid.UUID  `json:"itemId"`
	ItemType   string     `json:"itemType"`
	AuthorID   uuid.UUID  `json:"authorId"`
	AuthorName string     `json:"authorName,omitempty"`
	Text       string     `json:"text"`
	CreatedAt  time.Time  `json:"createdAt"`
	EditedAt   *time.Time `json:"editedAt,omitempty"`
}

// TimeEntryResponse represents a time entry in API responses. Hours is zero
// while the entry is still open.
type TimeEntryResponse struct {
	EntryID   uuid.UUID  `json:"entryId"`
	ItemID    uuid.UUID  `json:"itemId"`
	ItemType  string     `json:"itemType"`
	UserID    uuid.UUID  `json:"userId"`
	StartedAt time.Time  `json:"startedAt"`
	EndedAt   *time.Time `json:"endedAt,omitempty"`
	Hours     float64    `json:"hours"`
	Open      bool       `json:"open"`
}

// NewCommentResponse converts a comment into its API shape
func NewCommentResponse(comment *domain.Comment) CommentResponse {
	itemType, itemID := comment.ItemRef()
	return CommentResponse{
		CommentID:  comment.ID,
		ItemID:     itemID,
		ItemType:   string(itemType),
		AuthorID:   comment.AuthorID,
		AuthorName: comment.Author.Name,
		Text:       comment.Text,
		CreatedAt:  comment.CreatedAt,
		EditedAt:   comment.EditedAt,
	}
}

// NewTimeEntryResponse converts a time entry into its API shape
func NewTimeEntryResponse(entry *domain.TimeEntry) TimeEntryResponse {
	itemType, itemID := entry.ItemRef()
	return TimeEntryResponse{
		EntryID:   entry.ID,
		ItemID:    itemID,
		ItemType:  string(itemType),
		UserID:    entry.UserID,
		StartedAt: entry.StartedAt,
		EndedAt:   entry.EndedAt,
		Hours:     entry.Duration(),
		Open:      entry.Open(),
	}
}
