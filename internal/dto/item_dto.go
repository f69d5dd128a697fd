package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/vinilopesc/vortex-board/internal/domain"
)

// CreateItemRequest represents the request to create a new item
// @Description Request body for creating a bug or feature. The variant
// @Description fields (severity/environment/reproSteps for bugs,
// @Description category/estimatedHours/specUrl for features) are only read
// @Description for the matching type.
type CreateItemRequest struct {
	ColumnID    uuid.UUID  `json:"columnId" binding:"required"`
	Type        string     `json:"type" binding:"required,oneof=bug feature" example:"bug"`
	Title       string     `json:"title" binding:"required,min=2,max=200" example:"Checkout button unresponsive"`
	Description string     `json:"description" binding:"max=4000"`
	AssigneeID  *uuid.UUID `json:"assigneeId"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high critical" example:"high"`
	DueDate     *time.Time `json:"dueDate"`

	Severity    string `json:"severity" binding:"omitempty,oneof=low medium high critical"`
	Environment string `json:"environment" binding:"max=200"`
	ReproSteps  string `json:"reproSteps" binding:"max=4000"`

	Category       string  `json:"category" binding:"omitempty,oneof=ux backend frontend infra docs"`
	EstimatedHours float64 `json:"estimatedHours" binding:"omitempty,gte=0"`
	SpecURL        string  `json:"specUrl" binding:"omitempty,url"`
}

// MoveItemRequest represents the request to move an item
type MoveItemRequest struct {
	ItemID         uuid.UUID `json:"itemId" binding:"required"`
	ItemType       string    `json:"itemType" binding:"required,oneof=bug feature" example:"bug"`
	TargetColumnID uuid.UUID `json:"targetColumnId" binding:"required"`
	Position       int       `json:"position" binding:"gte=0"`
}

// SearchItemsRequest carries the query parameters for board item search.
// Archived items are excluded unless includeArchived is set.
type SearchItemsRequest struct {
	Query           string     `form:"q" binding:"max=200"`
	Type            string     `form:"itemType" binding:"omitempty,oneof=bug feature"`
	Priority        string     `form:"priority" binding:"omitempty,oneof=low medium high critical"`
	AssigneeID      *uuid.UUID `form:"assigneeId"`
	IncludeArchived bool       `form:"includeArchived"`
}

// UpdateItemRequest represents the request to edit item fields. Absent
// fields are left untouched.
type UpdateItemRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=2,max=200"`
	Description *string    `json:"description" binding:"omitempty,max=4000"`
	AssigneeID  *uuid.UUID `json:"assigneeId"`
	Priority    *string    `json:"priority" binding:"omitempty,oneof=low medium high critical"`
	DueDate     *time.Time `json:"dueDate"`

	Severity    *string `json:"severity" binding:"omitempty,oneof=low medium high critical"`
	Environment *string `json:"environment" binding:"omitempty,max=200"`
	ReproSteps  *string `json:"reproSteps" binding:"omitempty,max=4000"`

	Category       *string  `json:"category" binding:"omitempty,oneof=ux backend frontend infra docs"`
	EstimatedHours *float64 `json:"estimatedHours" binding:"omitempty,gte=0"`
	SpecURL        *string  `json:"specUrl" binding:"omitempty,url"`
}

// ItemResponse represents a bug or feature in API responses
type ItemResponse struct {
	ItemID      uuid.UUID  `json:"itemId"`
	Type        string     `json:"type"`
	ColumnID    uuid.UUID  `json:"columnId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	AssigneeID  *uuid.UUID `json:"assigneeId,omitempty"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Position    int        `json:"position"`
	Archived    bool       `json:"archived"`
	Points      int        `json:"points"`
	Overdue     bool       `json:"overdue"`
	CreatorID   uuid.UUID  `json:"creatorId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	Severity    string `json:"severity,omitempty"`
	Environment string `json:"environment,omitempty"`
	ReproSteps  string `json:"reproSteps,omitempty"`

	Category       string  `json:"category,omitempty"`
	EstimatedHours float64 `json:"estimatedHours,omitempty"`
	SpecURL        string  `json:"specUrl,omitempty"`
}

// MoveItemResponse represents the result of a committed move
type MoveItemResponse struct {
	ItemID        uuid.UUID `json:"itemId"`
	Type          string    `json:"type"`
	FromColumnID  uuid.UUID `json:"fromColumnId"`
	ToColumnID    uuid.UUID `json:"toColumnId"`
	ToColumnTitle string    `json:"toColumnTitle"`
	Position      int       `json:"position"`
}

// NewItemResponse converts an item into its API shape. The overdue flag is
// computed by the caller because it depends on the owning column.
func NewItemResponse(item domain.Item, overdue bool) ItemResponse {
	core := item.Core()
	resp := ItemResponse{
		ItemID:      core.ID,
		Type:        string(item.Type()),
		ColumnID:    core.ColumnID,
		Title:       core.Title,
		Description: core.Description,
		AssigneeID:  core.AssigneeID,
		Priority:    string(core.Priority),
		DueDate:     core.DueDate,
		Position:    core.Position,
		Archived:    core.Archived,
		Points:      item.Points(),
		Overdue:     overdue,
		CreatorID:   core.CreatorID,
		CreatedAt:   core.CreatedAt,
		UpdatedAt:   core.UpdatedAt,
	}
	switch it := item.(type) {
	case *domain.Bug:
		resp.Severity = string(it.Severity)
		resp.Environment = it.Environment
		resp.ReproSteps = it.ReproSteps
	case *domain.Feature:
		resp.Category = string(it.Category)
		resp.EstimatedHours = it.EstimatedHours
		resp.SpecURL = it.SpecURL
	}
	return resp
}
