package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/vinilopesc/vortex-board/internal/domain"
)

// CreateBoardRequest represents the request to create a new board
// @Description Creating a board provisions its default columns
// @Description (Backlog, In Progress, Review, Done) synchronously
type CreateBoardRequest struct {
	ProjectID uuid.UUID `json:"projectId" binding:"required"`
	Name      string    `json:"name" binding:"required,min=2,max=100" example:"Sprint board"`
}

// UpdateColumnRequest represents the request to update a column. Lowering a
// WIP limit below the current occupancy is accepted; the overflow is kept
// and only new entries are blocked.
type UpdateColumnRequest struct {
	Title    *string `json:"title" binding:"omitempty,min=1,max=120"`
	WipLimit *int    `json:"wipLimit" binding:"omitempty,min=0"`
	IsDone   *bool   `json:"isDone"`
}

// ColumnResponse represents a column without its items
type ColumnResponse struct {
	ColumnID uuid.UUID `json:"columnId"`
	Title    string    `json:"title"`
	Position int       `json:"position"`
	WipLimit int       `json:"wipLimit"`
	IsDone   bool      `json:"isDone"`
}

// BoardResponse represents a board with its column layout
type BoardResponse struct {
	BoardID   uuid.UUID        `json:"boardId"`
	ProjectID uuid.UUID        `json:"projectId"`
	Name      string           `json:"name"`
	Columns   []ColumnResponse `json:"columns"`
	CreatedAt time.Time        `json:"createdAt"`
}

// ColumnWithItemsResponse represents a column with its item list and
// current WIP occupancy
type ColumnWithItemsResponse struct {
	ColumnResponse
	ActiveCount int            `json:"activeCount"`
	Items       []ItemResponse `json:"items"`
}

// BoardDetailResponse represents the full board view
type BoardDetailResponse struct {
	BoardID   uuid.UUID                 `json:"boardId"`
	ProjectID uuid.UUID                 `json:"projectId"`
	Name      string                    `json:"name"`
	Columns   []ColumnWithItemsResponse `json:"columns"`
	CreatedAt time.Time                 `json:"createdAt"`
}

// ColumnSyncState is the per-column piece of the sync snapshot
type ColumnSyncState struct {
	ColumnID    uuid.UUID `json:"columnId"`
	Title       string    `json:"title"`
	ActiveCount int64     `json:"activeCount"`
	WipLimit    int       `json:"wipLimit"`
}

// BoardSyncState is the lightweight snapshot returned for sync_board
// requests: column and item-count state only, no item detail
type BoardSyncState struct {
	BoardID     uuid.UUID         `json:"boardId"`
	Columns     []ColumnSyncState `json:"columns"`
	GeneratedAt time.Time         `json:"generatedAt"`
}

// BoardEventResponse is one journal entry from the board event history
type BoardEventResponse struct {
	EventID   uuid.UUID       `json:"eventId"`
	BoardID   uuid.UUID       `json:"boardId"`
	Type      string          `json:"type"`
	ActorID   uuid.UUID       `json:"actorId"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"createdAt"`
}

// NewColumnResponse converts a column into its API shape
func NewColumnResponse(column *domain.Column) ColumnResponse {
	return ColumnResponse{
		ColumnID: column.ID,
		Title:    column.Title,
		Position: column.Position,
		WipLimit: column.WipLimit,
		IsDone:   column.IsDone,
	}
}

// NewBoardEventResponse converts a journal row into its API shape
func NewBoardEventResponse(event *domain.BoardEvent) BoardEventResponse {
	return BoardEventResponse{
		EventID:   event.ID,
		BoardID:   event.BoardID,
		Type:      event.Type,
		ActorID:   event.ActorID,
		Payload:   json.RawMessage(event.Payload),
		CreatedAt: event.CreatedAt,
	}
}

// NewBoardResponse converts a board and its columns into the API shape
func NewBoardResponse(board *domain.Board) BoardResponse {
	columns := make([]ColumnResponse, 0, len(board.Columns))
	for i := range board.Columns {
		columns = append(columns, NewColumnResponse(&board.Columns[i]))
	}
	return BoardResponse{
		BoardID:   board.ID,
		ProjectID: board.ProjectID,
		Name:      board.Name,
		Columns:   columns,
		CreatedAt: board.CreatedAt,
	}
}
