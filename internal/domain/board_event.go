package domain

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// BoardEvent is the journal row written for every event published on a board.
// The journal backs the event history endpoint and lets clients re-converge
// after missed frames; it is append-only.
type BoardEvent struct {
	BaseModel
	BoardID uuid.UUID      `gorm:"type:uuid;not null;index:idx_board_events_board_id" json:"board_id"`
	Type    string         `gorm:"type:varchar(50);not null" json:"type"`
	ActorID uuid.UUID      `gorm:"type:uuid;not null" json:"actor_id"`
	Payload datatypes.JSON `gorm:"type:jsonb" json:"payload"`
}

// TableName specifies the table name for BoardEvent
func (BoardEvent) TableName() string {
	return "board_events"
}
