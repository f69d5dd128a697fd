package domain

import (
	"github.com/google/uuid"
)

// Board represents a kanban board within a project. Creating a board always
// provisions its default columns in the same transaction.
type Board struct {
	BaseModel
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index:idx_boards_project_id" json:"project_id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Project   Project   `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`
	Columns   []Column  `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"columns,omitempty"`
}

// Column holds items on a board. WipLimit 0 means unconstrained; the limit is
// checked when an item enters the column, so overflow introduced by lowering a
// limit afterwards is tolerated. IsDone marks the completion column used for
// scoring and overdue checks.
type Column struct {
	BaseModel
	BoardID  uuid.UUID `gorm:"type:uuid;not null;index:idx_columns_board_id;uniqueIndex:uq_columns_board_position" json:"board_id"`
	Title    string    `gorm:"type:varchar(120);not null" json:"title"`
	Position int       `gorm:"not null;uniqueIndex:uq_columns_board_position" json:"position"`
	WipLimit int       `gorm:"not null;default:0" json:"wip_limit"`
	IsDone   bool      `gorm:"not null;default:false" json:"is_done"`
	Board    Board     `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"board,omitempty"`
}

// Default column titles provisioned for every new board, in display order.
// The last one is flagged IsDone.
var DefaultColumnTitles = []string{"Backlog", "In Progress", "Review", "Done"}

// TableName specifies the table name for Board
func (Board) TableName() string {
	return "boards"
}

// TableName specifies the table name for Column
func (Column) TableName() string {
	return "columns"
}
