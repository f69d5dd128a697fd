package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vinilopesc/vortex-board/internal/domain"
)

// BoardEventRepository defines the interface for the board event journal.
// The journal is append-only; events are never updated or deleted.
type BoardEventRepository interface {
	Create(ctx context.Context, event *domain.BoardEvent) error
	FindRecentByBoard(ctx context.Context, boardID uuid.UUID, limit int) ([]*domain.BoardEvent, error)
}

// boardEventRepositoryImpl is the GORM implementation of BoardEventRepository
type boardEventRepositoryImpl struct {
	db *gorm.DB
}

// NewBoardEventRepository creates a new instance of BoardEventRepository
func NewBoardEventRepository(db *gorm.DB) BoardEventRepository {
	return &boardEventRepositoryImpl{db: db}
}

// Create appends an event to the journal
func (r *boardEventRepositoryImpl) Create(ctx context.Context, event *domain.BoardEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return err
	}
	return nil
}

// FindRecentByBoard lists the newest events of a board, newest first
func (r *boardEventRepositoryImpl) FindRecentByBoard(ctx context.Context, boardID uuid.UUID, limit int) ([]*domain.BoardEvent, error) {
	var events []*domain.BoardEvent
	if err := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
