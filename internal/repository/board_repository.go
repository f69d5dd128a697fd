package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vinilopesc/vortex-board/internal/domain"
)

// BoardRepository defines the interface for board and column data access
type BoardRepository interface {
	Create(ctx context.Context, board *domain.Board) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Board, error)
	FindByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Board, error)
	FindByColumnID(ctx context.Context, columnID uuid.UUID) (*domain.Board, error)
	Update(ctx context.Context, board *domain.Board) error
	CreateColumns(ctx context.Context, columns []*domain.Column) error
	FindColumnByID(ctx context.Context, id uuid.UUID) (*domain.Column, error)
	FindColumnsByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.Column, error)
	UpdateColumn(ctx context.Context, column *domain.Column) error
}

// boardRepositoryImpl is the GORM implementation of BoardRepository
type boardRepositoryImpl struct {
	db *gorm.DB
}

// NewBoardRepository creates a new instance of BoardRepository
func NewBoardRepository(db *gorm.DB) BoardRepository {
	return &boardRepositoryImpl{db: db}
}

// Create creates a new board
func (r *boardRepositoryImpl) Create(ctx context.Context, board *domain.Board) error {
	if err := r.db.WithContext(ctx).Create(board).Error; err != nil {
		return err
	}
	return nil
}

// FindByID finds a board by ID with its columns loaded in display order
func (r *boardRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	var board domain.Board
	if err := r.db.WithContext(ctx).
		Preload("Columns", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&board, id).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

// FindByProject lists the boards of a project with their column layout
func (r *boardRepositoryImpl) FindByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Board, error) {
	var boards []*domain.Board
	if err := r.db.WithContext(ctx).
		Preload("Columns", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&boards).Error; err != nil {
		return nil, err
	}
	return boards, nil
}

// FindByColumnID finds the board that owns the given column
func (r *boardRepositoryImpl) FindByColumnID(ctx context.Context, columnID uuid.UUID) (*domain.Board, error) {
	var board domain.Board
	if err := r.db.WithContext(ctx).
		Joins("JOIN columns ON columns.board_id = boards.id AND columns.deleted_at IS NULL").
		Where("columns.id = ?", columnID).
		First(&board).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

// Update saves changes to an existing board
func (r *boardRepositoryImpl) Update(ctx context.Context, board *domain.Board) error {
	if err := r.db.WithContext(ctx).Save(board).Error; err != nil {
		return err
	}
	return nil
}

// CreateColumns creates the given columns in a single batch
func (r *boardRepositoryImpl) CreateColumns(ctx context.Context, columns []*domain.Column) error {
	if len(columns) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(columns).Error; err != nil {
		return err
	}
	return nil
}

// FindColumnByID finds a column by ID
func (r *boardRepositoryImpl) FindColumnByID(ctx context.Context, id uuid.UUID) (*domain.Column, error) {
	var column domain.Column
	if err := r.db.WithContext(ctx).First(&column, id).Error; err != nil {
		return nil, err
	}
	return &column, nil
}

// FindColumnsByBoard lists the columns of a board in display order
func (r *boardRepositoryImpl) FindColumnsByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.Column, error) {
	var columns []*domain.Column
	if err := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("position ASC").
		Find(&columns).Error; err != nil {
		return nil, err
	}
	return columns, nil
}

// UpdateColumn saves changes to an existing column
func (r *boardRepositoryImpl) UpdateColumn(ctx context.Context, column *domain.Column) error {
	if err := r.db.WithContext(ctx).Save(column).Error; err != nil {
		return err
	}
	return nil
}
