package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vinilopesc/vortex-board/internal/domain"
)

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	FindByItem(ctx context.Context, itemType domain.ItemType, itemID uuid.UUID) ([]*domain.Comment, error)
	Update(ctx context.Context, comment *domain.Comment) error
	CountByItem(ctx context.Context, itemType domain.ItemType, itemID uuid.UUID) (int64, error)
	CountByBoardBetween(ctx context.Context, boardID uuid.UUID, start, end time.Time) (int64, error)
}

// commentRepositoryImpl is the GORM implementation of CommentRepository
type commentRepositoryImpl struct {
	db *gorm.DB
}

// NewCommentRepository creates a new instance of CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepositoryImpl{db: db}
}

// Create creates a new comment
func (r *commentRepositoryImpl) Create(ctx context.Context, comment *domain.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return err
	}
	return nil
}

// FindByID finds a comment by ID with its author loaded
func (r *commentRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	var comment domain.Comment
	if err := r.db.WithContext(ctx).
		Preload("Author").
		First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// FindByItem lists the comments of an item oldest first with authors loaded
func (r *commentRepositoryImpl) FindByItem(ctx context.Context, itemType domain.ItemType, itemID uuid.UUID) ([]*domain.Comment, error) {
	column, err := itemFKColumn(itemType)
	if err != nil {
		return nil, err
	}

	var comments []*domain.Comment
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where(column+" = ?", itemID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// Update saves changes to an existing comment
func (r *commentRepositoryImpl) Update(ctx context.Context, comment *domain.Comment) error {
	if err := r.db.WithContext(ctx).Save(comment).Error; err != nil {
		return err
	}
	return nil
}

// CountByItem counts the comments of an item
func (r *commentRepositoryImpl) CountByItem(ctx context.Context, itemType domain.ItemType, itemID uuid.UUID) (int64, error) {
	column, err := itemFKColumn(itemType)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Comment{}).
		Where(column+" = ?", itemID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByBoardBetween counts comments written within [start, end) on the
// board's items, resolved per variant through the owning column
func (r *commentRepositoryImpl) CountByBoardBetween(ctx context.Context, boardID uuid.UUID, start, end time.Time) (int64, error) {
	var onBugs int64
	if err := r.db.WithContext(ctx).Model(&domain.Comment{}).
		Joins("JOIN bugs ON bugs.id = comments.bug_id AND bugs.deleted_at IS NULL").
		Joins("JOIN columns ON columns.id = bugs.column_id AND columns.deleted_at IS NULL").
		Where("columns.board_id = ? AND comments.created_at >= ? AND comments.created_at < ?", boardID, start, end).
		Count(&onBugs).Error; err != nil {
		return 0, err
	}

	var onFeatures int64
	if err := r.db.WithContext(ctx).Model(&domain.Comment{}).
		Joins("JOIN features ON features.id = comments.feature_id AND features.deleted_at IS NULL").
		Joins("JOIN columns ON columns.id = features.column_id AND columns.deleted_at IS NULL").
		Where("columns.board_id = ? AND comments.created_at >= ? AND comments.created_at < ?", boardID, start, end).
		Count(&onFeatures).Error; err != nil {
		return 0, err
	}
	return onBugs + onFeatures, nil
}

// itemFKColumn maps an item variant to its foreign key column
func itemFKColumn(itemType domain.ItemType) (string, error) {
	switch itemType {
	case domain.ItemTypeBug:
		return "bug_id", nil
	case domain.ItemTypeFeature:
		return "feature_id", nil
	default:
		return "", fmt.Errorf("unknown item type: %s", itemType)
	}
}
