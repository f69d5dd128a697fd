package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vinilopesc/vortex-board/internal/domain"
)

// ItemRepository defines the interface for work item data access across
// both variants. Callers that hold a domain.Item use the dispatching
// methods; variant-specific methods exist for typed access.
type ItemRepository interface {
	CreateBug(ctx context.Context, bug *domain.Bug) error
	CreateFeature(ctx context.Context, feature *domain.Feature) error
	FindBugByID(ctx context.Context, id uuid.UUID) (*domain.Bug, error)
	FindFeatureByID(ctx context.Context, id uuid.UUID) (*domain.Feature, error)
	Find(ctx context.Context, itemType domain.ItemType, id uuid.UUID) (domain.Item, error)
	Save(ctx context.Context, item domain.Item) error
	FindBugsByColumn(ctx context.Context, columnID uuid.UUID) ([]*domain.Bug, error)
	FindFeaturesByColumn(ctx context.Context, columnID uuid.UUID) ([]*domain.Feature, error)
	FindBugsByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.Bug, error)
	FindFeaturesByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.Feature, error)
	CountActiveInColumn(ctx context.Context, columnID uuid.UUID) (int64, error)
	CountActiveByColumns(ctx context.Context, columnIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	FindBugsInColumnsSince(ctx context.Context, columnIDs []uuid.UUID, since time.Time) ([]*domain.Bug, error)
	FindFeaturesInColumnsSince(ctx context.Context, columnIDs []uuid.UUID, since time.Time) ([]*domain.Feature, error)
	SearchBugsByBoard(ctx context.Context, boardID uuid.UUID, includeArchived bool) ([]*domain.Bug, error)
	SearchFeaturesByBoard(ctx context.Context, boardID uuid.UUID, includeArchived bool) ([]*domain.Feature, error)
	FindOverdueBugs(ctx context.Context, before time.Time) ([]*domain.Bug, error)
	FindOverdueFeatures(ctx context.Context, before time.Time) ([]*domain.Feature, error)
}

// itemRepositoryImpl is the GORM implementation of ItemRepository
type itemRepositoryImpl struct {
	db *gorm.DB
}

// NewItemRepository creates a new instance of ItemRepository
func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepositoryImpl{db: db}
}

// CreateBug creates a new bug
func (r *itemRepositoryImpl) CreateBug(ctx context.Context, bug *domain.Bug) error {
	if err := r.db.WithContext(ctx).Create(bug).Error; err != nil {
		return err
	}
	return nil
}

// CreateFeature creates a new feature
func (r *itemRepositoryImpl) CreateFeature(ctx context.Context, feature *domain.Feature) error {
	if err := r.db.WithContext(ctx).Create(feature).Error; err != nil {
		return err
	}
	return nil
}

// FindBugByID finds a bug by ID
func (r *itemRepositoryImpl) FindBugByID(ctx context.Context, id uuid.UUID) (*domain.Bug, error) {
	var bug domain.Bug
	if err := r.db.WithContext(ctx).First(&bug, id).Error; err != nil {
		return nil, err
	}
	return &bug, nil
}

// FindFeatureByID finds a feature by ID
func (r *itemRepositoryImpl) FindFeatureByID(ctx context.Context, id uuid.UUID) (*domain.Feature, error) {
	var feature domain.Feature
	if err := r.db.WithContext(ctx).First(&feature, id).Error; err != nil {
		return nil, err
	}
	return &feature, nil
}

// Find loads the item of the given variant and ID
func (r *itemRepositoryImpl) Find(ctx context.Context, itemType domain.ItemType, id uuid.UUID) (domain.Item, error) {
	switch itemType {
	case domain.ItemTypeBug:
		bug, err := r.FindBugByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return bug, nil
	case domain.ItemTypeFeature:
		feature, err := r.FindFeatureByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return feature, nil
	default:
		return nil, fmt.Errorf("unknown item type: %s", itemType)
	}
}

// Save persists changes to an existing item of either variant
func (r *itemRepositoryImpl) Save(ctx context.Context, item domain.Item) error {
	switch it := item.(type) {
	case *domain.Bug:
		return r.db.WithContext(ctx).Save(it).Error
	case *domain.Feature:
		return r.db.WithContext(ctx).Save(it).Error
	default:
		return fmt.Errorf("unsupported item type: %T", item)
	}
}

// FindBugsByColumn lists non-archived bugs of a column in display order
func (r *itemRepositoryImpl) FindBugsByColumn(ctx context.Context, columnID uuid.UUID) ([]*domain.Bug, error) {
	var bugs []*domain.Bug
	if err := r.db.WithContext(ctx).
		Where("column_id = ? AND archived = ?", columnID, false).
		Order("position ASC").
		Find(&bugs).Error; err != nil {
		return nil, err
	}
	return bugs, nil
}

// FindFeaturesByColumn lists non-archived features of a column in display order
func (r *itemRepositoryImpl) FindFeaturesByColumn(ctx context.Context, columnID uuid.UUID) ([]*domain.Feature, error) {
	var features []*domain.Feature
	if err := r.db.WithContext(ctx).
		Where("column_id = ? AND archived = ?", columnID, false).
		Order("position ASC").
		Find(&features).Error; err != nil {
		return nil, err
	}
	return features, nil
}

// FindBugsByBoard lists non-archived bugs across all columns of a board
func (r *itemRepositoryImpl) FindBugsByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.Bug, error) {
	var bugs []*domain.Bug
	if err := r.db.WithContext(ctx).
		Joins("JOIN columns ON columns.id = bugs.column_id AND columns.deleted_at IS NULL").
		Where("columns.board_id = ? AND bugs.archived = ?", boardID, false).
		Preload("Column").
		Order("bugs.position ASC").
		Find(&bugs).Error; err != nil {
		return nil, err
	}
	return bugs, nil
}

// FindFeaturesByBoard lists non-archived features across all columns of a board
func (r *itemRepositoryImpl) FindFeaturesByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.Feature, error) {
	var features []*domain.Feature
	if err := r.db.WithContext(ctx).
		Joins("JOIN columns ON columns.id = features.column_id AND columns.deleted_at IS NULL").
		Where("columns.board_id = ? AND features.archived = ?", boardID, false).
		Preload("Column").
		Order("features.position ASC").
		Find(&features).Error; err != nil {
		return nil, err
	}
	return features, nil
}

// CountActiveInColumn counts non-archived items of both variants in a column
func (r *itemRepositoryImpl) CountActiveInColumn(ctx context.Context, columnID uuid.UUID) (int64, error) {
	var bugs int64
	if err := r.db.WithContext(ctx).Model(&domain.Bug{}).
		Where("column_id = ? AND archived = ?", columnID, false).
		Count(&bugs).Error; err != nil {
		return 0, err
	}

	var features int64
	if err := r.db.WithContext(ctx).Model(&domain.Feature{}).
		Where("column_id = ? AND archived = ?", columnID, false).
		Count(&features).Error; err != nil {
		return 0, err
	}
	return bugs + features, nil
}

// CountActiveByColumns counts non-archived items per column in two grouped queries
func (r *itemRepositoryImpl) CountActiveByColumns(ctx context.Context, columnIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(columnIDs))
	if len(columnIDs) == 0 {
		return counts, nil
	}

	type columnCount struct {
		ColumnID uuid.UUID `gorm:"column:column_id"`
		Total    int64     `gorm:"column:total"`
	}

	var bugRows []columnCount
	if err := r.db.WithContext(ctx).Model(&domain.Bug{}).
		Select("column_id, COUNT(*) AS total").
		Where("column_id IN ? AND archived = ?", columnIDs, false).
		Group("column_id").
		Scan(&bugRows).Error; err != nil {
		return nil, err
	}
	for _, row := range bugRows {
		counts[row.ColumnID] += row.Total
	}

	var featureRows []columnCount
	if err := r.db.WithContext(ctx).Model(&domain.Feature{}).
		Select("column_id, COUNT(*) AS total").
		Where("column_id IN ? AND archived = ?", columnIDs, false).
		Group("column_id").
		Scan(&featureRows).Error; err != nil {
		return nil, err
	}
	for _, row := range featureRows {
		counts[row.ColumnID] += row.Total
	}

	return counts, nil
}

// FindBugsInColumnsSince lists bugs in the given columns touched at or after
// the cutoff. Archived bugs are included; completion counts stay stable when
// finished work is archived later.
func (r *itemRepositoryImpl) FindBugsInColumnsSince(ctx context.Context, columnIDs []uuid.UUID, since time.Time) ([]*domain.Bug, error) {
	if len(columnIDs) == 0 {
		return nil, nil
	}
	var bugs []*domain.Bug
	if err := r.db.WithContext(ctx).
		Where("column_id IN ? AND updated_at >= ?", columnIDs, since).
		Find(&bugs).Error; err != nil {
		return nil, err
	}
	return bugs, nil
}

// FindFeaturesInColumnsSince lists features in the given columns touched at
// or after the cutoff, archived included
func (r *itemRepositoryImpl) FindFeaturesInColumnsSince(ctx context.Context, columnIDs []uuid.UUID, since time.Time) ([]*domain.Feature, error) {
	if len(columnIDs) == 0 {
		return nil, nil
	}
	var features []*domain.Feature
	if err := r.db.WithContext(ctx).
		Where("column_id IN ? AND updated_at >= ?", columnIDs, since).
		Find(&features).Error; err != nil {
		return nil, err
	}
	return features, nil
}

// SearchBugsByBoard lists a board's bugs for search, newest change first.
// Archived bugs are only returned when includeArchived is set.
func (r *itemRepositoryImpl) SearchBugsByBoard(ctx context.Context, boardID uuid.UUID, includeArchived bool) ([]*domain.Bug, error) {
	query := r.db.WithContext(ctx).
		Joins("JOIN columns ON columns.id = bugs.column_id AND columns.deleted_at IS NULL").
		Where("columns.board_id = ?", boardID).
		Preload("Column").
		Order("bugs.updated_at DESC")
	if !includeArchived {
		query = query.Where("bugs.archived = ?", false)
	}
	var bugs []*domain.Bug
	if err := query.Find(&bugs).Error; err != nil {
		return nil, err
	}
	return bugs, nil
}

// SearchFeaturesByBoard lists a board's features for search, newest change
// first. Archived features are only returned when includeArchived is set.
func (r *itemRepositoryImpl) SearchFeaturesByBoard(ctx context.Context, boardID uuid.UUID, includeArchived bool) ([]*domain.Feature, error) {
	query := r.db.WithContext(ctx).
		Joins("JOIN columns ON columns.id = features.column_id AND columns.deleted_at IS NULL").
		Where("columns.board_id = ?", boardID).
		Preload("Column").
		Order("features.updated_at DESC")
	if !includeArchived {
		query = query.Where("features.archived = ?", false)
	}
	var features []*domain.Feature
	if err := query.Find(&features).Error; err != nil {
		return nil, err
	}
	return features, nil
}

// FindOverdueBugs lists non-archived bugs due before the cutoff that are
// not sitting in a completion column
func (r *itemRepositoryImpl) FindOverdueBugs(ctx context.Context, before time.Time) ([]*domain.Bug, error) {
	var bugs []*domain.Bug
	if err := r.db.WithContext(ctx).
		Joins("JOIN columns ON columns.id = bugs.column_id AND columns.deleted_at IS NULL").
		Where("bugs.due_date IS NOT NULL AND bugs.due_date < ? AND bugs.archived = ? AND columns.is_done = ?", before, false, false).
		Preload("Column").
		Find(&bugs).Error; err != nil {
		return nil, err
	}
	return bugs, nil
}

// FindOverdueFeatures lists non-archived features due before the cutoff
// that are not sitting in a completion column
func (r *itemRepositoryImpl) FindOverdueFeatures(ctx context.Context, before time.Time) ([]*domain.Feature, error) {
	var features []*domain.Feature
	if err := r.db.WithContext(ctx).
		Joins("JOIN columns ON columns.id = features.column_id AND columns.deleted_at IS NULL").
		Where("features.due_date IS NOT NULL AND features.due_date < ? AND features.archived = ? AND columns.is_done = ?", before, false, false).
		Preload("Column").
		Find(&features).Error; err != nil {
		return nil, err
	}
	return features, nil
}
