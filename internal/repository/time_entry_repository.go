package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vinilopesc/vortex-board/internal/domain"
)

// TimeEntryRepository defines the interface for time entry data access
type TimeEntryRepository interface {
	Create(ctx context.Context, entry *domain.TimeEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.TimeEntry, error)
	FindOpenByUser(ctx context.Context, userID uuid.UUID) (*domain.TimeEntry, error)
	Save(ctx context.Context, entry *domain.TimeEntry) error
	FindByItem(ctx context.Context, itemType domain.ItemType, itemID uuid.UUID) ([]*domain.TimeEntry, error)
	FindByUserBetween(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*domain.TimeEntry, error)
	FindByBoardBetween(ctx context.Context, boardID uuid.UUID, start, end time.Time) ([]*domain.TimeEntry, error)
	CountOpenByBoard(ctx context.Context, boardID uuid.UUID) (int64, error)
}

// timeEntryRepositoryImpl is the GORM implementation of TimeEntryRepository
type timeEntryRepositoryImpl struct {
	db *gorm.DB
}

// NewTimeEntryRepository creates a new instance of TimeEntryRepository
func NewTimeEntryRepository(db *gorm.DB) TimeEntryRepository {
	return &timeEntryRepositoryImpl{db: db}
}

// Create creates a new time entry
func (r *timeEntryRepositoryImpl) Create(ctx context.Context, entry *domain.TimeEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return err
	}
	return nil
}

// FindByID finds a time entry by ID
func (r *timeEntryRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.TimeEntry, error) {
	var entry domain.TimeEntry
	if err := r.db.WithContext(ctx).First(&entry, id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindOpenByUser finds the user's running entry. Returns
// gorm.ErrRecordNotFound when the user has none open.
func (r *timeEntryRepositoryImpl) FindOpenByUser(ctx context.Context, userID uuid.UUID) (*domain.TimeEntry, error) {
	var entry domain.TimeEntry
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND ended_at IS NULL", userID).
		First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// Save persists changes to an existing time entry
func (r *timeEntryRepositoryImpl) Save(ctx context.Context, entry *domain.TimeEntry) error {
	if err := r.db.WithContext(ctx).Save(entry).Error; err != nil {
		return err
	}
	return nil
}

// FindByItem lists the time entries of an item newest first
func (r *timeEntryRepositoryImpl) FindByItem(ctx context.Context, itemType domain.ItemType, itemID uuid.UUID) ([]*domain.TimeEntry, error) {
	column, err := itemFKColumn(itemType)
	if err != nil {
		return nil, err
	}

	var entries []*domain.TimeEntry
	if err := r.db.WithContext(ctx).
		Where(column+" = ?", itemID).
		Order("started_at DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByUserBetween lists the user's entries started within [start, end)
func (r *timeEntryRepositoryImpl) FindByUserBetween(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*domain.TimeEntry, error) {
	var entries []*domain.TimeEntry
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND started_at >= ? AND started_at < ?", userID, start, end).
		Order("started_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByBoardBetween lists entries on the board's items started within
// [start, end), resolved per variant through the owning column
func (r *timeEntryRepositoryImpl) FindByBoardBetween(ctx context.Context, boardID uuid.UUID, start, end time.Time) ([]*domain.TimeEntry, error) {
	var viaBugs []*domain.TimeEntry
	if err := r.db.WithContext(ctx).
		Joins("JOIN bugs ON bugs.id = time_entries.bug_id AND bugs.deleted_at IS NULL").
		Joins("JOIN columns ON columns.id = bugs.column_id AND columns.deleted_at IS NULL").
		Where("columns.board_id = ? AND time_entries.started_at >= ? AND time_entries.started_at < ?", boardID, start, end).
		Find(&viaBugs).Error; err != nil {
		return nil, err
	}

	var viaFeatures []*domain.TimeEntry
	if err := r.db.WithContext(ctx).
		Joins("JOIN features ON features.id = time_entries.feature_id AND features.deleted_at IS NULL").
		Joins("JOIN columns ON columns.id = features.column_id AND columns.deleted_at IS NULL").
		Where("columns.board_id = ? AND time_entries.started_at >= ? AND time_entries.started_at < ?", boardID, start, end).
		Find(&viaFeatures).Error; err != nil {
		return nil, err
	}
	return append(viaBugs, viaFeatures...), nil
}

// CountOpenByBoard counts running entries on the board's items
func (r *timeEntryRepositoryImpl) CountOpenByBoard(ctx context.Context, boardID uuid.UUID) (int64, error) {
	var viaBugs int64
	if err := r.db.WithContext(ctx).Model(&domain.TimeEntry{}).
		Joins("JOIN bugs ON bugs.id = time_entries.bug_id AND bugs.deleted_at IS NULL").
		Joins("JOIN columns ON columns.id = bugs.column_id AND columns.deleted_at IS NULL").
		Where("columns.board_id = ? AND time_entries.ended_at IS NULL", boardID).
		Count(&viaBugs).Error; err != nil {
		return 0, err
	}

	var viaFeatures int64
	if err := r.db.WithContext(ctx).Model(&domain.TimeEntry{}).
		Joins("JOIN features ON features.id = time_entries.feature_id AND features.deleted_at IS NULL").
		Joins("JOIN columns ON columns.id = features.column_id AND columns.deleted_at IS NULL").
		Where("columns.board_id = ? AND time_entries.ended_at IS NULL", boardID).
		Count(&viaFeatures).Error; err != nil {
		return 0, err
	}
	return viaBugs + viaFeatures, nil
}
