package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vinilopesc/vortex-board/internal/domain"
	"github.com/vinilopesc/vortex-board/internal/response"
)

// MoveItemParams describes a move of an item to a column and position on its board
type MoveItemParams struct {
	BoardID        uuid.UUID
	ItemType       domain.ItemType
	ItemID         uuid.UUID
	TargetColumnID uuid.UUID
	TargetPosition int
}

// MoveItemResult carries the committed move and the columns involved
type MoveItemResult struct {
	Item       domain.Item
	FromColumn *domain.Column
	ToColumn   *domain.Column
}

// CreateItemParams describes a new item to insert into a column
type CreateItemParams struct {
	BoardID     uuid.UUID
	ColumnID    uuid.UUID
	ItemType    domain.ItemType
	Title       string
	Description string
	AssigneeID  *uuid.UUID
	Priority    domain.Priority
	DueDate     *time.Time
	CreatorID   uuid.UUID

	// Bug fields
	Severity    domain.Severity
	Environment string
	ReproSteps  string

	// Feature fields
	Category       domain.FeatureCategory
	EstimatedHours float64
	SpecURL        string
}

// AddCommentParams describes a new comment on an item
type AddCommentParams struct {
	ItemType domain.ItemType
	ItemID   uuid.UUID
	AuthorID uuid.UUID
	Text     string
}

// StartTimeEntryParams describes opening a time entry on an item
type StartTimeEntryParams struct {
	ItemType  domain.ItemType
	ItemID    uuid.UUID
	UserID    uuid.UUID
	StartedAt time.Time
}

// StopTimeEntryParams describes closing a running time entry
type StopTimeEntryParams struct {
	EntryID uuid.UUID
	UserID  uuid.UUID
	EndedAt time.Time
}

// BoardStateStore owns the authoritative board state. Every operation is
// all-or-nothing: invariants are checked and committed inside one
// transaction under the board's lock, or nothing is written and a typed
// error comes back.
type BoardStateStore interface {
	MoveItem(ctx context.Context, params MoveItemParams) (*MoveItemResult, error)
	CreateItem(ctx context.Context, params CreateItemParams) (domain.Item, error)
	AddComment(ctx context.Context, params AddCommentParams) (*domain.Comment, error)
	StartTimeEntry(ctx context.Context, params StartTimeEntryParams) (*domain.TimeEntry, error)
	StopTimeEntry(ctx context.Context, params StopTimeEntryParams) (*domain.TimeEntry, error)
}

// boardLocks hands out one mutex per board. WIP admission reads column-wide
// counts, so writers to the same board must serialize; locks are never
// evicted and grow with the set of boards touched.
type boardLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newBoardLocks() *boardLocks {
	return &boardLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (b *boardLocks) get(boardID uuid.UUID) *sync.Mutex {
	b.mu.Lock()
	defer b.mu.Unlock()
	lock, ok := b.locks[boardID]
	if !ok {
		lock = &sync.Mutex{}
		b.locks[boardID] = lock
	}
	return lock
}

// boardStateStoreImpl is the GORM implementation of BoardStateStore
type boardStateStoreImpl struct {
	db     *gorm.DB
	locks  *boardLocks
	logger *zap.Logger
}

// NewBoardStateStore creates a new board state store
func NewBoardStateStore(db *gorm.DB, logger *zap.Logger) BoardStateStore {
	return &boardStateStoreImpl{
		db:     db,
		locks:  newBoardLocks(),
		logger: logger,
	}
}

// MoveItem commits a column change and reorder atomically. The WIP limit of
// the target column is checked only when the item genuinely changes column;
// a reorder within the current column never fails on WIP.
func (s *boardStateStoreImpl) MoveItem(ctx context.Context, params MoveItemParams) (*MoveItemResult, error) {
	lock := s.locks.get(params.BoardID)
	lock.Lock()
	defer lock.Unlock()

	var result MoveItemResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := findItem(tx, params.ItemType, params.ItemID)
		if err != nil {
			return err
		}
		core := item.Core()

		fromColumn, err := findColumn(tx, core.ColumnID, "item not found")
		if err != nil {
			return err
		}
		if fromColumn.BoardID != params.BoardID {
			return response.NewNotFoundError("item not found", "")
		}

		toColumn, err := findColumn(tx, params.TargetColumnID, "target column not found")
		if err != nil {
			return err
		}
		if toColumn.BoardID != params.BoardID {
			return response.NewNotFoundError("target column not found", "")
		}

		if toColumn.ID != fromColumn.ID {
			count, err := countActiveInColumn(tx, toColumn.ID)
			if err != nil {
				return err
			}
			if toColumn.WipLimit > 0 && count >= int64(toColumn.WipLimit) {
				return wipLimitError(toColumn, count)
			}
		}

		core.ColumnID = toColumn.ID
		core.Position = params.TargetPosition
		if err := saveItem(tx, item); err != nil {
			return err
		}

		result = MoveItemResult{Item: item, FromColumn: fromColumn, ToColumn: toColumn}
		return nil
	})
	if err != nil {
		return nil, s.wrapError(err)
	}
	return &result, nil
}

// CreateItem inserts a new item at the end of a column after the WIP check
func (s *boardStateStoreImpl) CreateItem(ctx context.Context, params CreateItemParams) (domain.Item, error) {
	lock := s.locks.get(params.BoardID)
	lock.Lock()
	defer lock.Unlock()

	var created domain.Item
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		column, err := findColumn(tx, params.ColumnID, "column not found")
		if err != nil {
			return err
		}
		if column.BoardID != params.BoardID {
			return response.NewNotFoundError("column not found", "")
		}

		count, err := countActiveInColumn(tx, column.ID)
		if err != nil {
			return err
		}
		if column.WipLimit > 0 && count >= int64(column.WipLimit) {
			return wipLimitError(column, count)
		}

		base := domain.WorkItem{
			ColumnID:    column.ID,
			Title:       params.Title,
			Description: params.Description,
			AssigneeID:  params.AssigneeID,
			Priority:    params.Priority,
			DueDate:     params.DueDate,
			Position:    int(count),
			CreatorID:   params.CreatorID,
		}
		if base.Priority == "" {
			base.Priority = domain.PriorityMedium
		}

		switch params.ItemType {
		case domain.ItemTypeBug:
			bug := &domain.Bug{
				WorkItem:    base,
				Severity:    params.Severity,
				Environment: params.Environment,
				ReproSteps:  params.ReproSteps,
			}
			if bug.Severity == "" {
				bug.Severity = domain.SeverityMedium
			}
			if err := tx.Create(bug).Error; err != nil {
				return err
			}
			created = bug
		case domain.ItemTypeFeature:
			feature := &domain.Feature{
				WorkItem:       base,
				Category:       params.Category,
				EstimatedHours: params.EstimatedHours,
				SpecURL:        params.SpecURL,
			}
			if feature.Category == "" {
				feature.Category = domain.FeatureCategoryBackend
			}
			if err := tx.Create(feature).Error; err != nil {
				return err
			}
			created = feature
		default:
			return response.NewValidationError("unknown item type", string(params.ItemType))
		}
		return nil
	})
	if err != nil {
		return nil, s.wrapError(err)
	}
	return created, nil
}

// AddComment creates a comment bound to exactly one item variant
func (s *boardStateStoreImpl) AddComment(ctx context.Context, params AddCommentParams) (*domain.Comment, error) {
	var created *domain.Comment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if strings.TrimSpace(params.Text) == "" {
			return response.NewValidationError("comment text cannot be empty", "")
		}

		item, err := findItem(tx, params.ItemType, params.ItemID)
		if err != nil {
			return err
		}

		comment := &domain.Comment{
			AuthorID: params.AuthorID,
			Text:     params.Text,
		}
		itemID := item.Core().ID
		switch params.ItemType {
		case domain.ItemTypeBug:
			comment.BugID = &itemID
		case domain.ItemTypeFeature:
			comment.FeatureID = &itemID
		}

		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		created = comment
		return nil
	})
	if err != nil {
		return nil, s.wrapError(err)
	}
	return created, nil
}

// StartTimeEntry opens a time entry for the item's assignee. A user may hold
// at most one open entry across all items; the partial unique index backstops
// the in-transaction check against races.
func (s *boardStateStoreImpl) StartTimeEntry(ctx context.Context, params StartTimeEntryParams) (*domain.TimeEntry, error) {
	var created *domain.TimeEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := findItem(tx, params.ItemType, params.ItemID)
		if err != nil {
			return err
		}
		core := item.Core()
		if core.AssigneeID == nil || *core.AssigneeID != params.UserID {
			return response.NewValidationError("time entries can only be started by the item's assignee", "")
		}

		var existing domain.TimeEntry
		err = tx.Where("user_id = ? AND ended_at IS NULL", params.UserID).First(&existing).Error
		if err == nil {
			return response.NewValidationError("user already has an open time entry",
				"stop the running entry before starting a new one")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		startedAt := params.StartedAt
		if startedAt.IsZero() {
			startedAt = time.Now()
		}

		entry := &domain.TimeEntry{
			UserID:    params.UserID,
			StartedAt: startedAt,
		}
		itemID := core.ID
		switch params.ItemType {
		case domain.ItemTypeBug:
			entry.BugID = &itemID
		case domain.ItemTypeFeature:
			entry.FeatureID = &itemID
		}

		if err := tx.Create(entry).Error; err != nil {
			if isUniqueViolation(err) {
				return response.NewValidationError("user already has an open time entry", "")
			}
			return err
		}
		created = entry
		return nil
	})
	if err != nil {
		return nil, s.wrapError(err)
	}
	return created, nil
}

// StopTimeEntry closes a running entry. The end must lie strictly after the
// start and only the owning user may close it.
func (s *boardStateStoreImpl) StopTimeEntry(ctx context.Context, params StopTimeEntryParams) (*domain.TimeEntry, error) {
	var closed *domain.TimeEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry domain.TimeEntry
		if err := tx.First(&entry, params.EntryID).Error; err != nil {
			return notFoundOr(err, "time entry not found")
		}

		if entry.UserID != params.UserID {
			return response.NewValidationError("time entry belongs to another user", "")
		}
		if !entry.Open() {
			return response.NewValidationError("time entry is already closed", "")
		}

		endedAt := params.EndedAt
		if endedAt.IsZero() {
			endedAt = time.Now()
		}
		if !endedAt.After(entry.StartedAt) {
			return response.NewValidationError("end time must be after start time", "")
		}

		entry.EndedAt = &endedAt
		if err := tx.Save(&entry).Error; err != nil {
			return err
		}
		closed = &entry
		return nil
	})
	if err != nil {
		return nil, s.wrapError(err)
	}
	return closed, nil
}

// wrapError passes typed errors through and converts driver-level contention
// into a conflict the caller may retry once
func (s *boardStateStoreImpl) wrapError(err error) error {
	var appErr *response.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if isSerializationFailure(err) {
		s.logger.Warn("Transaction hit write contention", zap.Error(err))
		return response.NewConflictError("concurrent modification detected", "")
	}
	return err
}

func findItem(tx *gorm.DB, itemType domain.ItemType, id uuid.UUID) (domain.Item, error) {
	switch itemType {
	case domain.ItemTypeBug:
		var bug domain.Bug
		if err := tx.First(&bug, id).Error; err != nil {
			return nil, notFoundOr(err, "item not found")
		}
		return &bug, nil
	case domain.ItemTypeFeature:
		var feature domain.Feature
		if err := tx.First(&feature, id).Error; err != nil {
			return nil, notFoundOr(err, "item not found")
		}
		return &feature, nil
	default:
		return nil, response.NewValidationError("unknown item type", string(itemType))
	}
}

func saveItem(tx *gorm.DB, item domain.Item) error {
	switch it := item.(type) {
	case *domain.Bug:
		return tx.Save(it).Error
	case *domain.Feature:
		return tx.Save(it).Error
	default:
		return fmt.Errorf("unsupported item type: %T", item)
	}
}

func findColumn(tx *gorm.DB, id uuid.UUID, notFoundMsg string) (*domain.Column, error) {
	var column domain.Column
	if err := tx.First(&column, id).Error; err != nil {
		return nil, notFoundOr(err, notFoundMsg)
	}
	return &column, nil
}

// countActiveInColumn counts non-archived items of both variants
func countActiveInColumn(tx *gorm.DB, columnID uuid.UUID) (int64, error) {
	var bugs int64
	if err := tx.Model(&domain.Bug{}).
		Where("column_id = ? AND archived = ?", columnID, false).
		Count(&bugs).Error; err != nil {
		return 0, err
	}

	var features int64
	if err := tx.Model(&domain.Feature{}).
		Where("column_id = ? AND archived = ?", columnID, false).
		Count(&features).Error; err != nil {
		return 0, err
	}
	return bugs + features, nil
}

func wipLimitError(column *domain.Column, count int64) error {
	return response.NewWipLimitError("wip limit reached for column",
		fmt.Sprintf("column %q holds %d of %d items", column.Title, count, column.WipLimit))
}

func notFoundOr(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NewNotFoundError(msg, "")
	}
	return err
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

func isSerializationFailure(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "could not serialize") ||
		strings.Contains(msg, "deadlock detected") ||
		strings.Contains(msg, "database is locked")
}
