package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vinilopesc/vortex-board/internal/domain"
	"github.com/vinilopesc/vortex-board/internal/store"
	"github.com/vinilopesc/vortex-board/internal/ws"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	CreateFunc        func(ctx context.Context, user *domain.User) error
	FindByIDFunc      func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByEmailFunc   func(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmailFunc func(ctx context.Context, email string) (bool, error)
	UpdateFunc        func(ctx context.Context, user *domain.User) error
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.ExistsByEmailFunc != nil {
		return m.ExistsByEmailFunc(ctx, email)
	}
	return false, nil
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	return nil
}

// MockProjectRepository is a mock implementation of ProjectRepository
type MockProjectRepository struct {
	CreateFunc             func(ctx context.Context, project *domain.Project) error
	FindByIDFunc           func(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	FindActiveByMemberFunc func(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error)
	FindActiveByTenantFunc func(ctx context.Context, tenant string) ([]*domain.Project, error)
	UpdateFunc             func(ctx context.Context, project *domain.Project) error
	DeactivateFunc         func(ctx context.Context, id uuid.UUID) error
	AddMemberFunc          func(ctx context.Context, member *domain.ProjectMember) error
	RemoveMemberFunc       func(ctx context.Context, projectID, userID uuid.UUID) error
	IsMemberFunc           func(ctx context.Context, projectID, userID uuid.UUID) (bool, error)
	FindMembersFunc        func(ctx context.Context, projectID uuid.UUID) ([]*domain.ProjectMember, error)
}

func (m *MockProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, project)
	}
	return nil
}

func (m *MockProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockProjectRepository) FindActiveByMember(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error) {
	if m.FindActiveByMemberFunc != nil {
		return m.FindActiveByMemberFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockProjectRepository) FindActiveByTenant(ctx context.Context, tenant string) ([]*domain.Project, error) {
	if m.FindActiveByTenantFunc != nil {
		return m.FindActiveByTenantFunc(ctx, tenant)
	}
	return nil, nil
}

func (m *MockProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, project)
	}
	return nil
}

func (m *MockProjectRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	if m.DeactivateFunc != nil {
		return m.DeactivateFunc(ctx, id)
	}
	return nil
}

func (m *MockProjectRepository) AddMember(ctx context.Context, member *domain.ProjectMember) error {
	if m.AddMemberFunc != nil {
		return m.AddMemberFunc(ctx, member)
	}
	return nil
}

func (m *MockProjectRepository) RemoveMember(ctx context.Context, projectID, userID uuid.UUID) error {
	if m.RemoveMemberFunc != nil {
		return m.RemoveMemberFunc(ctx, projectID, userID)
	}
	return nil
}

func (m *MockProjectRepository) IsMember(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
	if m.IsMemberFunc != nil {
		return m.IsMemberFunc(ctx, projectID, userID)
	}
	return false, nil
}

func (m *MockProjectRepository) FindMembers(ctx context.Context, projectID uuid.UUID) ([]*domain.ProjectMember, error) {
	if m.FindMembersFunc != nil {
		return m.FindMembersFunc(ctx, projectID)
	}
	return nil, nil
}

// MockBoardRepository is a mock implementation of BoardRepository
type MockBoardRepository struct {
	CreateFunc             func(ctx context.Context, board *domain.Board) error
	FindByIDFunc           func(ctx context.Context, id uuid.UUID) (*domain.Board, error)
	FindByProjectFunc      func(ctx context.Context, projectID uuid.UUID) ([]*domain.Board, error)
	FindByColumnIDFunc     func(ctx context.Context, columnID uuid.UUID) (*domain.Board, error)
	UpdateFunc             func(ctx context.Context, board *domain.Board) error
	CreateColumnsFunc      func(ctx context.Context, columns []*domain.Column) error
	FindColumnByIDFunc     func(ctx context.Context, id uuid.UUID) (*domain.Column, error)
	FindColumnsByBoardFunc func(ctx context.Context, boardID uuid.UUID) ([]*domain.Column, error)
	UpdateColumnFunc       func(ctx context.Context, column *domain.Column) error
}

func (m *MockBoardRepository) Create(ctx context.Context, board *domain.Board) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, board)
	}
	return nil
}

func (m *MockBoardRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockBoardRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Board, error) {
	if m.FindByProjectFunc != nil {
		return m.FindByProjectFunc(ctx, projectID)
	}
	return nil, nil
}

func (m *MockBoardRepository) FindByColumnID(ctx context.Context, columnID uuid.UUID) (*domain.Board, error) {
	if m.FindByColumnIDFunc != nil {
		return m.FindByColumnIDFunc(ctx, columnID)
	}
	return nil, nil
}

func (m *MockBoardRepository) Update(ctx context.Context, board *domain.Board) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, board)
	}
	return nil
}

func (m *MockBoardRepository) CreateColumns(ctx context.Context, columns []*domain.Column) error {
	if m.CreateColumnsFunc != nil {
		return m.CreateColumnsFunc(ctx, columns)
	}
	return nil
}

func (m *MockBoardRepository) FindColumnByID(ctx context.Context, id uuid.UUID) (*domain.Column, error) {
	if m.FindColumnByIDFunc != nil {
		return m.FindColumnByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockBoardRepository) FindColumnsByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.Column, error) {
	if m.FindColumnsByBoardFunc != nil {
		return m.FindColumnsByBoardFunc(ctx, boardID)
	}
	return nil, nil
}

func (m *MockBoardRepository) UpdateColumn(ctx context.Context, column *domain.Column) error {
	if m.UpdateColumnFunc != nil {
		return m.UpdateColumnFunc(ctx, column)
	}
	return nil
}

// MockItemRepository is a mock implementation of ItemRepository
type MockItemRepository struct {
	CreateBugFunc                  func(ctx context.Context, bug *domain.Bug) error
	CreateFeatureFunc              func(ctx context.Context, feature *domain.Feature) error
	FindBugByIDFunc                func(ctx context.Context, id uuid.UUID) (*domain.Bug, error)
	FindFeatureByIDFunc            func(ctx context.Context, id uuid.UUID) (*domain.Feature, error)
	FindFunc                       func(ctx context.Context, itemType domain.ItemType, id uuid.UUID) (domain.Item, error)
	SaveFunc                       func(ctx context.Context, item domain.Item) error
	FindBugsByColumnFunc           func(ctx context.Context, columnID uuid.UUID) ([]*domain.Bug, error)
	FindFeaturesByColumnFunc       func(ctx context.Context, columnID uuid.UUID) ([]*domain.Feature, error)
	FindBugsByBoardFunc            func(ctx context.Context, boardID uuid.UUID) ([]*domain.Bug, error)
	FindFeaturesByBoardFunc        func(ctx context.Context, boardID uuid.UUID) ([]*domain.Feature, error)
	CountActiveInColumnFunc        func(ctx context.Context, columnID uuid.UUID) (int64, error)
	CountActiveByColumnsFunc       func(ctx context.Context, columnIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	FindBugsInColumnsSinceFunc     func(ctx context.Context, columnIDs []uuid.UUID, since time.Time) ([]*domain.Bug, error)
	FindFeaturesInColumnsSinceFunc func(ctx context.Context, columnIDs []uuid.UUID, since time.Time) ([]*domain.Feature, error)
	SearchBugsByBoardFunc          func(ctx context.Context, boardID uuid.UUID, includeArchived bool) ([]*domain.Bug, error)
	SearchFeaturesByBoardFunc      func(ctx context.Context, boardID uuid.UUID, includeArchived bool) ([]*domain.Feature, error)
	FindOverdueBugsFunc            func(ctx context.Context, before time.Time) ([]*domain.Bug, error)
	FindOverdueFeaturesFunc        func(ctx context.Context, before time.Time) ([]*domain.Feature, error)
}

func (m *MockItemRepository) CreateBug(ctx context.Context, bug *domain.Bug) error {
	if m.CreateBugFunc != nil {
		return m.CreateBugFunc(ctx, bug)
	}
	return nil
}

func (m *MockItemRepository) CreateFeature(ctx context.Context, feature *domain.Feature) error {
	if m.CreateFeatureFunc != nil {
		return m.CreateFeatureFunc(ctx, feature)
	}
	return nil
}

func (m *MockItemRepository) FindBugByID(ctx context.Context, id uuid.UUID) (*domain.Bug, error) {
	if m.FindBugByIDFunc != nil {
		return m.FindBugByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockItemRepository) FindFeatureByID(ctx context.Context, id uuid.UUID) (*domain.Feature, error) {
	if m.FindFeatureByIDFunc != nil {
		return m.FindFeatureByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockItemRepository) Find(ctx context.Context, itemType domain.ItemType, id uuid.UUID) (domain.Item, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx, itemType, id)
	}
	return nil, nil
}

func (m *MockItemRepository) Save(ctx context.Context, item domain.Item) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, item)
	}
	return nil
}

func (m *MockItemRepository) FindBugsByColumn(ctx context.Context, columnID uuid.UUID) ([]*domain.Bug, error) {
	if m.FindBugsByColumnFunc != nil {
		return m.FindBugsByColumnFunc(ctx, columnID)
	}
	return nil, nil
}

func (m *MockItemRepository) FindFeaturesByColumn(ctx context.Context, columnID uuid.UUID) ([]*domain.Feature, error) {
	if m.FindFeaturesByColumnFunc != nil {
		return m.FindFeaturesByColumnFunc(ctx, columnID)
	}
	return nil, nil
}

func (m *MockItemRepository) FindBugsByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.Bug, error) {
	if m.FindBugsByBoardFunc != nil {
		return m.FindBugsByBoardFunc(ctx, boardID)
	}
	return nil, nil
}

func (m *MockItemRepository) FindFeaturesByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.Feature, error) {
	if m.FindFeaturesByBoardFunc != nil {
		return m.FindFeaturesByBoardFunc(ctx, boardID)
	}
	return nil, nil
}

func (m *MockItemRepository) CountActiveInColumn(ctx context.Context, columnID uuid.UUID) (int64, error) {
	if m.CountActiveInColumnFunc != nil {
		return m.CountActiveInColumnFunc(ctx, columnID)
	}
	return 0, nil
}

func (m *MockItemRepository) CountActiveByColumns(ctx context.Context, columnIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	if m.CountActiveByColumnsFunc != nil {
		return m.CountActiveByColumnsFunc(ctx, columnIDs)
	}
	return map[uuid.UUID]int64{}, nil
}

func (m *MockItemRepository) FindBugsInColumnsSince(ctx context.Context, columnIDs []uuid.UUID, since time.Time) ([]*domain.Bug, error) {
	if m.FindBugsInColumnsSinceFunc != nil {
		return m.FindBugsInColumnsSinceFunc(ctx, columnIDs, since)
	}
	return nil, nil
}

func (m *MockItemRepository) FindFeaturesInColumnsSince(ctx context.Context, columnIDs []uuid.UUID, since time.Time) ([]*domain.Feature, error) {
	if m.FindFeaturesInColumnsSinceFunc != nil {
		return m.FindFeaturesInColumnsSinceFunc(ctx, columnIDs, since)
	}
	return nil, nil
}

func (m *MockItemRepository) SearchBugsByBoard(ctx context.Context, boardID uuid.UUID, includeArchived bool) ([]*domain.Bug, error) {
	if m.SearchBugsByBoardFunc != nil {
		return m.SearchBugsByBoardFunc(ctx, boardID, includeArchived)
	}
	return nil, nil
}

func (m *MockItemRepository) SearchFeaturesByBoard(ctx context.Context, boardID uuid.UUID, includeArchived bool) ([]*domain.Feature, error) {
	if m.SearchFeaturesByBoardFunc != nil {
		return m.SearchFeaturesByBoardFunc(ctx, boardID, includeArchived)
	}
	return nil, nil
}

func (m *MockItemRepository) FindOverdueBugs(ctx context.Context, before time.Time) ([]*domain.Bug, error) {
	if m.FindOverdueBugsFunc != nil {
		return m.FindOverdueBugsFunc(ctx, before)
	}
	return nil, nil
}

func (m *MockItemRepository) FindOverdueFeatures(ctx context.Context, before time.Time) ([]*domain.Feature, error) {
	if m.FindOverdueFeaturesFunc != nil {
		return m.FindOverdueFeaturesFunc(ctx, before)
	}
	return nil, nil
}

// MockCommentRepository is a mock implementation of CommentRepository
type MockCommentRepository struct {
	CreateFunc              func(ctx context.Context, comment *domain.Comment) error
	FindByIDFunc            func(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	FindByItemFunc          func(ctx context.Context, itemType domain.ItemType, itemID uuid.UUID) ([]*domain.Comment, error)
	UpdateFunc              func(ctx context.Context, comment *domain.Comment) error
	CountByItemFunc         func(ctx context.Context, itemType domain.ItemType, itemID uuid.UUID) (int64, error)
	CountByBoardBetweenFunc func(ctx context.Context, boardID uuid.UUID, start, end time.Time) (int64, error)
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, comment)
	}
	return nil
}

func (m *MockCommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockCommentRepository) FindByItem(ctx context.Context, itemType domain.ItemType, itemID uuid.UUID) ([]*domain.Comment, error) {
	if m.FindByItemFunc != nil {
		return m.FindByItemFunc(ctx, itemType, itemID)
	}
	return nil, nil
}

func (m *MockCommentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, comment)
	}
	return nil
}

func (m *MockCommentRepository) CountByItem(ctx context.Context, itemType domain.ItemType, itemID uuid.UUID) (int64, error) {
	if m.CountByItemFunc != nil {
		return m.CountByItemFunc(ctx, itemType, itemID)
	}
	return 0, nil
}

func (m *MockCommentRepository) CountByBoardBetween(ctx context.Context, boardID uuid.UUID, start, end time.Time) (int64, error) {
	if m.CountByBoardBetweenFunc != nil {
		return m.CountByBoardBetweenFunc(ctx, boardID, start, end)
	}
	return 0, nil
}

// MockTimeEntryRepository is a mock implementation of TimeEntryRepository
type MockTimeEntryRepository struct {
	CreateFunc             func(ctx context.Context, entry *domain.TimeEntry) error
	FindByIDFunc           func(ctx context.Context, id uuid.UUID) (*domain.TimeEntry, error)
	FindOpenByUserFunc     func(ctx context.Context, userID uuid.UUID) (*domain.TimeEntry, error)
	SaveFunc               func(ctx context.Context, entry *domain.TimeEntry) error
	FindByItemFunc         func(ctx context.Context, itemType domain.ItemType, itemID uuid.UUID) ([]*domain.TimeEntry, error)
	FindByUserBetweenFunc  func(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*domain.TimeEntry, error)
	FindByBoardBetweenFunc func(ctx context.Context, boardID uuid.UUID, start, end time.Time) ([]*domain.TimeEntry, error)
	CountOpenByBoardFunc   func(ctx context.Context, boardID uuid.UUID) (int64, error)
}

func (m *MockTimeEntryRepository) Create(ctx context.Context, entry *domain.TimeEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, entry)
	}
	return nil
}

func (m *MockTimeEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.TimeEntry, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockTimeEntryRepository) FindOpenByUser(ctx context.Context, userID uuid.UUID) (*domain.TimeEntry, error) {
	if m.FindOpenByUserFunc != nil {
		return m.FindOpenByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockTimeEntryRepository) Save(ctx context.Context, entry *domain.TimeEntry) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, entry)
	}
	return nil
}

func (m *MockTimeEntryRepository) FindByItem(ctx context.Context, itemType domain.ItemType, itemID uuid.UUID) ([]*domain.TimeEntry, error) {
	if m.FindByItemFunc != nil {
		return m.FindByItemFunc(ctx, itemType, itemID)
	}
	return nil, nil
}

func (m *MockTimeEntryRepository) FindByUserBetween(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*domain.TimeEntry, error) {
	if m.FindByUserBetweenFunc != nil {
		return m.FindByUserBetweenFunc(ctx, userID, start, end)
	}
	return nil, nil
}

func (m *MockTimeEntryRepository) FindByBoardBetween(ctx context.Context, boardID uuid.UUID, start, end time.Time) ([]*domain.TimeEntry, error) {
	if m.FindByBoardBetweenFunc != nil {
		return m.FindByBoardBetweenFunc(ctx, boardID, start, end)
	}
	return nil, nil
}

func (m *MockTimeEntryRepository) CountOpenByBoard(ctx context.Context, boardID uuid.UUID) (int64, error) {
	if m.CountOpenByBoardFunc != nil {
		return m.CountOpenByBoardFunc(ctx, boardID)
	}
	return 0, nil
}

// MockBoardEventRepository is a mock implementation of BoardEventRepository
type MockBoardEventRepository struct {
	CreateFunc            func(ctx context.Context, event *domain.BoardEvent) error
	FindRecentByBoardFunc func(ctx context.Context, boardID uuid.UUID, limit int) ([]*domain.BoardEvent, error)
}

func (m *MockBoardEventRepository) Create(ctx context.Context, event *domain.BoardEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, event)
	}
	return nil
}

func (m *MockBoardEventRepository) FindRecentByBoard(ctx context.Context, boardID uuid.UUID, limit int) ([]*domain.BoardEvent, error) {
	if m.FindRecentByBoardFunc != nil {
		return m.FindRecentByBoardFunc(ctx, boardID, limit)
	}
	return nil, nil
}

// MockAttachmentRepository is a mock implementation of AttachmentRepository
type MockAttachmentRepository struct {
	CreateFunc                     func(ctx context.Context, attachment *domain.Attachment) error
	FindByIDFunc                   func(ctx context.Context, id uuid.UUID) (*domain.Attachment, error)
	FindByItemFunc                 func(ctx context.Context, itemType domain.ItemType, itemID uuid.UUID) ([]*domain.Attachment, error)
	FindByIDsFunc                  func(ctx context.Context, ids []uuid.UUID) ([]*domain.Attachment, error)
	DeleteFunc                     func(ctx context.Context, id uuid.UUID) error
	FindExpiredTempAttachmentsFunc func(ctx context.Context) ([]*domain.Attachment, error)
	ConfirmAttachmentsFunc         func(ctx context.Context, attachmentIDs []uuid.UUID, itemType domain.ItemType, itemID uuid.UUID) error
	DeleteBatchFunc                func(ctx context.Context, attachmentIDs []uuid.UUID) error
}

func (m *MockAttachmentRepository) Create(ctx context.Context, attachment *domain.Attachment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, attachment)
	}
	return nil
}

func (m *MockAttachmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Attachment, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockAttachmentRepository) FindByItem(ctx context.Context, itemType domain.ItemType, itemID uuid.UUID) ([]*domain.Attachment, error) {
	if m.FindByItemFunc != nil {
		return m.FindByItemFunc(ctx, itemType, itemID)
	}
	return nil, nil
}

func (m *MockAttachmentRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Attachment, error) {
	if m.FindByIDsFunc != nil {
		return m.FindByIDsFunc(ctx, ids)
	}
	return nil, nil
}

func (m *MockAttachmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockAttachmentRepository) FindExpiredTempAttachments(ctx context.Context) ([]*domain.Attachment, error) {
	if m.FindExpiredTempAttachmentsFunc != nil {
		return m.FindExpiredTempAttachmentsFunc(ctx)
	}
	return nil, nil
}

func (m *MockAttachmentRepository) ConfirmAttachments(ctx context.Context, attachmentIDs []uuid.UUID, itemType domain.ItemType, itemID uuid.UUID) error {
	if m.ConfirmAttachmentsFunc != nil {
		return m.ConfirmAttachmentsFunc(ctx, attachmentIDs, itemType, itemID)
	}
	return nil
}

func (m *MockAttachmentRepository) DeleteBatch(ctx context.Context, attachmentIDs []uuid.UUID) error {
	if m.DeleteBatchFunc != nil {
		return m.DeleteBatchFunc(ctx, attachmentIDs)
	}
	return nil
}

// MockBoardStateStore is a mock implementation of store.BoardStateStore
type MockBoardStateStore struct {
	MoveItemFunc       func(ctx context.Context, params store.MoveItemParams) (*store.MoveItemResult, error)
	CreateItemFunc     func(ctx context.Context, params store.CreateItemParams) (domain.Item, error)
	AddCommentFunc     func(ctx context.Context, params store.AddCommentParams) (*domain.Comment, error)
	StartTimeEntryFunc func(ctx context.Context, params store.StartTimeEntryParams) (*domain.TimeEntry, error)
	StopTimeEntryFunc  func(ctx context.Context, params store.StopTimeEntryParams) (*domain.TimeEntry, error)
}

func (m *MockBoardStateStore) MoveItem(ctx context.Context, params store.MoveItemParams) (*store.MoveItemResult, error) {
	if m.MoveItemFunc != nil {
		return m.MoveItemFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockBoardStateStore) CreateItem(ctx context.Context, params store.CreateItemParams) (domain.Item, error) {
	if m.CreateItemFunc != nil {
		return m.CreateItemFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockBoardStateStore) AddComment(ctx context.Context, params store.AddCommentParams) (*domain.Comment, error) {
	if m.AddCommentFunc != nil {
		return m.AddCommentFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockBoardStateStore) StartTimeEntry(ctx context.Context, params store.StartTimeEntryParams) (*domain.TimeEntry, error) {
	if m.StartTimeEntryFunc != nil {
		return m.StartTimeEntryFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockBoardStateStore) StopTimeEntry(ctx context.Context, params store.StopTimeEntryParams) (*domain.TimeEntry, error) {
	if m.StopTimeEntryFunc != nil {
		return m.StopTimeEntryFunc(ctx, params)
	}
	return nil, nil
}

// PublishedEvent records one Publish call for assertions
type PublishedEvent struct {
	BoardID uuid.UUID
	Env     ws.Envelope
	Exclude *uuid.UUID
}

// PublishedUserEvent records one PublishToUser call for assertions
type PublishedUserEvent struct {
	UserID uuid.UUID
	Env    ws.Envelope
}

// MockEventPublisher captures published events instead of broadcasting them
type MockEventPublisher struct {
	mu         sync.Mutex
	Events     []PublishedEvent
	UserEvents []PublishedUserEvent
}

func (m *MockEventPublisher) Publish(ctx context.Context, boardID uuid.UUID, env ws.Envelope, exclude *uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, PublishedEvent{BoardID: boardID, Env: env, Exclude: exclude})
}

func (m *MockEventPublisher) PublishToUser(ctx context.Context, userID uuid.UUID, env ws.Envelope) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UserEvents = append(m.UserEvents, PublishedUserEvent{UserID: userID, Env: env})
}

func (m *MockEventPublisher) Published() []PublishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PublishedEvent, len(m.Events))
	copy(out, m.Events)
	return out
}

func (m *MockEventPublisher) PublishedToUsers() []PublishedUserEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PublishedUserEvent, len(m.UserEvents))
	copy(out, m.UserEvents)
	return out
}

// MockS3Client is a mock implementation of storage.S3Client
type MockS3Client struct {
	GeneratePresignedURLFunc func(ctx context.Context, variant, tenant, fileName, contentType string) (string, string, error)
	DeleteFileFunc           func(ctx context.Context, key string) error
	GetFileURLFunc           func(key string) string
}

func (m *MockS3Client) GeneratePresignedURL(ctx context.Context, variant, tenant, fileName, contentType string) (string, string, error) {
	if m.GeneratePresignedURLFunc != nil {
		return m.GeneratePresignedURLFunc(ctx, variant, tenant, fileName, contentType)
	}
	return "https://bucket.example.com/upload", "vortex/" + variant + "/" + tenant + "/key", nil
}

func (m *MockS3Client) DeleteFile(ctx context.Context, key string) error {
	if m.DeleteFileFunc != nil {
		return m.DeleteFileFunc(ctx, key)
	}
	return nil
}

func (m *MockS3Client) GetFileURL(key string) string {
	if m.GetFileURLFunc != nil {
		return m.GetFileURLFunc(key)
	}
	return "https://bucket.example.com/" + key
}
