package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vinilopesc/vortex-board/internal/access"
	"github.com/vinilopesc/vortex-board/internal/domain"
	"github.com/vinilopesc/vortex-board/internal/dto"
	"github.com/vinilopesc/vortex-board/internal/metrics"
	"github.com/vinilopesc/vortex-board/internal/repository"
	"github.com/vinilopesc/vortex-board/internal/response"
	"github.com/vinilopesc/vortex-board/internal/ws"
)

// BoardService defines the interface for board and column management
type BoardService interface {
	CreateBoard(ctx context.Context, principal access.Principal, req dto.CreateBoardRequest) (*dto.BoardResponse, error)
	GetBoard(ctx context.Context, principal access.Principal, boardID uuid.UUID) (*dto.BoardDetailResponse, error)
	ListBoards(ctx context.Context, principal access.Principal, projectID uuid.UUID) ([]dto.BoardResponse, error)
	UpdateColumn(ctx context.Context, principal access.Principal, columnID uuid.UUID, req dto.UpdateColumnRequest) (*dto.ColumnResponse, error)
	SearchItems(ctx context.Context, principal access.Principal, boardID uuid.UUID, req dto.SearchItemsRequest) ([]dto.ItemResponse, error)
	RecentEvents(ctx context.Context, principal access.Principal, boardID uuid.UUID, limit int) ([]dto.BoardEventResponse, error)

	// AuthorizeBoardAccess resolves a board and checks the principal may
	// read it. Websocket sessions call this once before the upgrade.
	AuthorizeBoardAccess(ctx context.Context, principal access.Principal, boardID uuid.UUID) (*domain.Board, error)

	// BuildSyncState assembles the column occupancy snapshot sent in
	// reply to sync_board requests. The session is already authorized,
	// so no principal is taken here.
	BuildSyncState(ctx context.Context, boardID uuid.UUID) (*dto.BoardSyncState, error)
}

const (
	defaultEventHistoryLimit = 50
	maxEventHistoryLimit     = 200
)

type boardServiceImpl struct {
	boardRepo   repository.BoardRepository
	projectRepo repository.ProjectRepository
	itemRepo    repository.ItemRepository
	eventRepo   repository.BoardEventRepository
	gate        access.AccessGate
	publisher   EventPublisher
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewBoardService creates a new board service
func NewBoardService(
	boardRepo repository.BoardRepository,
	projectRepo repository.ProjectRepository,
	itemRepo repository.ItemRepository,
	eventRepo repository.BoardEventRepository,
	gate access.AccessGate,
	publisher EventPublisher,
	m *metrics.Metrics,
	logger *zap.Logger,
) BoardService {
	return &boardServiceImpl{
		boardRepo:   boardRepo,
		projectRepo: projectRepo,
		itemRepo:    itemRepo,
		eventRepo:   eventRepo,
		gate:        gate,
		publisher:   publisher,
		metrics:     m,
		logger:      logger,
	}
}

// boardResource loads a board and builds the gate resource from its owning
// project. Missing boards and cross-tenant boards read identically.
func (s *boardServiceImpl) boardResource(ctx context.Context, principal access.Principal, boardID uuid.UUID) (*domain.Board, access.Resource, error) {
	board, err := s.boardRepo.FindByID(ctx, boardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, access.Resource{}, response.NewNotFoundError("board not found", "")
		}
		return nil, access.Resource{}, err
	}
	resource, err := s.resourceForProject(ctx, principal, board.ProjectID)
	if err != nil {
		return nil, access.Resource{}, err
	}
	return board, resource, nil
}

func (s *boardServiceImpl) resourceForProject(ctx context.Context, principal access.Principal, projectID uuid.UUID) (access.Resource, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return access.Resource{}, err
	}
	member, err := s.projectRepo.IsMember(ctx, project.ID, principal.UserID)
	if err != nil {
		return access.Resource{}, err
	}
	return access.Resource{Tenant: project.Owner.Tenant, Member: member}, nil
}

func (s *boardServiceImpl) CreateBoard(ctx context.Context, principal access.Principal, req dto.CreateBoardRequest) (*dto.BoardResponse, error) {
	resource, err := s.resourceForProject(ctx, principal, req.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("project not found", "")
		}
		return nil, err
	}
	if err := s.gate.AuthorizeMutation(principal, resource, access.ActionManageBoard); err != nil {
		return nil, err
	}

	board := &domain.Board{
		ProjectID: req.ProjectID,
		Name:      req.Name,
	}
	if err := s.boardRepo.Create(ctx, board); err != nil {
		return nil, err
	}

	// provision the default layout in the same request; the last column
	// is the completion column
	columns := make([]*domain.Column, 0, len(domain.DefaultColumnTitles))
	for i, title := range domain.DefaultColumnTitles {
		columns = append(columns, &domain.Column{
			BoardID:  board.ID,
			Title:    title,
			Position: i,
			WipLimit: 0,
			IsDone:   i == len(domain.DefaultColumnTitles)-1,
		})
	}
	if err := s.boardRepo.CreateColumns(ctx, columns); err != nil {
		return nil, err
	}
	for _, column := range columns {
		board.Columns = append(board.Columns, *column)
	}

	s.logger.Info("Board created",
		zap.String("board_id", board.ID.String()),
		zap.String("project_id", req.ProjectID.String()),
		zap.String("actor_id", principal.UserID.String()))

	if s.metrics != nil {
		s.metrics.IncrementBoardCreated()
	}

	resp := dto.NewBoardResponse(board)
	return &resp, nil
}

func (s *boardServiceImpl) GetBoard(ctx context.Context, principal access.Principal, boardID uuid.UUID) (*dto.BoardDetailResponse, error) {
	board, resource, err := s.boardResource(ctx, principal, boardID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.AuthorizeRead(principal, resource); err != nil {
		return nil, err
	}

	bugs, err := s.itemRepo.FindBugsByBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	features, err := s.itemRepo.FindFeaturesByBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}

	itemsByColumn := make(map[uuid.UUID][]domain.Item)
	for _, bug := range bugs {
		itemsByColumn[bug.ColumnID] = append(itemsByColumn[bug.ColumnID], bug)
	}
	for _, feature := range features {
		itemsByColumn[feature.ColumnID] = append(itemsByColumn[feature.ColumnID], feature)
	}

	now := time.Now()
	detail := &dto.BoardDetailResponse{
		BoardID:   board.ID,
		ProjectID: board.ProjectID,
		Name:      board.Name,
		Columns:   make([]dto.ColumnWithItemsResponse, 0, len(board.Columns)),
		CreatedAt: board.CreatedAt,
	}
	for i := range board.Columns {
		column := &board.Columns[i]
		items := itemsByColumn[column.ID]
		sort.SliceStable(items, func(a, b int) bool {
			ca, cb := items[a].Core(), items[b].Core()
			if ca.Position != cb.Position {
				return ca.Position < cb.Position
			}
			return ca.CreatedAt.Before(cb.CreatedAt)
		})
		itemResponses := make([]dto.ItemResponse, 0, len(items))
		for _, item := range items {
			overdue := item.Core().Overdue(now, column.IsDone)
			itemResponses = append(itemResponses, dto.NewItemResponse(item, overdue))
		}
		detail.Columns = append(detail.Columns, dto.ColumnWithItemsResponse{
			ColumnResponse: dto.NewColumnResponse(column),
			ActiveCount:    len(items),
			Items:          itemResponses,
		})
	}
	return detail, nil
}

func (s *boardServiceImpl) ListBoards(ctx context.Context, principal access.Principal, projectID uuid.UUID) ([]dto.BoardResponse, error) {
	resource, err := s.resourceForProject(ctx, principal, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("project not found", "")
		}
		return nil, err
	}
	if err := s.gate.AuthorizeRead(principal, resource); err != nil {
		return nil, err
	}

	boards, err := s.boardRepo.FindByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.BoardResponse, 0, len(boards))
	for _, board := range boards {
		result = append(result, dto.NewBoardResponse(board))
	}
	return result, nil
}

func (s *boardServiceImpl) UpdateColumn(ctx context.Context, principal access.Principal, columnID uuid.UUID, req dto.UpdateColumnRequest) (*dto.ColumnResponse, error) {
	column, err := s.boardRepo.FindColumnByID(ctx, columnID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("column not found", "")
		}
		return nil, err
	}
	_, resource, err := s.boardResource(ctx, principal, column.BoardID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.AuthorizeMutation(principal, resource, access.ActionManageBoard); err != nil {
		return nil, err
	}

	if req.Title != nil {
		column.Title = *req.Title
	}
	if req.WipLimit != nil {
		// lowering below current occupancy is allowed; existing items
		// stay and only new entries are blocked
		column.WipLimit = *req.WipLimit
	}
	if req.IsDone != nil {
		column.IsDone = *req.IsDone
	}
	if err := s.boardRepo.UpdateColumn(ctx, column); err != nil {
		return nil, err
	}

	s.logger.Info("Column updated",
		zap.String("board_id", column.BoardID.String()),
		zap.String("column_id", columnID.String()),
		zap.String("actor_id", principal.UserID.String()))

	if s.publisher != nil {
		env := ws.NewEnvelope(ws.EventBoardRefresh, ws.BoardRefreshPayload{Reason: "column_updated"})
		s.publisher.Publish(ctx, column.BoardID, env, nil)
	}

	resp := dto.NewColumnResponse(column)
	return &resp, nil
}

func (s *boardServiceImpl) SearchItems(ctx context.Context, principal access.Principal, boardID uuid.UUID, req dto.SearchItemsRequest) ([]dto.ItemResponse, error) {
	_, resource, err := s.boardResource(ctx, principal, boardID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.AuthorizeRead(principal, resource); err != nil {
		return nil, err
	}

	query := strings.ToLower(strings.TrimSpace(req.Query))
	matches := func(core *domain.WorkItem) bool {
		if query != "" &&
			!strings.Contains(strings.ToLower(core.Title), query) &&
			!strings.Contains(strings.ToLower(core.Description), query) {
			return false
		}
		if req.Priority != "" && core.Priority != domain.Priority(req.Priority) {
			return false
		}
		if req.AssigneeID != nil && (core.AssigneeID == nil || *core.AssigneeID != *req.AssigneeID) {
			return false
		}
		return true
	}

	now := time.Now()
	result := make([]dto.ItemResponse, 0)
	if req.Type != string(domain.ItemTypeFeature) {
		bugs, err := s.itemRepo.SearchBugsByBoard(ctx, boardID, req.IncludeArchived)
		if err != nil {
			return nil, err
		}
		for _, bug := range bugs {
			if matches(&bug.WorkItem) {
				result = append(result, dto.NewItemResponse(bug, bug.Overdue(now, bug.Column.IsDone)))
			}
		}
	}
	if req.Type != string(domain.ItemTypeBug) {
		features, err := s.itemRepo.SearchFeaturesByBoard(ctx, boardID, req.IncludeArchived)
		if err != nil {
			return nil, err
		}
		for _, feature := range features {
			if matches(&feature.WorkItem) {
				result = append(result, dto.NewItemResponse(feature, feature.Overdue(now, feature.Column.IsDone)))
			}
		}
	}
	// merged across both tables, so re-sort by last change
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	return result, nil
}

func (s *boardServiceImpl) RecentEvents(ctx context.Context, principal access.Principal, boardID uuid.UUID, limit int) ([]dto.BoardEventResponse, error) {
	_, resource, err := s.boardResource(ctx, principal, boardID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.AuthorizeRead(principal, resource); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultEventHistoryLimit
	}
	if limit > maxEventHistoryLimit {
		limit = maxEventHistoryLimit
	}
	events, err := s.eventRepo.FindRecentByBoard(ctx, boardID, limit)
	if err != nil {
		return nil, err
	}
	result := make([]dto.BoardEventResponse, 0, len(events))
	for _, event := range events {
		result = append(result, dto.NewBoardEventResponse(event))
	}
	return result, nil
}

func (s *boardServiceImpl) AuthorizeBoardAccess(ctx context.Context, principal access.Principal, boardID uuid.UUID) (*domain.Board, error) {
	board, resource, err := s.boardResource(ctx, principal, boardID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.AuthorizeRead(principal, resource); err != nil {
		return nil, err
	}
	return board, nil
}

func (s *boardServiceImpl) BuildSyncState(ctx context.Context, boardID uuid.UUID) (*dto.BoardSyncState, error) {
	columns, err := s.boardRepo.FindColumnsByBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	columnIDs := make([]uuid.UUID, 0, len(columns))
	for _, column := range columns {
		columnIDs = append(columnIDs, column.ID)
	}
	counts, err := s.itemRepo.CountActiveByColumns(ctx, columnIDs)
	if err != nil {
		return nil, err
	}

	state := &dto.BoardSyncState{
		BoardID:     boardID,
		Columns:     make([]dto.ColumnSyncState, 0, len(columns)),
		GeneratedAt: time.Now().UTC(),
	}
	for _, column := range columns {
		state.Columns = append(state.Columns, dto.ColumnSyncState{
			ColumnID:    column.ID,
			Title:       column.Title,
			ActiveCount: counts[column.ID],
			WipLimit:    column.WipLimit,
		})
	}
	return state, nil
}
