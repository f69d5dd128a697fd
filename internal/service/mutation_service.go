package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/vinilopesc/vortex-board/internal/access"
	"github.com/vinilopesc/vortex-board/internal/domain"
	"github.com/vinilopesc/vortex-board/internal/dto"
	"github.com/vinilopesc/vortex-board/internal/metrics"
	"github.com/vinilopesc/vortex-board/internal/repository"
	"github.com/vinilopesc/vortex-board/internal/response"
	"github.com/vinilopesc/vortex-board/internal/store"
	"github.com/vinilopesc/vortex-board/internal/ws"
)

// MutationService coordinates board mutations: authorization through the
// access gate, the atomic state change through the store, then the event
// journal and the websocket broadcast. Journal and broadcast failures are
// logged and never roll back a committed mutation.
type MutationService interface {
	MoveItem(ctx context.Context, principal access.Principal, req dto.MoveItemRequest) (*dto.MoveItemResponse, error)
	CreateItem(ctx context.Context, principal access.Principal, req dto.CreateItemRequest) (*dto.ItemResponse, error)
	UpdateItem(ctx context.Context, principal access.Principal, itemType domain.ItemType, itemID uuid.UUID, req dto.UpdateItemRequest) (*dto.ItemResponse, error)
	ArchiveItem(ctx context.Context, principal access.Principal, req dto.ArchiveItemRequest) error
	AddComment(ctx context.Context, principal access.Principal, req dto.AddCommentRequest) (*dto.CommentResponse, error)
	ListComments(ctx context.Context, principal access.Principal, itemType domain.ItemType, itemID uuid.UUID) ([]dto.CommentResponse, error)
	StartTimeEntry(ctx context.Context, principal access.Principal, req dto.StartTimeEntryRequest) (*dto.TimeEntryResponse, error)
	StopTimeEntry(ctx context.Context, principal access.Principal, entryID uuid.UUID) (*dto.TimeEntryResponse, error)
	ListTimeEntries(ctx context.Context, principal access.Principal, itemType domain.ItemType, itemID uuid.UUID) ([]dto.TimeEntryResponse, error)
}

type mutationServiceImpl struct {
	stateStore    store.BoardStateStore
	itemRepo      repository.ItemRepository
	boardRepo     repository.BoardRepository
	projectRepo   repository.ProjectRepository
	userRepo      repository.UserRepository
	commentRepo   repository.CommentRepository
	timeEntryRepo repository.TimeEntryRepository
	eventRepo     repository.BoardEventRepository
	gate          access.AccessGate
	publisher     EventPublisher
	metrics       *metrics.Metrics
	logger        *zap.Logger
}

// NewMutationService creates a new mutation service
func NewMutationService(
	stateStore store.BoardStateStore,
	itemRepo repository.ItemRepository,
	boardRepo repository.BoardRepository,
	projectRepo repository.ProjectRepository,
	userRepo repository.UserRepository,
	commentRepo repository.CommentRepository,
	timeEntryRepo repository.TimeEntryRepository,
	eventRepo repository.BoardEventRepository,
	gate access.AccessGate,
	publisher EventPublisher,
	m *metrics.Metrics,
	logger *zap.Logger,
) MutationService {
	return &mutationServiceImpl{
		stateStore:    stateStore,
		itemRepo:      itemRepo,
		boardRepo:     boardRepo,
		projectRepo:   projectRepo,
		userRepo:      userRepo,
		commentRepo:   commentRepo,
		timeEntryRepo: timeEntryRepo,
		eventRepo:     eventRepo,
		gate:          gate,
		publisher:     publisher,
		metrics:       m,
		logger:        logger,
	}
}

// itemContext carries an item together with its resolved ownership chain
type itemContext struct {
	item    domain.Item
	column  *domain.Column
	board   *domain.Board
	project *domain.Project
}

// resolveItemChain walks item -> column -> board -> project. Every gap in
// the chain reads as a missing item so callers cannot probe structure they
// are not allowed to see.
func resolveItemChain(
	ctx context.Context,
	itemRepo repository.ItemRepository,
	boardRepo repository.BoardRepository,
	projectRepo repository.ProjectRepository,
	itemType domain.ItemType,
	itemID uuid.UUID,
) (*itemContext, error) {
	if !itemType.Valid() {
		return nil, response.NewValidationError("unknown item type", "")
	}
	item, err := itemRepo.Find(ctx, itemType, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("item not found", "")
		}
		return nil, err
	}
	column, err := boardRepo.FindColumnByID(ctx, item.Core().ColumnID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("item not found", "")
		}
		return nil, err
	}
	board, err := boardRepo.FindByID(ctx, column.BoardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("item not found", "")
		}
		return nil, err
	}
	project, err := projectRepo.FindByID(ctx, board.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("item not found", "")
		}
		return nil, err
	}
	return &itemContext{item: item, column: column, board: board, project: project}, nil
}

func (s *mutationServiceImpl) resolveItem(ctx context.Context, itemType domain.ItemType, itemID uuid.UUID) (*itemContext, error) {
	return resolveItemChain(ctx, s.itemRepo, s.boardRepo, s.projectRepo, itemType, itemID)
}

// resourceFor builds the gate resource for an item mutation
func (s *mutationServiceImpl) resourceFor(ctx context.Context, principal access.Principal, ic *itemContext) (access.Resource, error) {
	member, err := s.projectRepo.IsMember(ctx, ic.project.ID, principal.UserID)
	if err != nil {
		return access.Resource{}, err
	}
	return access.Resource{
		Tenant:     ic.project.Owner.Tenant,
		Member:     member,
		AssigneeID: ic.item.Core().AssigneeID,
	}, nil
}

// resolveColumnChain walks column -> board -> project for operations that
// target a column before any item exists. Gaps in the chain read as a
// missing column.
func (s *mutationServiceImpl) resolveColumnChain(ctx context.Context, columnID uuid.UUID) (*domain.Column, *domain.Board, *domain.Project, error) {
	column, err := s.boardRepo.FindColumnByID(ctx, columnID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, response.NewNotFoundError("column not found", "")
		}
		return nil, nil, nil, err
	}
	board, err := s.boardRepo.FindByID(ctx, column.BoardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, response.NewNotFoundError("column not found", "")
		}
		return nil, nil, nil, err
	}
	project, err := s.projectRepo.FindByID(ctx, board.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, response.NewNotFoundError("column not found", "")
		}
		return nil, nil, nil, err
	}
	return column, board, project, nil
}

// isConflict reports whether err is the store's concurrent-modification error
func isConflict(err error) bool {
	var appErr *response.AppError
	return errors.As(err, &appErr) && appErr.Code == response.ErrCodeConflict
}

func (s *mutationServiceImpl) recordMutation(operation, result string) {
	if s.metrics != nil {
		s.metrics.RecordMutation(operation, result)
	}
}

// recordFailure labels a failed mutation for the metrics pipeline
func (s *mutationServiceImpl) recordFailure(operation string, err error) {
	var appErr *response.AppError
	if !errors.As(err, &appErr) {
		s.recordMutation(operation, "error")
		return
	}
	switch appErr.Code {
	case response.ErrCodeWipLimitExceeded:
		if s.metrics != nil {
			s.metrics.IncrementWipRejection()
		}
		s.recordMutation(operation, "wip_rejected")
	case response.ErrCodeConflict:
		s.recordMutation(operation, "conflict")
	default:
		s.recordMutation(operation, "rejected")
	}
}

// actorName resolves the display name for event payloads. Lookup failures
// degrade to an empty name rather than failing the mutation.
func (s *mutationServiceImpl) actorName(ctx context.Context, userID uuid.UUID) string {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		s.logger.Warn("Failed to resolve actor name for event",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return ""
	}
	return user.Name
}

// journalAndPublish appends the event to the board journal and fans it out
// to connected sessions. Both steps are best-effort after commit.
func (s *mutationServiceImpl) journalAndPublish(ctx context.Context, boardID, actorID uuid.UUID, eventType string, payload interface{}) {
	raw, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("Failed to marshal board event payload",
			zap.String("event_type", eventType),
			zap.Error(err))
		return
	}
	event := &domain.BoardEvent{
		BoardID: boardID,
		Type:    eventType,
		ActorID: actorID,
		Payload: datatypes.JSON(raw),
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		s.logger.Error("Failed to journal board event",
			zap.String("board_id", boardID.String()),
			zap.String("event_type", eventType),
			zap.Error(err))
	}
	if s.publisher != nil {
		s.publisher.Publish(ctx, boardID, ws.NewEnvelope(eventType, payload), nil)
	}
}

// notifyAssignee pushes a personal notification to the item's assignee.
// Actions a user takes on their own items stay silent.
func (s *mutationServiceImpl) notifyAssignee(ctx context.Context, assigneeID *uuid.UUID, actorID uuid.UUID, payload ws.NotificationPayload) {
	if s.publisher == nil || assigneeID == nil || *assigneeID == actorID {
		return
	}
	payload.NotificationID = uuid.New()
	s.publisher.PublishToUser(ctx, *assigneeID, ws.NewEnvelope(ws.EventNotification, payload))
}

// validateAssignee checks that a requested assignee is a member of the
// project. Unknown and foreign-tenant users fail the same way so nothing
// about other tenants leaks through assignment errors.
func (s *mutationServiceImpl) validateAssignee(ctx context.Context, principal access.Principal, projectID uuid.UUID, assigneeID uuid.UUID) error {
	assignee, err := s.userRepo.FindByID(ctx, assigneeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewValidationError("assignee must be a project member", "")
		}
		return err
	}
	if !s.gate.SameTenant(principal, assignee.Tenant) {
		return response.NewValidationError("assignee must be a project member", "")
	}
	member, err := s.projectRepo.IsMember(ctx, projectID, assigneeID)
	if err != nil {
		return err
	}
	if !member {
		return response.NewValidationError("assignee must be a project member", "")
	}
	return nil
}

func (s *mutationServiceImpl) MoveItem(ctx context.Context, principal access.Principal, req dto.MoveItemRequest) (*dto.MoveItemResponse, error) {
	itemType := domain.ItemType(req.ItemType)
	ic, err := s.resolveItem(ctx, itemType, req.ItemID)
	if err != nil {
		return nil, err
	}
	resource, err := s.resourceFor(ctx, principal, ic)
	if err != nil {
		return nil, err
	}
	if err := s.gate.AuthorizeMutation(principal, resource, access.ActionMoveItem); err != nil {
		s.recordMutation("move_item", "denied")
		return nil, err
	}

	params := store.MoveItemParams{
		BoardID:        ic.board.ID,
		ItemType:       itemType,
		ItemID:         req.ItemID,
		TargetColumnID: req.TargetColumnID,
		TargetPosition: req.Position,
	}
	result, err := s.stateStore.MoveItem(ctx, params)
	if isConflict(err) {
		s.logger.Warn("Move hit concurrent modification, retrying once",
			zap.String("item_id", req.ItemID.String()),
			zap.String("board_id", ic.board.ID.String()))
		result, err = s.stateStore.MoveItem(ctx, params)
	}
	if err != nil {
		s.recordFailure("move_item", err)
		return nil, err
	}
	s.recordMutation("move_item", "success")

	s.logger.Info("Item moved",
		zap.String("item_id", req.ItemID.String()),
		zap.String("from_column", result.FromColumn.ID.String()),
		zap.String("to_column", result.ToColumn.ID.String()),
		zap.String("actor_id", principal.UserID.String()))

	actor := s.actorName(ctx, principal.UserID)
	s.journalAndPublish(ctx, ic.board.ID, principal.UserID, ws.EventItemMoved, ws.ItemMovedPayload{
		ItemID:        req.ItemID,
		ItemType:      string(itemType),
		FromColumnID:  result.FromColumn.ID,
		ToColumnID:    result.ToColumn.ID,
		ToColumnTitle: result.ToColumn.Title,
		Position:      result.Item.Core().Position,
		ActorID:       principal.UserID,
		ActorName:     actor,
	})
	s.notifyAssignee(ctx, result.Item.Core().AssigneeID, principal.UserID, ws.NotificationPayload{
		Kind:      ws.NotificationItemMoved,
		ItemID:    req.ItemID,
		ItemType:  string(itemType),
		ItemTitle: result.Item.Core().Title,
		BoardID:   ic.board.ID,
		ActorName: actor,
		Text:      fmt.Sprintf("%s moved %q to %s", actor, result.Item.Core().Title, result.ToColumn.Title),
	})

	return &dto.MoveItemResponse{
		ItemID:        req.ItemID,
		Type:          string(itemType),
		FromColumnID:  result.FromColumn.ID,
		ToColumnID:    result.ToColumn.ID,
		ToColumnTitle: result.ToColumn.Title,
		Position:      result.Item.Core().Position,
	}, nil
}

func (s *mutationServiceImpl) CreateItem(ctx context.Context, principal access.Principal, req dto.CreateItemRequest) (*dto.ItemResponse, error) {
	column, board, project, err := s.resolveColumnChain(ctx, req.ColumnID)
	if err != nil {
		return nil, err
	}
	member, err := s.projectRepo.IsMember(ctx, project.ID, principal.UserID)
	if err != nil {
		return nil, err
	}
	resource := access.Resource{Tenant: project.Owner.Tenant, Member: member}
	if err := s.gate.AuthorizeMutation(principal, resource, access.ActionCreateItem); err != nil {
		s.recordMutation("create_item", "denied")
		return nil, err
	}

	if req.AssigneeID != nil {
		if err := s.validateAssignee(ctx, principal, project.ID, *req.AssigneeID); err != nil {
			return nil, err
		}
	}

	itemType := domain.ItemType(req.Type)
	params := store.CreateItemParams{
		BoardID:        board.ID,
		ColumnID:       column.ID,
		ItemType:       itemType,
		Title:          req.Title,
		Description:    req.Description,
		AssigneeID:     req.AssigneeID,
		Priority:       domain.Priority(req.Priority),
		DueDate:        req.DueDate,
		CreatorID:      principal.UserID,
		Severity:       domain.Severity(req.Severity),
		Environment:    req.Environment,
		ReproSteps:     req.ReproSteps,
		Category:       domain.FeatureCategory(req.Category),
		EstimatedHours: req.EstimatedHours,
		SpecURL:        req.SpecURL,
	}
	item, err := s.stateStore.CreateItem(ctx, params)
	if isConflict(err) {
		s.logger.Warn("Create hit concurrent modification, retrying once",
			zap.String("board_id", board.ID.String()))
		item, err = s.stateStore.CreateItem(ctx, params)
	}
	if err != nil {
		s.recordFailure("create_item", err)
		return nil, err
	}
	s.recordMutation("create_item", "success")
	if s.metrics != nil {
		s.metrics.IncrementItemCreated(string(itemType))
	}

	s.logger.Info("Item created",
		zap.String("item_id", item.Core().ID.String()),
		zap.String("item_type", string(itemType)),
		zap.String("board_id", board.ID.String()),
		zap.String("actor_id", principal.UserID.String()))

	actor := s.actorName(ctx, principal.UserID)
	s.journalAndPublish(ctx, board.ID, principal.UserID, ws.EventItemCreated, ws.ItemCreatedPayload{
		ItemID:    item.Core().ID,
		ItemType:  string(itemType),
		ColumnID:  item.Core().ColumnID,
		Title:     item.Core().Title,
		Points:    item.Points(),
		ActorID:   principal.UserID,
		ActorName: actor,
	})
	s.notifyAssignee(ctx, item.Core().AssigneeID, principal.UserID, ws.NotificationPayload{
		Kind:      ws.NotificationItemAssigned,
		ItemID:    item.Core().ID,
		ItemType:  string(itemType),
		ItemTitle: item.Core().Title,
		BoardID:   board.ID,
		ActorName: actor,
		Text:      fmt.Sprintf("%s assigned %q to you", actor, item.Core().Title),
	})

	resp := dto.NewItemResponse(item, false)
	return &resp, nil
}

func (s *mutationServiceImpl) UpdateItem(ctx context.Context, principal access.Principal, itemType domain.ItemType, itemID uuid.UUID, req dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	ic, err := s.resolveItem(ctx, itemType, itemID)
	if err != nil {
		return nil, err
	}
	resource, err := s.resourceFor(ctx, principal, ic)
	if err != nil {
		return nil, err
	}
	if err := s.gate.AuthorizeMutation(principal, resource, access.ActionEditItem); err != nil {
		s.recordMutation("edit_item", "denied")
		return nil, err
	}

	if req.AssigneeID != nil {
		if err := s.validateAssignee(ctx, principal, ic.project.ID, *req.AssigneeID); err != nil {
			return nil, err
		}
	}

	core := ic.item.Core()
	if req.Title != nil {
		core.Title = *req.Title
	}
	if req.Description != nil {
		core.Description = *req.Description
	}
	var reassigned bool
	if req.AssigneeID != nil {
		reassigned = core.AssigneeID == nil || *core.AssigneeID != *req.AssigneeID
		core.AssigneeID = req.AssigneeID
	}
	if req.Priority != nil {
		core.Priority = domain.Priority(*req.Priority)
	}
	if req.DueDate != nil {
		core.DueDate = req.DueDate
	}
	switch item := ic.item.(type) {
	case *domain.Bug:
		if req.Severity != nil {
			item.Severity = domain.Severity(*req.Severity)
		}
		if req.Environment != nil {
			item.Environment = *req.Environment
		}
		if req.ReproSteps != nil {
			item.ReproSteps = *req.ReproSteps
		}
	case *domain.Feature:
		if req.Category != nil {
			item.Category = domain.FeatureCategory(*req.Category)
		}
		if req.EstimatedHours != nil {
			item.EstimatedHours = *req.EstimatedHours
		}
		if req.SpecURL != nil {
			item.SpecURL = *req.SpecURL
		}
	}

	if err := s.itemRepo.Save(ctx, ic.item); err != nil {
		s.recordFailure("edit_item", err)
		return nil, err
	}
	s.recordMutation("edit_item", "success")

	s.journalAndPublish(ctx, ic.board.ID, principal.UserID, ws.EventBoardRefresh, ws.BoardRefreshPayload{Reason: "item_updated"})

	if reassigned {
		actor := s.actorName(ctx, principal.UserID)
		s.notifyAssignee(ctx, core.AssigneeID, principal.UserID, ws.NotificationPayload{
			Kind:      ws.NotificationItemAssigned,
			ItemID:    itemID,
			ItemType:  string(itemType),
			ItemTitle: core.Title,
			BoardID:   ic.board.ID,
			ActorName: actor,
			Text:      fmt.Sprintf("%s assigned %q to you", actor, core.Title),
		})
	}

	overdue := core.Overdue(time.Now(), ic.column.IsDone)
	resp := dto.NewItemResponse(ic.item, overdue)
	return &resp, nil
}

func (s *mutationServiceImpl) ArchiveItem(ctx context.Context, principal access.Principal, req dto.ArchiveItemRequest) error {
	ic, err := s.resolveItem(ctx, domain.ItemType(req.ItemType), req.ItemID)
	if err != nil {
		return err
	}
	resource, err := s.resourceFor(ctx, principal, ic)
	if err != nil {
		return err
	}
	if err := s.gate.AuthorizeMutation(principal, resource, access.ActionEditItem); err != nil {
		s.recordMutation("archive_item", "denied")
		return err
	}

	if ic.item.Core().Archived {
		return nil
	}
	ic.item.Core().Archived = true
	if err := s.itemRepo.Save(ctx, ic.item); err != nil {
		s.recordFailure("archive_item", err)
		return err
	}
	s.recordMutation("archive_item", "success")

	s.logger.Info("Item archived",
		zap.String("item_id", req.ItemID.String()),
		zap.String("actor_id", principal.UserID.String()))

	s.journalAndPublish(ctx, ic.board.ID, principal.UserID, ws.EventBoardRefresh, ws.BoardRefreshPayload{Reason: "item_archived"})
	return nil
}

func (s *mutationServiceImpl) AddComment(ctx context.Context, principal access.Principal, req dto.AddCommentRequest) (*dto.CommentResponse, error) {
	itemType := domain.ItemType(req.ItemType)
	ic, err := s.resolveItem(ctx, itemType, req.ItemID)
	if err != nil {
		return nil, err
	}
	resource, err := s.resourceFor(ctx, principal, ic)
	if err != nil {
		return nil, err
	}
	if err := s.gate.AuthorizeMutation(principal, resource, access.ActionComment); err != nil {
		s.recordMutation("comment", "denied")
		return nil, err
	}

	comment, err := s.stateStore.AddComment(ctx, store.AddCommentParams{
		ItemType: itemType,
		ItemID:   req.ItemID,
		AuthorID: principal.UserID,
		Text:     req.Text,
	})
	if err != nil {
		s.recordFailure("comment", err)
		return nil, err
	}
	s.recordMutation("comment", "success")

	author, err := s.userRepo.FindByID(ctx, principal.UserID)
	if err == nil {
		comment.Author = *author
	}

	s.journalAndPublish(ctx, ic.board.ID, principal.UserID, ws.EventCommentAdded, ws.CommentAddedPayload{
		CommentID:  comment.ID,
		ItemID:     req.ItemID,
		ItemType:   string(itemType),
		AuthorID:   principal.UserID,
		AuthorName: comment.Author.Name,
		Text:       comment.Text,
	})
	s.notifyAssignee(ctx, ic.item.Core().AssigneeID, principal.UserID, ws.NotificationPayload{
		Kind:      ws.NotificationItemCommented,
		ItemID:    req.ItemID,
		ItemType:  string(itemType),
		ItemTitle: ic.item.Core().Title,
		BoardID:   ic.board.ID,
		ActorName: comment.Author.Name,
		Text:      fmt.Sprintf("%s commented on %q", comment.Author.Name, ic.item.Core().Title),
	})

	resp := dto.NewCommentResponse(comment)
	return &resp, nil
}

func (s *mutationServiceImpl) ListComments(ctx context.Context, principal access.Principal, itemType domain.ItemType, itemID uuid.UUID) ([]dto.CommentResponse, error) {
	ic, err := s.resolveItem(ctx, itemType, itemID)
	if err != nil {
		return nil, err
	}
	resource, err := s.resourceFor(ctx, principal, ic)
	if err != nil {
		return nil, err
	}
	if err := s.gate.AuthorizeRead(principal, resource); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.FindByItem(ctx, itemType, itemID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		result = append(result, dto.NewCommentResponse(comment))
	}
	return result, nil
}

func (s *mutationServiceImpl) StartTimeEntry(ctx context.Context, principal access.Principal, req dto.StartTimeEntryRequest) (*dto.TimeEntryResponse, error) {
	itemType := domain.ItemType(req.ItemType)
	ic, err := s.resolveItem(ctx, itemType, req.ItemID)
	if err != nil {
		return nil, err
	}
	resource, err := s.resourceFor(ctx, principal, ic)
	if err != nil {
		return nil, err
	}
	if err := s.gate.AuthorizeMutation(principal, resource, access.ActionTrackTime); err != nil {
		s.recordMutation("start_time_entry", "denied")
		return nil, err
	}

	entry, err := s.stateStore.StartTimeEntry(ctx, store.StartTimeEntryParams{
		ItemType: itemType,
		ItemID:   req.ItemID,
		UserID:   principal.UserID,
	})
	if err != nil {
		s.recordFailure("start_time_entry", err)
		return nil, err
	}
	s.recordMutation("start_time_entry", "success")

	s.logger.Info("Time entry started",
		zap.String("entry_id", entry.ID.String()),
		zap.String("item_id", req.ItemID.String()),
		zap.String("user_id", principal.UserID.String()))

	resp := dto.NewTimeEntryResponse(entry)
	return &resp, nil
}

func (s *mutationServiceImpl) StopTimeEntry(ctx context.Context, principal access.Principal, entryID uuid.UUID) (*dto.TimeEntryResponse, error) {
	existing, err := s.timeEntryRepo.FindByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("time entry not found", "")
		}
		return nil, err
	}
	entryType, entryItemID := existing.ItemRef()
	ic, err := s.resolveItem(ctx, entryType, entryItemID)
	if err != nil {
		return nil, err
	}
	resource, err := s.resourceFor(ctx, principal, ic)
	if err != nil {
		return nil, err
	}
	if err := s.gate.AuthorizeMutation(principal, resource, access.ActionTrackTime); err != nil {
		s.recordMutation("stop_time_entry", "denied")
		return nil, err
	}

	entry, err := s.stateStore.StopTimeEntry(ctx, store.StopTimeEntryParams{
		EntryID: entryID,
		UserID:  principal.UserID,
	})
	if err != nil {
		s.recordFailure("stop_time_entry", err)
		return nil, err
	}
	s.recordMutation("stop_time_entry", "success")

	s.logger.Info("Time entry stopped",
		zap.String("entry_id", entry.ID.String()),
		zap.Float64("hours", entry.Duration()),
		zap.String("user_id", principal.UserID.String()))

	resp := dto.NewTimeEntryResponse(entry)
	return &resp, nil
}

func (s *mutationServiceImpl) ListTimeEntries(ctx context.Context, principal access.Principal, itemType domain.ItemType, itemID uuid.UUID) ([]dto.TimeEntryResponse, error) {
	ic, err := s.resolveItem(ctx, itemType, itemID)
	if err != nil {
		return nil, err
	}
	resource, err := s.resourceFor(ctx, principal, ic)
	if err != nil {
		return nil, err
	}
	if err := s.gate.AuthorizeRead(principal, resource); err != nil {
		return nil, err
	}

	entries, err := s.timeEntryRepo.FindByItem(ctx, itemType, itemID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.TimeEntryResponse, 0, len(entries))
	for _, entry := range entries {
		result = append(result, dto.NewTimeEntryResponse(entry))
	}
	return result, nil
}
