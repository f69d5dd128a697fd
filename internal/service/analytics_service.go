package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vinilopesc/vortex-board/internal/access"
	"github.com/vinilopesc/vortex-board/internal/domain"
	"github.com/vinilopesc/vortex-board/internal/dto"
	"github.com/vinilopesc/vortex-board/internal/repository"
	"github.com/vinilopesc/vortex-board/internal/response"
	"github.com/vinilopesc/vortex-board/internal/util"
)

const (
	defaultVelocityWindowDays = 30
	defaultBurndownWindowDays = 14
	bottleneckWarningPercent  = 80.0
)

// AnalyticsService computes read-only board metrics. All operations are
// member-gated reads; none of them mutate state.
type AnalyticsService interface {
	Velocity(ctx context.Context, principal access.Principal, boardID uuid.UUID, windowDays int) (*dto.VelocityResponse, error)
	Burndown(ctx context.Context, principal access.Principal, boardID uuid.UUID, windowDays int) (*dto.BurndownResponse, error)
	Workload(ctx context.Context, principal access.Principal, boardID uuid.UUID) (*dto.WorkloadResponse, error)
	Bottlenecks(ctx context.Context, principal access.Principal, boardID uuid.UUID) (*dto.BottlenecksResponse, error)
	DailySummary(ctx context.Context, principal access.Principal, boardID uuid.UUID) (*dto.DailySummaryResponse, error)
	OverdueItems(ctx context.Context, principal access.Principal, boardID uuid.UUID) ([]dto.ItemResponse, error)
	ProjectMetrics(ctx context.Context, principal access.Principal, projectID uuid.UUID) (*dto.ProjectMetricsResponse, error)
}

type analyticsServiceImpl struct {
	boardRepo     repository.BoardRepository
	projectRepo   repository.ProjectRepository
	itemRepo      repository.ItemRepository
	commentRepo   repository.CommentRepository
	timeEntryRepo repository.TimeEntryRepository
	gate          access.AccessGate
	logger        *zap.Logger
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(
	boardRepo repository.BoardRepository,
	projectRepo repository.ProjectRepository,
	itemRepo repository.ItemRepository,
	commentRepo repository.CommentRepository,
	timeEntryRepo repository.TimeEntryRepository,
	gate access.AccessGate,
	logger *zap.Logger,
) AnalyticsService {
	return &analyticsServiceImpl{
		boardRepo:     boardRepo,
		projectRepo:   projectRepo,
		itemRepo:      itemRepo,
		commentRepo:   commentRepo,
		timeEntryRepo: timeEntryRepo,
		gate:          gate,
		logger:        logger,
	}
}

// authorizeBoardRead resolves the board's project and checks read access
func (s *analyticsServiceImpl) authorizeBoardRead(ctx context.Context, principal access.Principal, boardID uuid.UUID) (*domain.Board, *domain.Project, error) {
	board, err := s.boardRepo.FindByID(ctx, boardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, response.NewNotFoundError("board not found", "")
		}
		return nil, nil, err
	}
	project, err := s.projectRepo.FindByID(ctx, board.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, response.NewNotFoundError("board not found", "")
		}
		return nil, nil, err
	}
	member, err := s.projectRepo.IsMember(ctx, project.ID, principal.UserID)
	if err != nil {
		return nil, nil, err
	}
	resource := access.Resource{Tenant: project.Owner.Tenant, Member: member}
	if err := s.gate.AuthorizeRead(principal, resource); err != nil {
		return nil, nil, err
	}
	return board, project, nil
}

func (s *analyticsServiceImpl) doneColumnIDs(board *domain.Board) []uuid.UUID {
	var ids []uuid.UUID
	for _, column := range board.Columns {
		if column.IsDone {
			ids = append(ids, column.ID)
		}
	}
	return ids
}

func (s *analyticsServiceImpl) Velocity(ctx context.Context, principal access.Principal, boardID uuid.UUID, windowDays int) (*dto.VelocityResponse, error) {
	board, _, err := s.authorizeBoardRead(ctx, principal, boardID)
	if err != nil {
		return nil, err
	}
	if windowDays <= 0 {
		windowDays = defaultVelocityWindowDays
	}
	cutoff := time.Now().AddDate(0, 0, -windowDays)

	doneIDs := s.doneColumnIDs(board)
	bugs, err := s.itemRepo.FindBugsInColumnsSince(ctx, doneIDs, cutoff)
	if err != nil {
		return nil, err
	}
	features, err := s.itemRepo.FindFeaturesInColumnsSince(ctx, doneIDs, cutoff)
	if err != nil {
		return nil, err
	}

	bugPoints := 0
	for _, bug := range bugs {
		bugPoints += bug.Points()
	}
	featurePoints := 0
	for _, feature := range features {
		featurePoints += feature.Points()
	}
	total := bugPoints + featurePoints

	return &dto.VelocityResponse{
		BoardID:           boardID,
		WindowDays:        windowDays,
		CompletedBugs:     len(bugs),
		CompletedFeatures: len(features),
		CompletedItems:    len(bugs) + len(features),
		BugPoints:         bugPoints,
		FeaturePoints:     featurePoints,
		CompletedPoints:   total,
		PointsPerDay:      math.Round(float64(total)/float64(windowDays)*100) / 100,
	}, nil
}

func (s *analyticsServiceImpl) Burndown(ctx context.Context, principal access.Principal, boardID uuid.UUID, windowDays int) (*dto.BurndownResponse, error) {
	if _, _, err := s.authorizeBoardRead(ctx, principal, boardID); err != nil {
		return nil, err
	}
	if windowDays <= 0 {
		windowDays = defaultBurndownWindowDays
	}

	bugs, err := s.itemRepo.FindBugsByBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	features, err := s.itemRepo.FindFeaturesByBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}

	total := 0
	// points completed per calendar day, keyed by the item's last update
	completedByDay := make(map[string]int)
	record := func(points int, column domain.Column, updatedAt time.Time) {
		total += points
		if column.IsDone {
			completedByDay[updatedAt.Format("2006-01-02")] += points
		}
	}
	for _, bug := range bugs {
		record(bug.Points(), bug.Column, bug.UpdatedAt)
	}
	for _, feature := range features {
		record(feature.Points(), feature.Column, feature.UpdatedAt)
	}

	start := time.Now().AddDate(0, 0, -windowDays)
	resp := &dto.BurndownResponse{
		BoardID:    boardID,
		WindowDays: windowDays,
		Days:       make([]dto.BurndownPoint, 0, windowDays+1),
	}
	cumulative := 0
	for day := 0; day <= windowDays; day++ {
		date := start.AddDate(0, 0, day).Format("2006-01-02")
		completed := completedByDay[date]
		cumulative += completed
		remaining := total - cumulative
		if remaining < 0 {
			remaining = 0
		}
		ideal := float64(total) - float64(total)*float64(day)/float64(windowDays)
		resp.Days = append(resp.Days, dto.BurndownPoint{
			Date:            date,
			CompletedPoints: completed,
			RemainingPoints: remaining,
			IdealPoints:     math.Round(ideal*100) / 100,
		})
	}
	resp.TotalPoints = total
	resp.CompletedPoints = cumulative
	resp.RemainingPoints = resp.Days[len(resp.Days)-1].RemainingPoints
	return resp, nil
}

func (s *analyticsServiceImpl) Workload(ctx context.Context, principal access.Principal, boardID uuid.UUID) (*dto.WorkloadResponse, error) {
	_, project, err := s.authorizeBoardRead(ctx, principal, boardID)
	if err != nil {
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

	entries := make(map[uuid.UUID]*dto.WorkloadEntry)
	addMember := func(user domain.User) {
		if _, ok := entries[user.ID]; ok {
			return
		}
		entries[user.ID] = &dto.WorkloadEntry{
			UserID:   user.ID,
			UserName: user.Name,
			Color:    util.UserColor(user.Email),
		}
	}
	addMember(project.Owner)
	members, err := s.projectRepo.FindMembers(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	for _, member := range members {
		addMember(member.User)
	}

	for _, bug := range bugs {
		if bug.AssigneeID == nil || bug.Column.IsDone {
			continue
		}
		if entry, ok := entries[*bug.AssigneeID]; ok {
			entry.Bugs++
			entry.Total++
			entry.Points += bug.Points()
		}
	}
	for _, feature := range features {
		if feature.AssigneeID == nil || feature.Column.IsDone {
			continue
		}
		if entry, ok := entries[*feature.AssigneeID]; ok {
			entry.Features++
			entry.Total++
			entry.Points += feature.Points()
		}
	}

	result := make([]dto.WorkloadEntry, 0, len(entries))
	for _, entry := range entries {
		result = append(result, *entry)
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Points != result[j].Points {
			return result[i].Points > result[j].Points
		}
		return result[i].UserName < result[j].UserName
	})

	return &dto.WorkloadResponse{BoardID: boardID, Members: result}, nil
}

func (s *analyticsServiceImpl) Bottlenecks(ctx context.Context, principal access.Principal, boardID uuid.UUID) (*dto.BottlenecksResponse, error) {
	board, _, err := s.authorizeBoardRead(ctx, principal, boardID)
	if err != nil {
		return nil, err
	}

	columnIDs := make([]uuid.UUID, 0, len(board.Columns))
	for _, column := range board.Columns {
		columnIDs = append(columnIDs, column.ID)
	}
	counts, err := s.itemRepo.CountActiveByColumns(ctx, columnIDs)
	if err != nil {
		return nil, err
	}

	resp := &dto.BottlenecksResponse{BoardID: boardID, Columns: []dto.ColumnLoadResponse{}}
	for _, column := range board.Columns {
		if column.WipLimit <= 0 {
			continue
		}
		count := counts[column.ID]
		utilization := float64(count) / float64(column.WipLimit) * 100
		if utilization < bottleneckWarningPercent {
			continue
		}
		status := dto.BottleneckWarning
		if utilization >= 100 {
			status = dto.BottleneckCritical
		}
		resp.Columns = append(resp.Columns, dto.ColumnLoadResponse{
			ColumnID:    column.ID,
			Title:       column.Title,
			ActiveCount: count,
			WipLimit:    column.WipLimit,
			Utilization: math.Round(utilization*10) / 10,
			Status:      status,
		})
	}
	return resp, nil
}

func (s *analyticsServiceImpl) DailySummary(ctx context.Context, principal access.Principal, boardID uuid.UUID) (*dto.DailySummaryResponse, error) {
	if _, _, err := s.authorizeBoardRead(ctx, principal, boardID); err != nil {
		return nil, err
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	bugs, err := s.itemRepo.FindBugsByBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	features, err := s.itemRepo.FindFeaturesByBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}

	inToday := func(t time.Time) bool {
		return !t.Before(dayStart) && t.Before(dayEnd)
	}
	created, completed, completedPoints := 0, 0, 0
	tally := func(points int, column domain.Column, createdAt, updatedAt time.Time) {
		if inToday(createdAt) {
			created++
		}
		if column.IsDone && inToday(updatedAt) {
			completed++
			completedPoints += points
		}
	}
	for _, bug := range bugs {
		tally(bug.Points(), bug.Column, bug.CreatedAt, bug.UpdatedAt)
	}
	for _, feature := range features {
		tally(feature.Points(), feature.Column, feature.CreatedAt, feature.UpdatedAt)
	}

	comments, err := s.commentRepo.CountByBoardBetween(ctx, boardID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	openEntries, err := s.timeEntryRepo.CountOpenByBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	dayEntries, err := s.timeEntryRepo.FindByBoardBetween(ctx, boardID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	trackedHours := 0.0
	for _, entry := range dayEntries {
		trackedHours += entry.Duration()
	}

	return &dto.DailySummaryResponse{
		BoardID:         boardID,
		Date:            dayStart.Format("2006-01-02"),
		CreatedItems:    created,
		CompletedItems:  completed,
		CompletedPoints: completedPoints,
		Comments:        int(comments),
		OpenTimeEntries: openEntries,
		TrackedHours:    math.Round(trackedHours*100) / 100,
		TrackedHuman:    util.FormatHours(trackedHours),
		GeneratedAt:     now,
	}, nil
}

func (s *analyticsServiceImpl) OverdueItems(ctx context.Context, principal access.Principal, boardID uuid.UUID) ([]dto.ItemResponse, error) {
	if _, _, err := s.authorizeBoardRead(ctx, principal, boardID); err != nil {
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

	now := time.Now()
	result := make([]dto.ItemResponse, 0)
	for _, bug := range bugs {
		if bug.Overdue(now, bug.Column.IsDone) {
			result = append(result, dto.NewItemResponse(bug, true))
		}
	}
	for _, feature := range features {
		if feature.Overdue(now, feature.Column.IsDone) {
			result = append(result, dto.NewItemResponse(feature, true))
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].DueDate.Before(*result[j].DueDate)
	})
	return result, nil
}

func (s *analyticsServiceImpl) ProjectMetrics(ctx context.Context, principal access.Principal, projectID uuid.UUID) (*dto.ProjectMetricsResponse, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("project not found", "")
		}
		return nil, err
	}
	member, err := s.projectRepo.IsMember(ctx, projectID, principal.UserID)
	if err != nil {
		return nil, err
	}
	resource := access.Resource{Tenant: project.Owner.Tenant, Member: member}
	if err := s.gate.AuthorizeRead(principal, resource); err != nil {
		return nil, err
	}

	boards, err := s.boardRepo.FindByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	cutoff := now.AddDate(0, 0, -defaultVelocityWindowDays)
	resp := &dto.ProjectMetricsResponse{
		ProjectID:   projectID,
		ProjectName: project.Name,
		WindowDays:  defaultVelocityWindowDays,
		Boards:      make([]dto.BoardMetricsBundle, 0, len(boards)),
		GeneratedAt: now.UTC(),
	}
	for _, board := range boards {
		bundle, err := s.boardBundle(ctx, board, cutoff, now)
		if err != nil {
			return nil, err
		}
		resp.Boards = append(resp.Boards, *bundle)
		resp.CompletedPoints += bundle.CompletedPoints
		resp.OpenItems += bundle.OpenItems
		resp.OverdueItems += bundle.OverdueItems
	}
	return resp, nil
}

// boardBundle computes one board's slice of the project rollup
func (s *analyticsServiceImpl) boardBundle(ctx context.Context, board *domain.Board, cutoff, now time.Time) (*dto.BoardMetricsBundle, error) {
	bundle := &dto.BoardMetricsBundle{BoardID: board.ID, BoardName: board.Name}

	doneIDs := s.doneColumnIDs(board)
	doneBugs, err := s.itemRepo.FindBugsInColumnsSince(ctx, doneIDs, cutoff)
	if err != nil {
		return nil, err
	}
	doneFeatures, err := s.itemRepo.FindFeaturesInColumnsSince(ctx, doneIDs, cutoff)
	if err != nil {
		return nil, err
	}
	for _, bug := range doneBugs {
		bundle.CompletedPoints += bug.Points()
	}
	for _, feature := range doneFeatures {
		bundle.CompletedPoints += feature.Points()
	}
	bundle.PointsPerDay = math.Round(float64(bundle.CompletedPoints)/float64(defaultVelocityWindowDays)*100) / 100

	bugs, err := s.itemRepo.FindBugsByBoard(ctx, board.ID)
	if err != nil {
		return nil, err
	}
	features, err := s.itemRepo.FindFeaturesByBoard(ctx, board.ID)
	if err != nil {
		return nil, err
	}
	for _, bug := range bugs {
		if bug.Column.IsDone {
			continue
		}
		bundle.OpenItems++
		bundle.OpenPoints += bug.Points()
		if bug.Overdue(now, false) {
			bundle.OverdueItems++
		}
	}
	for _, feature := range features {
		if feature.Column.IsDone {
			continue
		}
		bundle.OpenItems++
		bundle.OpenPoints += feature.Points()
		if feature.Overdue(now, false) {
			bundle.OverdueItems++
		}
	}

	limits := make(map[uuid.UUID]int)
	limited := make([]uuid.UUID, 0)
	for _, column := range board.Columns {
		if column.WipLimit > 0 {
			limits[column.ID] = column.WipLimit
			limited = append(limited, column.ID)
		}
	}
	if len(limited) > 0 {
		counts, err := s.itemRepo.CountActiveByColumns(ctx, limited)
		if err != nil {
			return nil, err
		}
		for id, limit := range limits {
			if float64(counts[id])/float64(limit)*100 >= bottleneckWarningPercent {
				bundle.Bottlenecks++
			}
		}
	}
	return bundle, nil
}
