package job

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vinilopesc/vortex-board/internal/domain"
	"github.com/vinilopesc/vortex-board/internal/repository"
	"github.com/vinilopesc/vortex-board/internal/service"
	"github.com/vinilopesc/vortex-board/internal/ws"
)

// OverdueJob pushes a personal notification to the assignee of every item
// whose due date has passed and that is not parked in a completion column.
// It runs once a day on the cron schedule from the jobs config.
type OverdueJob struct {
	itemRepo  repository.ItemRepository
	publisher service.EventPublisher
	logger    *zap.Logger
}

// NewOverdueJob creates a new OverdueJob instance
func NewOverdueJob(itemRepo repository.ItemRepository, publisher service.EventPublisher, logger *zap.Logger) *OverdueJob {
	return &OverdueJob{
		itemRepo:  itemRepo,
		publisher: publisher,
		logger:    logger,
	}
}

// Run executes one sweep. The signature satisfies cron.Job.
func (j *OverdueJob) Run() {
	ctx := context.Background()

	// Overdue means due strictly before today, so the cutoff is local
	// midnight in UTC
	now := time.Now().UTC()
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	j.logger.Info("Starting overdue sweep", zap.Time("cutoff", cutoff))

	notified := 0
	skipped := 0

	bugs, err := j.itemRepo.FindOverdueBugs(ctx, cutoff)
	if err != nil {
		j.logger.Error("Failed to load overdue bugs", zap.Error(err))
	} else {
		for _, bug := range bugs {
			if j.notify(ctx, bug, bug.Column.BoardID) {
				notified++
			} else {
				skipped++
			}
		}
	}

	features, err := j.itemRepo.FindOverdueFeatures(ctx, cutoff)
	if err != nil {
		j.logger.Error("Failed to load overdue features", zap.Error(err))
	} else {
		for _, feature := range features {
			if j.notify(ctx, feature, feature.Column.BoardID) {
				notified++
			} else {
				skipped++
			}
		}
	}

	j.logger.Info("Overdue sweep completed",
		zap.Int("notified", notified),
		zap.Int("unassigned", skipped),
	)
}

// notify pushes the overdue notification to the item's assignee. Items
// without an assignee are skipped.
func (j *OverdueJob) notify(ctx context.Context, item domain.Item, boardID uuid.UUID) bool {
	core := item.Core()
	if core.AssigneeID == nil {
		return false
	}

	payload := ws.NotificationPayload{
		NotificationID: uuid.New(),
		Kind:           ws.NotificationItemOverdue,
		ItemID:         core.ID,
		ItemType:       string(item.Type()),
		ItemTitle:      core.Title,
		BoardID:        boardID,
		DueDate:        core.DueDate,
		Text:           fmt.Sprintf("%q is overdue", core.Title),
	}
	j.publisher.PublishToUser(ctx, *core.AssigneeID, ws.NewEnvelope(ws.EventNotification, payload))
	return true
}
