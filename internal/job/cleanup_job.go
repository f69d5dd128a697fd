package job

import (
	"context"

	"go.uber.org/zap"

	"github.com/vinilopesc/vortex-board/internal/service"
)

// CleanupJob removes expired temporary attachments from the bucket and the
// database. It runs on the cron schedule from the jobs config.
type CleanupJob struct {
	attachmentService service.AttachmentService
	logger            *zap.Logger
}

// NewCleanupJob creates a new CleanupJob instance
func NewCleanupJob(attachmentService service.AttachmentService, logger *zap.Logger) *CleanupJob {
	return &CleanupJob{
		attachmentService: attachmentService,
		logger:            logger,
	}
}

// Run executes one cleanup pass. The signature satisfies cron.Job.
func (j *CleanupJob) Run() {
	ctx := context.Background()

	j.logger.Info("Starting cleanup job for expired temporary attachments")

	removed, err := j.attachmentService.CleanupExpired(ctx)
	if err != nil {
		j.logger.Error("Attachment cleanup failed", zap.Error(err))
		return
	}

	if removed == 0 {
		j.logger.Info("No expired temporary attachments found")
		return
	}

	j.logger.Info("Attachment cleanup completed",
		zap.Int("removed", removed),
	)
}
