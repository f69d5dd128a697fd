package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vinilopesc/vortex-board/internal/access"
	"github.com/vinilopesc/vortex-board/internal/domain"
	"github.com/vinilopesc/vortex-board/internal/dto"
	"github.com/vinilopesc/vortex-board/internal/repository"
	"github.com/vinilopesc/vortex-board/internal/response"
	"github.com/vinilopesc/vortex-board/internal/storage"
)

// tempAttachmentTTL is how long an unconfirmed upload survives before the
// cleanup job removes it
const tempAttachmentTTL = 24 * time.Hour

// AttachmentService manages the presigned upload flow: reserve a slot,
// upload straight to the bucket, then confirm against an item.
type AttachmentService interface {
	CreateUpload(ctx context.Context, principal access.Principal, req dto.CreateUploadRequest) (*dto.UploadResponse, error)
	ConfirmAttachments(ctx context.Context, principal access.Principal, itemType domain.ItemType, itemID uuid.UUID, req dto.ConfirmAttachmentsRequest) ([]dto.AttachmentResponse, error)
	ListAttachments(ctx context.Context, principal access.Principal, itemType domain.ItemType, itemID uuid.UUID) ([]dto.AttachmentResponse, error)
	DeleteAttachment(ctx context.Context, principal access.Principal, attachmentID uuid.UUID) error

	// CleanupExpired removes TEMP attachments past their expiry from both
	// the bucket and the database. The cron job calls this hourly.
	CleanupExpired(ctx context.Context) (int, error)
}

type attachmentServiceImpl struct {
	attachmentRepo repository.AttachmentRepository
	itemRepo       repository.ItemRepository
	boardRepo      repository.BoardRepository
	projectRepo    repository.ProjectRepository
	userRepo       repository.UserRepository
	s3Client       storage.S3Client
	gate           access.AccessGate
	logger         *zap.Logger
}

// NewAttachmentService creates a new attachment service
func NewAttachmentService(
	attachmentRepo repository.AttachmentRepository,
	itemRepo repository.ItemRepository,
	boardRepo repository.BoardRepository,
	projectRepo repository.ProjectRepository,
	userRepo repository.UserRepository,
	s3Client storage.S3Client,
	gate access.AccessGate,
	logger *zap.Logger,
) AttachmentService {
	return &attachmentServiceImpl{
		attachmentRepo: attachmentRepo,
		itemRepo:       itemRepo,
		boardRepo:      boardRepo,
		projectRepo:    projectRepo,
		userRepo:       userRepo,
		s3Client:       s3Client,
		gate:           gate,
		logger:         logger,
	}
}

func (s *attachmentServiceImpl) CreateUpload(ctx context.Context, principal access.Principal, req dto.CreateUploadRequest) (*dto.UploadResponse, error) {
	if s.s3Client == nil {
		return nil, response.NewInternalError("file storage is not configured", "")
	}

	uploadURL, fileKey, err := s.s3Client.GeneratePresignedURL(ctx, req.Type, principal.Tenant, req.FileName, req.ContentType)
	if err != nil {
		s.logger.Error("Failed to generate presigned upload URL",
			zap.String("user_id", principal.UserID.String()),
			zap.Error(err))
		return nil, response.NewInternalError("failed to prepare upload", "")
	}

	expiresAt := time.Now().Add(tempAttachmentTTL)
	attachment := &domain.Attachment{
		ItemType:    domain.ItemType(req.Type),
		Status:      domain.AttachmentStatusTemp,
		FileName:    req.FileName,
		FileKey:     fileKey,
		FileSize:    req.FileSize,
		ContentType: req.ContentType,
		UploadedBy:  principal.UserID,
		ExpiresAt:   &expiresAt,
	}
	if err := s.attachmentRepo.Create(ctx, attachment); err != nil {
		return nil, err
	}

	s.logger.Info("Upload slot reserved",
		zap.String("attachment_id", attachment.ID.String()),
		zap.String("file_key", fileKey),
		zap.String("user_id", principal.UserID.String()))

	return &dto.UploadResponse{
		AttachmentID: attachment.ID,
		UploadURL:    uploadURL,
		FileKey:      fileKey,
		ExpiresAt:    time.Now().Add(storage.UploadURLExpiry),
	}, nil
}

func (s *attachmentServiceImpl) ConfirmAttachments(ctx context.Context, principal access.Principal, itemType domain.ItemType, itemID uuid.UUID, req dto.ConfirmAttachmentsRequest) ([]dto.AttachmentResponse, error) {
	ic, err := resolveItemChain(ctx, s.itemRepo, s.boardRepo, s.projectRepo, itemType, itemID)
	if err != nil {
		return nil, err
	}
	member, err := s.projectRepo.IsMember(ctx, ic.project.ID, principal.UserID)
	if err != nil {
		return nil, err
	}
	resource := access.Resource{Tenant: ic.project.Owner.Tenant, Member: member}
	if err := s.gate.AuthorizeMutation(principal, resource, access.ActionComment); err != nil {
		return nil, err
	}

	attachments, err := s.attachmentRepo.FindByIDs(ctx, req.AttachmentIDs)
	if err != nil {
		return nil, err
	}
	if len(attachments) != len(req.AttachmentIDs) {
		return nil, response.NewNotFoundError("attachment not found", "")
	}
	for _, attachment := range attachments {
		if attachment.UploadedBy != principal.UserID {
			return nil, response.NewForbiddenError("attachments can only be confirmed by their uploader", "")
		}
		if attachment.Status != domain.AttachmentStatusTemp {
			return nil, response.NewValidationError("attachment is already confirmed", attachment.ID.String())
		}
		if attachment.ItemType != itemType {
			return nil, response.NewValidationError("attachment was uploaded for a different item type", attachment.ID.String())
		}
	}

	if err := s.attachmentRepo.ConfirmAttachments(ctx, req.AttachmentIDs, itemType, itemID); err != nil {
		return nil, err
	}

	s.logger.Info("Attachments confirmed",
		zap.Int("count", len(req.AttachmentIDs)),
		zap.String("item_id", itemID.String()),
		zap.String("user_id", principal.UserID.String()))

	result := make([]dto.AttachmentResponse, 0, len(attachments))
	for _, attachment := range attachments {
		attachment.Status = domain.AttachmentStatusConfirmed
		boundID := itemID
		attachment.ItemID = &boundID
		result = append(result, dto.NewAttachmentResponse(attachment, s.s3Client.GetFileURL(attachment.FileKey)))
	}
	return result, nil
}

func (s *attachmentServiceImpl) ListAttachments(ctx context.Context, principal access.Principal, itemType domain.ItemType, itemID uuid.UUID) ([]dto.AttachmentResponse, error) {
	ic, err := resolveItemChain(ctx, s.itemRepo, s.boardRepo, s.projectRepo, itemType, itemID)
	if err != nil {
		return nil, err
	}
	member, err := s.projectRepo.IsMember(ctx, ic.project.ID, principal.UserID)
	if err != nil {
		return nil, err
	}
	resource := access.Resource{Tenant: ic.project.Owner.Tenant, Member: member}
	if err := s.gate.AuthorizeRead(principal, resource); err != nil {
		return nil, err
	}

	attachments, err := s.attachmentRepo.FindByItem(ctx, itemType, itemID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.AttachmentResponse, 0, len(attachments))
	for _, attachment := range attachments {
		fileURL := ""
		if s.s3Client != nil {
			fileURL = s.s3Client.GetFileURL(attachment.FileKey)
		}
		result = append(result, dto.NewAttachmentResponse(attachment, fileURL))
	}
	return result, nil
}

func (s *attachmentServiceImpl) DeleteAttachment(ctx context.Context, principal access.Principal, attachmentID uuid.UUID) error {
	attachment, err := s.attachmentRepo.FindByID(ctx, attachmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFoundError("attachment not found", "")
		}
		return err
	}

	uploader, err := s.userRepo.FindByID(ctx, attachment.UploadedBy)
	if err != nil {
		return err
	}
	// foreign-tenant attachments read as nonexistent
	if !s.gate.SameTenant(principal, uploader.Tenant) {
		return response.NewNotFoundError("attachment not found", "")
	}
	if attachment.UploadedBy != principal.UserID && principal.Role != domain.RoleAdmin {
		return response.NewForbiddenError("attachments can only be deleted by their uploader or an admin", "")
	}

	if s.s3Client != nil {
		if err := s.s3Client.DeleteFile(ctx, attachment.FileKey); err != nil {
			s.logger.Warn("Failed to delete attachment object, removing record anyway",
				zap.String("file_key", attachment.FileKey),
				zap.Error(err))
		}
	}
	if err := s.attachmentRepo.Delete(ctx, attachmentID); err != nil {
		return err
	}

	s.logger.Info("Attachment deleted",
		zap.String("attachment_id", attachmentID.String()),
		zap.String("actor_id", principal.UserID.String()))
	return nil
}

func (s *attachmentServiceImpl) CleanupExpired(ctx context.Context) (int, error) {
	expired, err := s.attachmentRepo.FindExpiredTempAttachments(ctx)
	if err != nil {
		return 0, err
	}
	if len(expired) == 0 {
		return 0, nil
	}

	ids := make([]uuid.UUID, 0, len(expired))
	for _, attachment := range expired {
		if s.s3Client != nil {
			if err := s.s3Client.DeleteFile(ctx, attachment.FileKey); err != nil {
				s.logger.Warn("Failed to delete expired attachment object",
					zap.String("file_key", attachment.FileKey),
					zap.Error(err))
				// keep the record; the next sweep retries the object
				continue
			}
		}
		ids = append(ids, attachment.ID)
	}

	if err := s.attachmentRepo.DeleteBatch(ctx, ids); err != nil {
		return 0, err
	}
	return len(ids), nil
}
