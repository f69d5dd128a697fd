package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/vinilopesc/vortex-board/internal/domain"
)

// CreateUploadRequest represents the request for a presigned upload slot
// @Description The returned URL accepts a single PUT of the declared file.
// @Description Unconfirmed uploads expire and are cleaned up.
type CreateUploadRequest struct {
	Type        string `json:"type" binding:"required,oneof=bug feature" example:"bug"`
	FileName    string `json:"fileName" binding:"required,max=255" example:"stacktrace.txt"`
	ContentType string `json:"contentType" binding:"required,max=100" example:"text/plain"`
	FileSize    int64  `json:"fileSize" binding:"required,min=1,max=52428800"`
}

// UploadResponse carries the presigned URL for a pending attachment
type UploadResponse struct {
	AttachmentID uuid.UUID `json:"attachmentId"`
	UploadURL    string    `json:"uploadUrl"`
	FileKey      string    `json:"fileKey"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// ConfirmAttachmentsRequest binds uploaded files to an item
type ConfirmAttachmentsRequest struct {
	ItemID        uuid.UUID   `json:"itemId" binding:"required"`
	ItemType      string      `json:"itemType" binding:"required,oneof=bug feature" example:"bug"`
	AttachmentIDs []uuid.UUID `json:"attachmentIds" binding:"required,min=1"`
}

// AttachmentResponse represents an attachment in API responses
type AttachmentResponse struct {
	AttachmentID uuid.UUID `json:"attachmentId"`
	FileName     string    `json:"fileName"`
	FileSize     int64     `json:"fileSize"`
	ContentType  string    `json:"contentType"`
	Status       string    `json:"status"`
	FileURL      string    `json:"fileUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewAttachmentResponse converts an attachment into its API shape
func NewAttachmentResponse(attachment *domain.Attachment, fileURL string) AttachmentResponse {
	return AttachmentResponse{
		AttachmentID: attachment.ID,
		FileName:     attachment.FileName,
		FileSize:     attachment.FileSize,
		ContentType:  attachment.ContentType,
		Status:       string(attachment.Status),
		FileURL:      fileURL,
		CreatedAt:    attachment.CreatedAt,
	}
}
