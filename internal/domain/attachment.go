package domain

import (
	"time"

	"github.com/google/uuid"
)

// AttachmentStatus represents the lifecycle of an uploaded file
type AttachmentStatus string

const (
	AttachmentStatusTemp      AttachmentStatus = "TEMP"
	AttachmentStatusConfirmed AttachmentStatus = "CONFIRMED"
)

// Attachment represents a file uploaded against a bug or feature. ItemID is a
// polymorphic reference discriminated by ItemType; no foreign key constraint
// is placed on it. TEMP attachments past ExpiresAt are swept by the cleanup
// job.
type Attachment struct {
	BaseModel
	ItemType    ItemType         `gorm:"type:varchar(20);not null;index:idx_attachments_item,priority:1" json:"item_type"`
	ItemID      *uuid.UUID       `gorm:"type:uuid;index:idx_attachments_item,priority:2" json:"item_id"`
	Status      AttachmentStatus `gorm:"type:varchar(20);not null;default:'TEMP';index:idx_attachments_status" json:"status"`
	FileName    string           `gorm:"type:varchar(255);not null" json:"file_name"`
	FileKey     string           `gorm:"type:text;not null" json:"file_key"`
	FileSize    int64            `gorm:"not null" json:"file_size"`
	ContentType string           `gorm:"type:varchar(100);not null" json:"content_type"`
	UploadedBy  uuid.UUID        `gorm:"type:uuid;not null;index:idx_attachments_uploaded_by" json:"uploaded_by"`
	ExpiresAt   *time.Time       `gorm:"type:timestamp;index:idx_attachments_expires_at" json:"expires_at"`
}

// TableName specifies the table name for Attachment
func (Attachment) TableName() string {
	return "attachments"
}
