package domain

import (
	"time"

	"github.com/google/uuid"
)

// Comment belongs to exactly one work item: BugID xor FeatureID must be set,
// never both and never neither. The store rejects anything else.
type Comment struct {
	BaseModel
	BugID     *uuid.UUID `gorm:"type:uuid;index:idx_comments_bug_id" json:"bug_id"`
	FeatureID *uuid.UUID `gorm:"type:uuid;index:idx_comments_feature_id" json:"feature_id"`
	AuthorID  uuid.UUID  `gorm:"type:uuid;not null;index:idx_comments_author_id" json:"author_id"`
	Text      string     `gorm:"type:text;not null" json:"text"`
	EditedAt  *time.Time `gorm:"type:timestamp" json:"edited_at,omitempty"`
	Author    User       `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

// ItemRef returns the variant tag and id of the owning item
func (c *Comment) ItemRef() (ItemType, uuid.UUID) {
	if c.BugID != nil {
		return ItemTypeBug, *c.BugID
	}
	if c.FeatureID != nil {
		return ItemTypeFeature, *c.FeatureID
	}
	return "", uuid.Nil
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "comments"
}
