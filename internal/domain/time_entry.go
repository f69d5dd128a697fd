package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// TimeEntry records time a user spent on a work item. EndedAt nil means the
// entry is still open; a user may hold at most one open entry across all
// boards, enforced both by the store and by the partial unique index below.
type TimeEntry struct {
	BaseModel
	BugID     *uuid.UUID `gorm:"type:uuid;index:idx_time_entries_bug_id" json:"bug_id"`
	FeatureID *uuid.UUID `gorm:"type:uuid;index:idx_time_entries_feature_id" json:"feature_id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_time_entries_user_id;uniqueIndex:uq_time_entries_user_open,where:ended_at IS NULL" json:"user_id"`
	StartedAt time.Time  `gorm:"type:timestamp;not null" json:"started_at"`
	EndedAt   *time.Time `gorm:"type:timestamp" json:"ended_at"`
}

// Open reports whether the entry is still running
func (t *TimeEntry) Open() bool {
	return t.EndedAt == nil
}

// Duration returns the elapsed hours rounded to two decimals, 0 while open
func (t *TimeEntry) Duration() float64 {
	if t.EndedAt == nil {
		return 0
	}
	hours := t.EndedAt.Sub(t.StartedAt).Hours()
	return math.Round(hours*100) / 100
}

// ItemRef returns the variant tag and id of the owning item
func (t *TimeEntry) ItemRef() (ItemType, uuid.UUID) {
	if t.BugID != nil {
		return ItemTypeBug, *t.BugID
	}
	if t.FeatureID != nil {
		return ItemTypeFeature, *t.FeatureID
	}
	return "", uuid.Nil
}

// TableName specifies the table name for TimeEntry
func (TimeEntry) TableName() string {
	return "time_entries"
}
