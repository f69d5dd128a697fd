package domain

import (
	"time"

	"github.com/google/uuid"
)

// ItemType discriminates the two work item variants
type ItemType string

const (
	ItemTypeBug     ItemType = "bug"
	ItemTypeFeature ItemType = "feature"
)

// Valid reports whether t names a known item variant
func (t ItemType) Valid() bool {
	return t == ItemTypeBug || t == ItemTypeFeature
}

// Priority of a work item
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Valid reports whether p is a known priority
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// WorkItem holds the fields shared by both item variants. Items are never
// hard-deleted; Archived is the terminal soft state.
type WorkItem struct {
	BaseModel
	ColumnID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"column_id"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	AssigneeID  *uuid.UUID `gorm:"type:uuid;index" json:"assignee_id"`
	Priority    Priority   `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	DueDate     *time.Time `gorm:"type:timestamp" json:"due_date"`
	Position    int        `gorm:"not null;default:0" json:"position"`
	Archived    bool       `gorm:"not null;default:false;index" json:"archived"`
	CreatorID   uuid.UUID  `gorm:"type:uuid;not null" json:"creator_id"`
}

// Overdue reports whether the item's due date lies strictly before today.
// Items sitting in the completion column are never overdue.
func (w *WorkItem) Overdue(now time.Time, inDoneColumn bool) bool {
	if w.DueDate == nil || inDoneColumn {
		return false
	}
	dy, dm, dd := w.DueDate.Date()
	ny, nm, nd := now.Date()
	due := time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC)
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return due.Before(today)
}

// Severity of a bug
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Valid reports whether s is a known severity
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Bug is the defect variant of a work item
type Bug struct {
	WorkItem
	Severity    Severity `gorm:"type:varchar(20);not null;default:'medium'" json:"severity"`
	Environment string   `gorm:"type:varchar(255)" json:"environment"`
	ReproSteps  string   `gorm:"type:text" json:"repro_steps"`
	Column      Column   `gorm:"foreignKey:ColumnID" json:"column,omitempty"`
}

// Points computes the score of a bug: base 3 plus a severity bonus.
func (b *Bug) Points() int {
	bonus := map[Severity]int{
		SeverityLow:      0,
		SeverityMedium:   1,
		SeverityHigh:     2,
		SeverityCritical: 3,
	}
	return 3 + bonus[b.Severity]
}

// Type returns the variant tag for Bug
func (b *Bug) Type() ItemType { return ItemTypeBug }

// Core returns the shared work item fields
func (b *Bug) Core() *WorkItem { return &b.WorkItem }

// FeatureCategory classifies a feature
type FeatureCategory string

const (
	FeatureCategoryUX       FeatureCategory = "ux"
	FeatureCategoryBackend  FeatureCategory = "backend"
	FeatureCategoryFrontend FeatureCategory = "frontend"
	FeatureCategoryInfra    FeatureCategory = "infra"
	FeatureCategoryDocs     FeatureCategory = "docs"
)

// Valid reports whether c is a known feature category
func (c FeatureCategory) Valid() bool {
	switch c {
	case FeatureCategoryUX, FeatureCategoryBackend, FeatureCategoryFrontend,
		FeatureCategoryInfra, FeatureCategoryDocs:
		return true
	}
	return false
}

// Feature is the enhancement variant of a work item
type Feature struct {
	WorkItem
	Category       FeatureCategory `gorm:"type:varchar(20);not null;default:'backend'" json:"category"`
	EstimatedHours float64         `gorm:"not null;default:0" json:"estimated_hours"`
	SpecURL        string          `gorm:"type:varchar(512)" json:"spec_url"`
	Column         Column          `gorm:"foreignKey:ColumnID" json:"column,omitempty"`
}

// Points computes the score of a feature: base 5 plus a bonus bracketed by the
// estimated hours (≤4h +0, ≤8h +3, ≤16h +5, beyond +8).
func (f *Feature) Points() int {
	switch {
	case f.EstimatedHours <= 4:
		return 5
	case f.EstimatedHours <= 8:
		return 5 + 3
	case f.EstimatedHours <= 16:
		return 5 + 5
	default:
		return 5 + 8
	}
}

// Type returns the variant tag for Feature
func (f *Feature) Type() ItemType { return ItemTypeFeature }

// Core returns the shared work item fields
func (f *Feature) Core() *WorkItem { return &f.WorkItem }

// Item is the tagged view over the two work item variants. Scoring and shared
// field access dispatch on the concrete type.
type Item interface {
	Points() int
	Type() ItemType
	Core() *WorkItem
}

// TableName specifies the table name for Bug
func (Bug) TableName() string {
	return "bugs"
}

// TableName specifies the table name for Feature
func (Feature) TableName() string {
	return "features"
}
