package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/vinilopesc/vortex-board/internal/domain"
)

// AutoMigrate runs GORM auto-migration for all domain models. Tables,
// indexes, and foreign key constraints come from the struct definitions in
// the domain package.
func AutoMigrate(db *gorm.DB) error {
	models := []interface{}{
		&domain.User{},
		&domain.Project{},
		&domain.ProjectMember{},
		&domain.Board{},
		&domain.Column{},
		&domain.Bug{},
		&domain.Feature{},
		&domain.Comment{},
		&domain.TimeEntry{},
		&domain.Attachment{},
		&domain.BoardEvent{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run auto-migration: %w", err)
	}

	return nil
}
