package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vinilopesc/vortex-board/internal/domain"
)

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	FindActiveByMember(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error)
	FindActiveByTenant(ctx context.Context, tenant string) ([]*domain.Project, error)
	Update(ctx context.Context, project *domain.Project) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	AddMember(ctx context.Context, member *domain.ProjectMember) error
	RemoveMember(ctx context.Context, projectID, userID uuid.UUID) error
	IsMember(ctx context.Context, projectID, userID uuid.UUID) (bool, error)
	FindMembers(ctx context.Context, projectID uuid.UUID) ([]*domain.ProjectMember, error)
}

// projectRepositoryImpl is the GORM implementation of ProjectRepository
type projectRepositoryImpl struct {
	db *gorm.DB
}

// NewProjectRepository creates a new instance of ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepositoryImpl{db: db}
}

// Create creates a new project
func (r *projectRepositoryImpl) Create(ctx context.Context, project *domain.Project) error {
	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		return err
	}
	return nil
}

// FindByID finds a project by ID with its owner loaded
func (r *projectRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	var project domain.Project
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// FindActiveByMember finds active projects the user owns or is a member of
func (r *projectRepositoryImpl) FindActiveByMember(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error) {
	var projects []*domain.Project
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("active = ?", true).
		Where("owner_id = ? OR id IN (?)",
			userID,
			r.db.Model(&domain.ProjectMember{}).Select("project_id").Where("user_id = ?", userID),
		).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// FindActiveByTenant finds all active projects whose owner belongs to the
// tenant, used for admin listings
func (r *projectRepositoryImpl) FindActiveByTenant(ctx context.Context, tenant string) ([]*domain.Project, error) {
	var projects []*domain.Project
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		Joins("JOIN users ON users.id = projects.owner_id AND users.deleted_at IS NULL").
		Where("projects.active = ? AND users.tenant = ?", true, tenant).
		Order("projects.created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Update saves changes to an existing project
func (r *projectRepositoryImpl) Update(ctx context.Context, project *domain.Project) error {
	if err := r.db.WithContext(ctx).Save(project).Error; err != nil {
		return err
	}
	return nil
}

// Deactivate marks a project inactive without removing it
func (r *projectRepositoryImpl) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Model(&domain.Project{}).
		Where("id = ?", id).
		Update("active", false).Error; err != nil {
		return err
	}
	return nil
}

// AddMember adds a user to a project
func (r *projectRepositoryImpl) AddMember(ctx context.Context, member *domain.ProjectMember) error {
	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		return err
	}
	return nil
}

// RemoveMember removes a user from a project
func (r *projectRepositoryImpl) RemoveMember(ctx context.Context, projectID, userID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&domain.ProjectMember{}).Error; err != nil {
		return err
	}
	return nil
}

// IsMember reports whether the user belongs to the project. The owner always
// counts as a member.
func (r *projectRepositoryImpl) IsMember(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	if err := r.db.WithContext(ctx).Model(&domain.Project{}).
		Where("id = ? AND owner_id = ?", projectID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindMembers lists the members of a project with their users loaded
func (r *projectRepositoryImpl) FindMembers(ctx context.Context, projectID uuid.UUID) ([]*domain.ProjectMember, error) {
	var members []*domain.ProjectMember
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("project_id = ?", projectID).
		Order("joined_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}
