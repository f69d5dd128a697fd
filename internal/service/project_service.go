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
	"github.com/vinilopesc/vortex-board/internal/util"
)

// ProjectService defines the interface for project and membership management
type ProjectService interface {
	CreateProject(ctx context.Context, principal access.Principal, req dto.CreateProjectRequest) (*dto.ProjectResponse, error)
	GetProject(ctx context.Context, principal access.Principal, projectID uuid.UUID) (*dto.ProjectResponse, error)
	ListProjects(ctx context.Context, principal access.Principal) ([]dto.ProjectResponse, error)
	UpdateProject(ctx context.Context, principal access.Principal, projectID uuid.UUID, req dto.UpdateProjectRequest) (*dto.ProjectResponse, error)
	DeactivateProject(ctx context.Context, principal access.Principal, projectID uuid.UUID) error
	AddMember(ctx context.Context, principal access.Principal, projectID uuid.UUID, req dto.AddMemberRequest) (*dto.ProjectMemberResponse, error)
	RemoveMember(ctx context.Context, principal access.Principal, projectID, userID uuid.UUID) error
	ListMembers(ctx context.Context, principal access.Principal, projectID uuid.UUID) ([]dto.ProjectMemberResponse, error)
}

type projectServiceImpl struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	gate        access.AccessGate
	logger      *zap.Logger
}

// NewProjectService creates a new project service
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository, gate access.AccessGate, logger *zap.Logger) ProjectService {
	return &projectServiceImpl{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		gate:        gate,
		logger:      logger,
	}
}

// projectResource loads a project and builds the gate resource for it. A
// missing project surfaces the same not-found error the gate uses for
// cross-tenant access.
func (s *projectServiceImpl) projectResource(ctx context.Context, principal access.Principal, projectID uuid.UUID) (*domain.Project, access.Resource, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, access.Resource{}, response.NewNotFoundError("project not found", "")
		}
		return nil, access.Resource{}, err
	}
	member, err := s.projectRepo.IsMember(ctx, project.ID, principal.UserID)
	if err != nil {
		return nil, access.Resource{}, err
	}
	return project, access.Resource{Tenant: project.Owner.Tenant, Member: member}, nil
}

// canManageProject holds for admins and the project owner
func canManageProject(principal access.Principal, project *domain.Project) bool {
	return principal.Role == domain.RoleAdmin || project.OwnerID == principal.UserID
}

func (s *projectServiceImpl) CreateProject(ctx context.Context, principal access.Principal, req dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	if !s.gate.CanCreateProject(principal) {
		return nil, response.NewForbiddenError("only admins and managers can create projects", "")
	}

	owner, err := s.userRepo.FindByID(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	// verify the roster before creating anything; one bad id fails the
	// whole request
	joiners := make([]*domain.User, 0, len(req.MemberIDs))
	seen := map[uuid.UUID]bool{principal.UserID: true}
	for _, memberID := range req.MemberIDs {
		if seen[memberID] {
			continue
		}
		seen[memberID] = true
		user, err := s.userRepo.FindByID(ctx, memberID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, response.NewNotFoundError("user not found", "")
			}
			return nil, err
		}
		if !s.gate.SameTenant(principal, user.Tenant) {
			return nil, response.NewNotFoundError("user not found", "")
		}
		joiners = append(joiners, user)
	}

	project := &domain.Project{
		OwnerID:     principal.UserID,
		Name:        req.Name,
		Description: req.Description,
		Active:      true,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}
	project.Owner = *owner

	now := time.Now()
	for _, user := range joiners {
		member := &domain.ProjectMember{
			ProjectID: project.ID,
			UserID:    user.ID,
			JoinedAt:  now,
		}
		if err := s.projectRepo.AddMember(ctx, member); err != nil {
			return nil, err
		}
	}

	s.logger.Info("Project created",
		zap.String("project_id", project.ID.String()),
		zap.String("owner_id", principal.UserID.String()),
		zap.Int("members", len(joiners)))

	resp := dto.NewProjectResponse(project)
	return &resp, nil
}

func (s *projectServiceImpl) GetProject(ctx context.Context, principal access.Principal, projectID uuid.UUID) (*dto.ProjectResponse, error) {
	project, resource, err := s.projectResource(ctx, principal, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.AuthorizeRead(principal, resource); err != nil {
		return nil, err
	}
	resp := dto.NewProjectResponse(project)
	return &resp, nil
}

func (s *projectServiceImpl) ListProjects(ctx context.Context, principal access.Principal) ([]dto.ProjectResponse, error) {
	var projects []*domain.Project
	var err error
	if principal.Role == domain.RoleAdmin {
		projects, err = s.projectRepo.FindActiveByTenant(ctx, principal.Tenant)
	} else {
		projects, err = s.projectRepo.FindActiveByMember(ctx, principal.UserID)
	}
	if err != nil {
		return nil, err
	}

	result := make([]dto.ProjectResponse, 0, len(projects))
	for _, project := range projects {
		result = append(result, dto.NewProjectResponse(project))
	}
	return result, nil
}

func (s *projectServiceImpl) UpdateProject(ctx context.Context, principal access.Principal, projectID uuid.UUID, req dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	project, resource, err := s.projectResource(ctx, principal, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.AuthorizeRead(principal, resource); err != nil {
		return nil, err
	}
	if !canManageProject(principal, project) {
		return nil, response.NewForbiddenError("only the project owner or an admin can update the project", "")
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}

	resp := dto.NewProjectResponse(project)
	return &resp, nil
}

func (s *projectServiceImpl) DeactivateProject(ctx context.Context, principal access.Principal, projectID uuid.UUID) error {
	project, resource, err := s.projectResource(ctx, principal, projectID)
	if err != nil {
		return err
	}
	if err := s.gate.AuthorizeRead(principal, resource); err != nil {
		return err
	}
	if !canManageProject(principal, project) {
		return response.NewForbiddenError("only the project owner or an admin can deactivate the project", "")
	}

	if err := s.projectRepo.Deactivate(ctx, projectID); err != nil {
		return err
	}
	s.logger.Info("Project deactivated",
		zap.String("project_id", projectID.String()),
		zap.String("actor_id", principal.UserID.String()))
	return nil
}

func (s *projectServiceImpl) AddMember(ctx context.Context, principal access.Principal, projectID uuid.UUID, req dto.AddMemberRequest) (*dto.ProjectMemberResponse, error) {
	project, resource, err := s.projectResource(ctx, principal, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.AuthorizeRead(principal, resource); err != nil {
		return nil, err
	}
	if !canManageProject(principal, project) {
		return nil, response.NewForbiddenError("only the project owner or an admin can manage members", "")
	}

	user, err := s.userRepo.FindByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("user not found", "")
		}
		return nil, err
	}
	// foreign-tenant users read as nonexistent
	if !s.gate.SameTenant(principal, user.Tenant) {
		return nil, response.NewNotFoundError("user not found", "")
	}

	alreadyMember, err := s.projectRepo.IsMember(ctx, projectID, user.ID)
	if err != nil {
		return nil, err
	}
	if alreadyMember {
		return nil, response.NewAlreadyExistsError("user is already a member of this project", "")
	}

	member := &domain.ProjectMember{
		ProjectID: projectID,
		UserID:    user.ID,
		JoinedAt:  time.Now(),
	}
	if err := s.projectRepo.AddMember(ctx, member); err != nil {
		return nil, err
	}

	s.logger.Info("Member added to project",
		zap.String("project_id", projectID.String()),
		zap.String("user_id", user.ID.String()))

	return &dto.ProjectMemberResponse{
		UserID:    user.ID,
		UserName:  user.Name,
		UserEmail: user.Email,
		Role:      string(user.Role),
		Color:     util.UserColor(user.Email),
		JoinedAt:  member.JoinedAt,
	}, nil
}

func (s *projectServiceImpl) RemoveMember(ctx context.Context, principal access.Principal, projectID, userID uuid.UUID) error {
	project, resource, err := s.projectResource(ctx, principal, projectID)
	if err != nil {
		return err
	}
	if err := s.gate.AuthorizeRead(principal, resource); err != nil {
		return err
	}
	if !canManageProject(principal, project) {
		return response.NewForbiddenError("only the project owner or an admin can manage members", "")
	}
	if project.OwnerID == userID {
		return response.NewValidationError("the project owner cannot be removed", "")
	}

	member, err := s.projectRepo.IsMember(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if !member {
		return response.NewNotFoundError("user is not a member of this project", "")
	}

	return s.projectRepo.RemoveMember(ctx, projectID, userID)
}

func (s *projectServiceImpl) ListMembers(ctx context.Context, principal access.Principal, projectID uuid.UUID) ([]dto.ProjectMemberResponse, error) {
	project, resource, err := s.projectResource(ctx, principal, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.AuthorizeRead(principal, resource); err != nil {
		return nil, err
	}

	members, err := s.projectRepo.FindMembers(ctx, projectID)
	if err != nil {
		return nil, err
	}

	// owner is an implicit member and leads the list
	result := []dto.ProjectMemberResponse{{
		UserID:    project.OwnerID,
		UserName:  project.Owner.Name,
		UserEmail: project.Owner.Email,
		Role:      string(project.Owner.Role),
		Color:     util.UserColor(project.Owner.Email),
		JoinedAt:  project.CreatedAt,
	}}
	for _, member := range members {
		if member.UserID == project.OwnerID {
			continue
		}
		result = append(result, dto.ProjectMemberResponse{
			UserID:    member.UserID,
			UserName:  member.User.Name,
			UserEmail: member.User.Email,
			Role:      string(member.User.Role),
			Color:     util.UserColor(member.User.Email),
			JoinedAt:  member.JoinedAt,
		})
	}
	return result, nil
}
