package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/vinilopesc/vortex-board/internal/domain"
)

// CreateProjectRequest represents the request to create a new project
// @Description Request body for creating a new project. The caller becomes
// @Description the owner; memberIds are enrolled in the same request.
type CreateProjectRequest struct {
	Name        string      `json:"name" binding:"required,min=2,max=100" example:"Payments revamp"`
	Description string      `json:"description" binding:"max=500" example:"Everything related to the new payments flow"`
	MemberIDs   []uuid.UUID `json:"memberIds" binding:"omitempty,max=100"`
}

// UpdateProjectRequest represents the request to update a project. All
// fields are optional.
type UpdateProjectRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

// AddMemberRequest represents the request to add a user to a project
type AddMemberRequest struct {
	UserID uuid.UUID `json:"userId" binding:"required"`
}

// ProjectResponse represents the project response
type ProjectResponse struct {
	ProjectID   uuid.UUID `json:"projectId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     uuid.UUID `json:"ownerId"`
	OwnerName   string    `json:"ownerName,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProjectMemberResponse represents a project member
type ProjectMemberResponse struct {
	UserID    uuid.UUID `json:"userId"`
	UserName  string    `json:"userName,omitempty"`
	UserEmail string    `json:"userEmail,omitempty"`
	Role      string    `json:"role,omitempty"`
	Color     string    `json:"color,omitempty"`
	JoinedAt  time.Time `json:"joinedAt"`
}

// NewProjectResponse converts a project into its API shape
func NewProjectResponse(project *domain.Project) ProjectResponse {
	return ProjectResponse{
		ProjectID:   project.ID,
		Name:        project.Name,
		Description: project.Description,
		OwnerID:     project.OwnerID,
		OwnerName:   project.Owner.Name,
		Active:      project.Active,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}
