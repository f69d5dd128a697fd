package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vinilopesc/vortex-board/internal/dto"
	"github.com/vinilopesc/vortex-board/internal/response"
	"github.com/vinilopesc/vortex-board/internal/service"
)

// ProjectHandler serves project and membership operations
type ProjectHandler struct {
	projectService service.ProjectService
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectService service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// CreateProject godoc
// @Summary      Create a project
// @Description  Creates a project owned by the caller, optionally enrolling an initial member roster
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateProjectRequest true "Project data"
// @Success      201 {object} response.SuccessResponse{data=dto.ProjectResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      403 {object} response.ErrorResponse
// @Router       /projects [post]
// @Security     BearerAuth
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), principal, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, project)
}

// GetProject godoc
// @Summary      Get a project
// @Description  Returns a single project visible to the caller
// @Tags         projects
// @Produce      json
// @Param        projectId path string true "Project ID"
// @Success      200 {object} response.SuccessResponse{data=dto.ProjectResponse}
// @Failure      404 {object} response.ErrorResponse
// @Router       /projects/{projectId} [get]
// @Security     BearerAuth
func (h *ProjectHandler) GetProject(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	projectID, ok := parseUUIDParam(c, "projectId", "project ID")
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(c.Request.Context(), principal, projectID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, project)
}

// ListProjects godoc
// @Summary      List projects
// @Description  Returns the projects the caller can see in their tenant
// @Tags         projects
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=[]dto.ProjectResponse}
// @Router       /projects [get]
// @Security     BearerAuth
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	projects, err := h.projectService.ListProjects(c.Request.Context(), principal)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, projects)
}

// UpdateProject godoc
// @Summary      Update a project
// @Description  Updates name or description of a project the caller manages
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        projectId path string true "Project ID"
// @Param        request body dto.UpdateProjectRequest true "Fields to update"
// @Success      200 {object} response.SuccessResponse{data=dto.ProjectResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      403 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /projects/{projectId} [patch]
// @Security     BearerAuth
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	projectID, ok := parseUUIDParam(c, "projectId", "project ID")
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	project, err := h.projectService.UpdateProject(c.Request.Context(), principal, projectID, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, project)
}

// DeactivateProject godoc
// @Summary      Deactivate a project
// @Description  Marks a project inactive so it stops appearing in listings
// @Tags         projects
// @Produce      json
// @Param        projectId path string true "Project ID"
// @Success      200 {object} response.SuccessResponse
// @Failure      403 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /projects/{projectId} [delete]
// @Security     BearerAuth
func (h *ProjectHandler) DeactivateProject(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	projectID, ok := parseUUIDParam(c, "projectId", "project ID")
	if !ok {
		return
	}

	if err := h.projectService.DeactivateProject(c.Request.Context(), principal, projectID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"message": "Project deactivated"})
}

// AddMember godoc
// @Summary      Add a project member
// @Description  Enrolls a user from the same tenant into the project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        projectId path string true "Project ID"
// @Param        request body dto.AddMemberRequest true "Member data"
// @Success      201 {object} response.SuccessResponse{data=dto.ProjectMemberResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      403 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse "Already a member"
// @Router       /projects/{projectId}/members [post]
// @Security     BearerAuth
func (h *ProjectHandler) AddMember(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	projectID, ok := parseUUIDParam(c, "projectId", "project ID")
	if !ok {
		return
	}

	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	member, err := h.projectService.AddMember(c.Request.Context(), principal, projectID, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, member)
}

// RemoveMember godoc
// @Summary      Remove a project member
// @Description  Removes a user from the project roster
// @Tags         projects
// @Produce      json
// @Param        projectId path string true "Project ID"
// @Param        userId path string true "User ID"
// @Success      200 {object} response.SuccessResponse
// @Failure      403 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /projects/{projectId}/members/{userId} [delete]
// @Security     BearerAuth
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	projectID, ok := parseUUIDParam(c, "projectId", "project ID")
	if !ok {
		return
	}

	userID, ok := parseUUIDParam(c, "userId", "user ID")
	if !ok {
		return
	}

	if err := h.projectService.RemoveMember(c.Request.Context(), principal, projectID, userID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"message": "Member removed"})
}

// ListMembers godoc
// @Summary      List project members
// @Description  Returns the project roster with user details
// @Tags         projects
// @Produce      json
// @Param        projectId path string true "Project ID"
// @Success      200 {object} response.SuccessResponse{data=[]dto.ProjectMemberResponse}
// @Failure      404 {object} response.ErrorResponse
// @Router       /projects/{projectId}/members [get]
// @Security     BearerAuth
func (h *ProjectHandler) ListMembers(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	projectID, ok := parseUUIDParam(c, "projectId", "project ID")
	if !ok {
		return
	}

	members, err := h.projectService.ListMembers(c.Request.Context(), principal, projectID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, members)
}
