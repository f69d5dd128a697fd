package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vinilopesc/vortex-board/internal/response"
	"github.com/vinilopesc/vortex-board/internal/service"
)

// AnalyticsHandler serves board and project analytics reads
type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// windowDaysQuery reads the optional windowDays query parameter. Zero means
// the service default.
func windowDaysQuery(c *gin.Context) (int, bool) {
	raw := c.Query("windowDays")
	if raw == "" {
		return 0, true
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 0 {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid windowDays")
		return 0, false
	}
	return days, true
}

// Velocity godoc
// @Summary      Get board velocity
// @Description  Returns completed points over the window and the points-per-day rate
// @Tags         analytics
// @Produce      json
// @Param        boardId path string true "Board ID"
// @Param        windowDays query int false "Window in days (default 30)"
// @Success      200 {object} response.SuccessResponse{data=dto.VelocityResponse}
// @Failure      404 {object} response.ErrorResponse
// @Router       /boards/{boardId}/analytics/velocity [get]
// @Security     BearerAuth
func (h *AnalyticsHandler) Velocity(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	boardID, ok := parseUUIDParam(c, "boardId", "board ID")
	if !ok {
		return
	}

	windowDays, ok := windowDaysQuery(c)
	if !ok {
		return
	}

	velocity, err := h.analyticsService.Velocity(c.Request.Context(), principal, boardID, windowDays)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, velocity)
}

// Burndown godoc
// @Summary      Get board burndown
// @Description  Returns the day-by-day open points series over the window
// @Tags         analytics
// @Produce      json
// @Param        boardId path string true "Board ID"
// @Param        windowDays query int false "Window in days (default 14)"
// @Success      200 {object} response.SuccessResponse{data=dto.BurndownResponse}
// @Failure      404 {object} response.ErrorResponse
// @Router       /boards/{boardId}/analytics/burndown [get]
// @Security     BearerAuth
func (h *AnalyticsHandler) Burndown(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	boardID, ok := parseUUIDParam(c, "boardId", "board ID")
	if !ok {
		return
	}

	windowDays, ok := windowDaysQuery(c)
	if !ok {
		return
	}

	burndown, err := h.analyticsService.Burndown(c.Request.Context(), principal, boardID, windowDays)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, burndown)
}

// Workload godoc
// @Summary      Get board workload
// @Description  Returns open item and point totals grouped by assignee
// @Tags         analytics
// @Produce      json
// @Param        boardId path string true "Board ID"
// @Success      200 {object} response.SuccessResponse{data=dto.WorkloadResponse}
// @Failure      404 {object} response.ErrorResponse
// @Router       /boards/{boardId}/analytics/workload [get]
// @Security     BearerAuth
func (h *AnalyticsHandler) Workload(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	boardID, ok := parseUUIDParam(c, "boardId", "board ID")
	if !ok {
		return
	}

	workload, err := h.analyticsService.Workload(c.Request.Context(), principal, boardID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, workload)
}

// Bottlenecks godoc
// @Summary      Get board bottlenecks
// @Description  Returns WIP-limited columns with their utilization and warning state
// @Tags         analytics
// @Produce      json
// @Param        boardId path string true "Board ID"
// @Success      200 {object} response.SuccessResponse{data=dto.BottlenecksResponse}
// @Failure      404 {object} response.ErrorResponse
// @Router       /boards/{boardId}/analytics/bottlenecks [get]
// @Security     BearerAuth
func (h *AnalyticsHandler) Bottlenecks(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	boardID, ok := parseUUIDParam(c, "boardId", "board ID")
	if !ok {
		return
	}

	bottlenecks, err := h.analyticsService.Bottlenecks(c.Request.Context(), principal, boardID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, bottlenecks)
}

// DailySummary godoc
// @Summary      Get board daily summary
// @Description  Returns today's created, completed and overdue counts for the board
// @Tags         analytics
// @Produce      json
// @Param        boardId path string true "Board ID"
// @Success      200 {object} response.SuccessResponse{data=dto.DailySummaryResponse}
// @Failure      404 {object} response.ErrorResponse
// @Router       /boards/{boardId}/analytics/daily-summary [get]
// @Security     BearerAuth
func (h *AnalyticsHandler) DailySummary(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	boardID, ok := parseUUIDParam(c, "boardId", "board ID")
	if !ok {
		return
	}

	summary, err := h.analyticsService.DailySummary(c.Request.Context(), principal, boardID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, summary)
}

// OverdueItems godoc
// @Summary      List overdue board items
// @Description  Returns unarchived items past their due date outside done columns
// @Tags         analytics
// @Produce      json
// @Param        boardId path string true "Board ID"
// @Success      200 {object} response.SuccessResponse{data=[]dto.ItemResponse}
// @Failure      404 {object} response.ErrorResponse
// @Router       /boards/{boardId}/analytics/overdue [get]
// @Security     BearerAuth
func (h *AnalyticsHandler) OverdueItems(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	boardID, ok := parseUUIDParam(c, "boardId", "board ID")
	if !ok {
		return
	}

	items, err := h.analyticsService.OverdueItems(c.Request.Context(), principal, boardID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, items)
}

// ProjectMetrics godoc
// @Summary      Get project metrics
// @Description  Returns per-board headline metrics with project totals
// @Tags         analytics
// @Produce      json
// @Param        projectId path string true "Project ID"
// @Success      200 {object} response.SuccessResponse{data=dto.ProjectMetricsResponse}
// @Failure      404 {object} response.ErrorResponse
// @Router       /projects/{projectId}/metrics [get]
// @Security     BearerAuth
func (h *AnalyticsHandler) ProjectMetrics(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	projectID, ok := parseUUIDParam(c, "projectId", "project ID")
	if !ok {
		return
	}

	metrics, err := h.analyticsService.ProjectMetrics(c.Request.Context(), principal, projectID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, metrics)
}
