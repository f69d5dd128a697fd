package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vinilopesc/vortex-board/internal/dto"
	"github.com/vinilopesc/vortex-board/internal/response"
	"github.com/vinilopesc/vortex-board/internal/service"
)

// BoardHandler serves board, column and board history operations
type BoardHandler struct {
	boardService service.BoardService
}

// NewBoardHandler creates a new board handler
func NewBoardHandler(boardService service.BoardService) *BoardHandler {
	return &BoardHandler{boardService: boardService}
}

// CreateBoard godoc
// @Summary      Create a board
// @Description  Creates a board with the default column layout inside a project
// @Tags         boards
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateBoardRequest true "Board data"
// @Success      201 {object} response.SuccessResponse{data=dto.BoardResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      403 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /boards [post]
// @Security     BearerAuth
func (h *BoardHandler) CreateBoard(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var req dto.CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	board, err := h.boardService.CreateBoard(c.Request.Context(), principal, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, board)
}

// GetBoard godoc
// @Summary      Get a board
// @Description  Returns a board with its columns
// @Tags         boards
// @Produce      json
// @Param        boardId path string true "Board ID"
// @Success      200 {object} response.SuccessResponse{data=dto.BoardDetailResponse}
// @Failure      404 {object} response.ErrorResponse
// @Router       /boards/{boardId} [get]
// @Security     BearerAuth
func (h *BoardHandler) GetBoard(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	boardID, ok := parseUUIDParam(c, "boardId", "board ID")
	if !ok {
		return
	}

	board, err := h.boardService.GetBoard(c.Request.Context(), principal, boardID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, board)
}

// ListBoards godoc
// @Summary      List project boards
// @Description  Returns the boards of a project the caller can read
// @Tags         boards
// @Produce      json
// @Param        projectId path string true "Project ID"
// @Success      200 {object} response.SuccessResponse{data=[]dto.BoardResponse}
// @Failure      404 {object} response.ErrorResponse
// @Router       /projects/{projectId}/boards [get]
// @Security     BearerAuth
func (h *BoardHandler) ListBoards(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	projectID, ok := parseUUIDParam(c, "projectId", "project ID")
	if !ok {
		return
	}

	boards, err := h.boardService.ListBoards(c.Request.Context(), principal, projectID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, boards)
}

// GetSnapshot godoc
// @Summary      Get a board snapshot
// @Description  Returns the column occupancy snapshot used for client resync
// @Tags         boards
// @Produce      json
// @Param        boardId path string true "Board ID"
// @Success      200 {object} response.SuccessResponse{data=dto.BoardSyncState}
// @Failure      404 {object} response.ErrorResponse
// @Router       /boards/{boardId}/snapshot [get]
// @Security     BearerAuth
func (h *BoardHandler) GetSnapshot(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	boardID, ok := parseUUIDParam(c, "boardId", "board ID")
	if !ok {
		return
	}

	if _, err := h.boardService.AuthorizeBoardAccess(c.Request.Context(), principal, boardID); err != nil {
		handleServiceError(c, err)
		return
	}

	state, err := h.boardService.BuildSyncState(c.Request.Context(), boardID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, state)
}

// UpdateColumn godoc
// @Summary      Update a column
// @Description  Renames a column or changes its WIP limit or done flag
// @Tags         boards
// @Accept       json
// @Produce      json
// @Param        columnId path string true "Column ID"
// @Param        request body dto.UpdateColumnRequest true "Fields to update"
// @Success      200 {object} response.SuccessResponse{data=dto.ColumnResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      403 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /columns/{columnId} [patch]
// @Security     BearerAuth
func (h *BoardHandler) UpdateColumn(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	columnID, ok := parseUUIDParam(c, "columnId", "column ID")
	if !ok {
		return
	}

	var req dto.UpdateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	column, err := h.boardService.UpdateColumn(c.Request.Context(), principal, columnID, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, column)
}

// SearchItems godoc
// @Summary      Search board items
// @Description  Filters bugs and features on a board by text, type, priority and assignee
// @Tags         boards
// @Produce      json
// @Param        boardId path string true "Board ID"
// @Param        q query string false "Text matched against title and description"
// @Param        itemType query string false "bug or feature"
// @Param        priority query string false "low, medium, high or critical"
// @Param        assigneeId query string false "Assignee user ID"
// @Param        includeArchived query bool false "Include archived items"
// @Success      200 {object} response.SuccessResponse{data=[]dto.ItemResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /boards/{boardId}/items/search [get]
// @Security     BearerAuth
func (h *BoardHandler) SearchItems(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	boardID, ok := parseUUIDParam(c, "boardId", "board ID")
	if !ok {
		return
	}

	var req dto.SearchItemsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid search filters")
		return
	}

	items, err := h.boardService.SearchItems(c.Request.Context(), principal, boardID, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, items)
}

// RecentEvents godoc
// @Summary      Get board event history
// @Description  Returns the most recent board events, newest first
// @Tags         boards
// @Produce      json
// @Param        boardId path string true "Board ID"
// @Param        limit query int false "Maximum entries to return (default 50, cap 200)"
// @Success      200 {object} response.SuccessResponse{data=[]dto.BoardEventResponse}
// @Failure      404 {object} response.ErrorResponse
// @Router       /boards/{boardId}/events [get]
// @Security     BearerAuth
func (h *BoardHandler) RecentEvents(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	boardID, ok := parseUUIDParam(c, "boardId", "board ID")
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid limit")
			return
		}
		limit = parsed
	}

	events, err := h.boardService.RecentEvents(c.Request.Context(), principal, boardID, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, events)
}
