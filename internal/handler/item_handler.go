package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vinilopesc/vortex-board/internal/dto"
	"github.com/vinilopesc/vortex-board/internal/response"
	"github.com/vinilopesc/vortex-board/internal/service"
)

// ItemHandler serves item mutations, comments and time tracking
type ItemHandler struct {
	mutationService service.MutationService
}

// NewItemHandler creates a new item handler
func NewItemHandler(mutationService service.MutationService) *ItemHandler {
	return &ItemHandler{mutationService: mutationService}
}

// MoveItem godoc
// @Summary      Move an item
// @Description  Moves a bug or feature to another column and position, enforcing WIP limits
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        request body dto.MoveItemRequest true "Move data"
// @Success      200 {object} response.SuccessResponse{data=dto.MoveItemResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      403 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse "WIP limit reached"
// @Router       /items/move [post]
// @Security     BearerAuth
func (h *ItemHandler) MoveItem(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var req dto.MoveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	moved, err := h.mutationService.MoveItem(c.Request.Context(), principal, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, moved)
}

// CreateItem godoc
// @Summary      Create an item
// @Description  Creates a bug or feature in a column and appends it at the tail
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateItemRequest true "Item data"
// @Success      201 {object} response.SuccessResponse{data=dto.ItemResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      403 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse "WIP limit reached"
// @Router       /items [post]
// @Security     BearerAuth
func (h *ItemHandler) CreateItem(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var req dto.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	item, err := h.mutationService.CreateItem(c.Request.Context(), principal, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, item)
}

// UpdateItem godoc
// @Summary      Update an item
// @Description  Edits the fields of a bug or feature, leaving absent fields untouched
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        itemType path string true "bug or feature"
// @Param        itemId path string true "Item ID"
// @Param        request body dto.UpdateItemRequest true "Fields to update"
// @Success      200 {object} response.SuccessResponse{data=dto.ItemResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      403 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /items/{itemType}/{itemId} [patch]
// @Security     BearerAuth
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	itemType, ok := parseItemType(c)
	if !ok {
		return
	}

	itemID, ok := parseUUIDParam(c, "itemId", "item ID")
	if !ok {
		return
	}

	var req dto.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	item, err := h.mutationService.UpdateItem(c.Request.Context(), principal, itemType, itemID, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, item)
}

// ArchiveItem godoc
// @Summary      Archive an item
// @Description  Hides a bug or feature from the board without deleting it
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        request body dto.ArchiveItemRequest true "Archive data"
// @Success      200 {object} response.SuccessResponse
// @Failure      400 {object} response.ErrorResponse
// @Failure      403 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /items/archive [post]
// @Security     BearerAuth
func (h *ItemHandler) ArchiveItem(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var req dto.ArchiveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	if err := h.mutationService.ArchiveItem(c.Request.Context(), principal, req); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"message": "Item archived"})
}

// AddComment godoc
// @Summary      Comment on an item
// @Description  Appends a comment to a bug or feature
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        request body dto.AddCommentRequest true "Comment data"
// @Success      201 {object} response.SuccessResponse{data=dto.CommentResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      403 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /items/comments [post]
// @Security     BearerAuth
func (h *ItemHandler) AddComment(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var req dto.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	comment, err := h.mutationService.AddComment(c.Request.Context(), principal, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, comment)
}

// ListComments godoc
// @Summary      List item comments
// @Description  Returns the comments of a bug or feature, oldest first
// @Tags         items
// @Produce      json
// @Param        itemType path string true "bug or feature"
// @Param        itemId path string true "Item ID"
// @Success      200 {object} response.SuccessResponse{data=[]dto.CommentResponse}
// @Failure      404 {object} response.ErrorResponse
// @Router       /items/{itemType}/{itemId}/comments [get]
// @Security     BearerAuth
func (h *ItemHandler) ListComments(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	itemType, ok := parseItemType(c)
	if !ok {
		return
	}

	itemID, ok := parseUUIDParam(c, "itemId", "item ID")
	if !ok {
		return
	}

	comments, err := h.mutationService.ListComments(c.Request.Context(), principal, itemType, itemID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, comments)
}

// StartTimeEntry godoc
// @Summary      Start a time entry
// @Description  Opens a running time entry on a bug or feature for the caller
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        request body dto.StartTimeEntryRequest true "Time entry data"
// @Success      201 {object} response.SuccessResponse{data=dto.TimeEntryResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      403 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse "An entry is already running"
// @Router       /items/time-entries [post]
// @Security     BearerAuth
func (h *ItemHandler) StartTimeEntry(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var req dto.StartTimeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	entry, err := h.mutationService.StartTimeEntry(c.Request.Context(), principal, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, entry)
}

// StopTimeEntry godoc
// @Summary      Stop a time entry
// @Description  Closes a running time entry owned by the caller
// @Tags         items
// @Produce      json
// @Param        entryId path string true "Time entry ID"
// @Success      200 {object} response.SuccessResponse{data=dto.TimeEntryResponse}
// @Failure      403 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse "Entry already stopped"
// @Router       /time-entries/{entryId}/stop [post]
// @Security     BearerAuth
func (h *ItemHandler) StopTimeEntry(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	entryID, ok := parseUUIDParam(c, "entryId", "entry ID")
	if !ok {
		return
	}

	entry, err := h.mutationService.StopTimeEntry(c.Request.Context(), principal, entryID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, entry)
}

// ListTimeEntries godoc
// @Summary      List item time entries
// @Description  Returns the time entries logged against a bug or feature
// @Tags         items
// @Produce      json
// @Param        itemType path string true "bug or feature"
// @Param        itemId path string true "Item ID"
// @Success      200 {object} response.SuccessResponse{data=[]dto.TimeEntryResponse}
// @Failure      404 {object} response.ErrorResponse
// @Router       /items/{itemType}/{itemId}/time-entries [get]
// @Security     BearerAuth
func (h *ItemHandler) ListTimeEntries(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	itemType, ok := parseItemType(c)
	if !ok {
		return
	}

	itemID, ok := parseUUIDParam(c, "itemId", "item ID")
	if !ok {
		return
	}

	entries, err := h.mutationService.ListTimeEntries(c.Request.Context(), principal, itemType, itemID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, entries)
}
