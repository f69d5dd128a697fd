package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vinilopesc/vortex-board/internal/domain"
	"github.com/vinilopesc/vortex-board/internal/dto"
	"github.com/vinilopesc/vortex-board/internal/response"
	"github.com/vinilopesc/vortex-board/internal/service"
)

// AttachmentHandler serves presigned uploads and attachment management
type AttachmentHandler struct {
	attachmentService service.AttachmentService
}

// NewAttachmentHandler creates a new attachment handler
func NewAttachmentHandler(attachmentService service.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{attachmentService: attachmentService}
}

// CreateUpload godoc
// @Summary      Create a presigned upload
// @Description  Issues a presigned S3 PUT URL and records the pending attachment
// @Tags         attachments
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateUploadRequest true "Upload data"
// @Success      201 {object} response.SuccessResponse{data=dto.UploadResponse}
// @Failure      400 {object} response.ErrorResponse
// @Router       /attachments/presigned-url [post]
// @Security     BearerAuth
func (h *AttachmentHandler) CreateUpload(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var req dto.CreateUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	upload, err := h.attachmentService.CreateUpload(c.Request.Context(), principal, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, upload)
}

// ConfirmAttachments godoc
// @Summary      Confirm uploaded attachments
// @Description  Binds uploaded files to a bug or feature once the PUT has completed
// @Tags         attachments
// @Accept       json
// @Produce      json
// @Param        request body dto.ConfirmAttachmentsRequest true "Attachments to confirm"
// @Success      200 {object} response.SuccessResponse{data=[]dto.AttachmentResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      403 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /attachments/confirm [post]
// @Security     BearerAuth
func (h *AttachmentHandler) ConfirmAttachments(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var req dto.ConfirmAttachmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	attachments, err := h.attachmentService.ConfirmAttachments(c.Request.Context(), principal, domain.ItemType(req.ItemType), req.ItemID, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, attachments)
}

// ListAttachments godoc
// @Summary      List item attachments
// @Description  Returns the confirmed attachments of a bug or feature
// @Tags         attachments
// @Produce      json
// @Param        itemType path string true "bug or feature"
// @Param        itemId path string true "Item ID"
// @Success      200 {object} response.SuccessResponse{data=[]dto.AttachmentResponse}
// @Failure      404 {object} response.ErrorResponse
// @Router       /items/{itemType}/{itemId}/attachments [get]
// @Security     BearerAuth
func (h *AttachmentHandler) ListAttachments(c *gin.Context) {
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

	attachments, err := h.attachmentService.ListAttachments(c.Request.Context(), principal, itemType, itemID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, attachments)
}

// DeleteAttachment godoc
// @Summary      Delete an attachment
// @Description  Removes an attachment from storage and from the item
// @Tags         attachments
// @Produce      json
// @Param        attachmentId path string true "Attachment ID"
// @Success      200 {object} response.SuccessResponse
// @Failure      403 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /attachments/{attachmentId} [delete]
// @Security     BearerAuth
func (h *AttachmentHandler) DeleteAttachment(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	attachmentID, ok := parseUUIDParam(c, "attachmentId", "attachment ID")
	if !ok {
		return
	}

	if err := h.attachmentService.DeleteAttachment(c.Request.Context(), principal, attachmentID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"message": "Attachment deleted"})
}
