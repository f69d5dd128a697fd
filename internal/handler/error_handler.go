package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vinilopesc/vortex-board/internal/access"
	"github.com/vinilopesc/vortex-board/internal/domain"
	"github.com/vinilopesc/vortex-board/internal/middleware"
	"github.com/vinilopesc/vortex-board/internal/response"
)

// handleServiceError maps service layer errors to HTTP responses
func handleServiceError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.SendError(c, http.StatusNotFound, response.ErrCodeNotFound, "Resource not found")
		return
	}

	var appErr *response.AppError
	if errors.As(err, &appErr) {
		response.SendError(c, mapErrorCodeToHTTPStatus(appErr.Code), appErr.Code, appErr.Message)
		return
	}

	response.SendError(c, http.StatusInternalServerError, response.ErrCodeInternal, "Internal server error")
}

// mapErrorCodeToHTTPStatus maps error codes to HTTP status codes
func mapErrorCodeToHTTPStatus(code string) int {
	switch code {
	case response.ErrCodeNotFound:
		return http.StatusNotFound
	case response.ErrCodeAlreadyExists:
		return http.StatusConflict
	case response.ErrCodeValidation:
		return http.StatusBadRequest
	case response.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case response.ErrCodeForbidden:
		return http.StatusForbidden
	case response.ErrCodeWipLimitExceeded, response.ErrCodeConflict:
		return http.StatusConflict
	case response.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// currentPrincipal pulls the principal stored by the auth middleware. Routes
// behind Auth always carry one; the guard covers handlers invoked directly.
func currentPrincipal(c *gin.Context) (access.Principal, bool) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "User not authenticated")
	}
	return principal, ok
}

// parseItemType validates the :itemType path segment
func parseItemType(c *gin.Context) (domain.ItemType, bool) {
	itemType := domain.ItemType(c.Param("itemType"))
	if !itemType.Valid() {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid item type")
		return "", false
	}
	return itemType, true
}

// parseUUIDParam parses a path parameter as a UUID, replying 400 with the
// given label on failure
func parseUUIDParam(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid "+label)
		return uuid.Nil, false
	}
	return id, true
}
