package response

import (
	"github.com/gin-gonic/gin"
)

// Error codes returned in API responses. Handlers map these to HTTP status
// codes; clients are expected to branch on the code, not the message.
const (
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeAlreadyExists    = "ALREADY_EXISTS"
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeWipLimitExceeded = "WIP_LIMIT_EXCEEDED"
	ErrCodeConflict         = "CONFLICT"
	ErrCodeRateLimited      = "RATE_LIMITED"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// AppError is the error type carried from the service layer up to handlers.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return e.Code + ": " + e.Message + " (" + e.Details + ")"
	}
	return e.Code + ": " + e.Message
}

// NewAppError creates a new AppError with the given code
func NewAppError(code, message, details string) *AppError {
	return &AppError{Code: code, Message: message, Details: details}
}

// NewNotFoundError creates an AppError with the NOT_FOUND code
func NewNotFoundError(message, details string) *AppError {
	return NewAppError(ErrCodeNotFound, message, details)
}

// NewForbiddenError creates an AppError with the FORBIDDEN code
func NewForbiddenError(message, details string) *AppError {
	return NewAppError(ErrCodeForbidden, message, details)
}

// NewValidationError creates an AppError with the VALIDATION_ERROR code
func NewValidationError(message, details string) *AppError {
	return NewAppError(ErrCodeValidation, message, details)
}

// NewWipLimitError creates an AppError with the WIP_LIMIT_EXCEEDED code
func NewWipLimitError(message, details string) *AppError {
	return NewAppError(ErrCodeWipLimitExceeded, message, details)
}

// NewConflictError creates an AppError with the CONFLICT code
func NewConflictError(message, details string) *AppError {
	return NewAppError(ErrCodeConflict, message, details)
}

// NewUnauthorizedError creates an AppError with the UNAUTHORIZED code
func NewUnauthorizedError(message, details string) *AppError {
	return NewAppError(ErrCodeUnauthorized, message, details)
}

// NewAlreadyExistsError creates an AppError with the ALREADY_EXISTS code
func NewAlreadyExistsError(message, details string) *AppError {
	return NewAppError(ErrCodeAlreadyExists, message, details)
}

// NewRateLimitedError creates an AppError with the RATE_LIMITED code
func NewRateLimitedError(message, details string) *AppError {
	return NewAppError(ErrCodeRateLimited, message, details)
}

// NewInternalError creates an AppError with the INTERNAL_ERROR code
func NewInternalError(message, details string) *AppError {
	return NewAppError(ErrCodeInternal, message, details)
}

// SuccessResponse is the envelope for successful API responses
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorDetail describes a single API error
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the envelope for failed API responses
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// SendSuccess writes a success envelope with the given status code
func SendSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, SuccessResponse{Success: true, Data: data})
}

// SendError writes an error envelope with the given status code
func SendError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{
		Success: false,
		Error:   ErrorDetail{Code: code, Message: message},
	})
}
