package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/vinilopesc/vortex-board/internal/domain"
)

// RegisterRequest represents the request to register a new user
// @Description Request body for user registration. Role defaults to worker.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=150" example:"Dana Silva"`
	Email    string `json:"email" binding:"required,email" example:"dana@example.com"`
	Password string `json:"password" binding:"required,min=8" example:"s3cret-pass"`
	Tenant   string `json:"tenant" binding:"required,min=2,max=120" example:"acme"`
	Role     string `json:"role" binding:"omitempty,oneof=admin manager worker" example:"worker"`
}

// LoginRequest represents the login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"dana@example.com"`
	Password string `json:"password" binding:"required" example:"s3cret-pass"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	UserID    uuid.UUID `json:"userId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Tenant    string    `json:"tenant"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthResponse represents a successful authentication
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// NewUserResponse converts a user into its API shape. Color is derived from
// the email so every client renders the same avatar color for a user.
func NewUserResponse(user *domain.User, color string) UserResponse {
	return UserResponse{
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      string(user.Role),
		Tenant:    user.Tenant,
		Color:     color,
		CreatedAt: user.CreatedAt,
	}
}
