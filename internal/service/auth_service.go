package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/vinilopesc/vortex-board/internal/config"
	"github.com/vinilopesc/vortex-board/internal/database"
	"github.com/vinilopesc/vortex-board/internal/domain"
	"github.com/vinilopesc/vortex-board/internal/dto"
	"github.com/vinilopesc/vortex-board/internal/repository"
	"github.com/vinilopesc/vortex-board/internal/response"
	"github.com/vinilopesc/vortex-board/internal/util"
)

const (
	maxLoginFailures = 5
	lockoutWindow    = 15 * time.Minute
)

// TokenClaims is the identity carried by a validated token
type TokenClaims struct {
	UserID uuid.UUID
	Name   string
	Tenant string
	Role   domain.UserRole
}

// AuthService defines the interface for registration, login and token
// validation
type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	ValidateToken(tokenString string) (*TokenClaims, error)
}

type authServiceImpl struct {
	userRepo repository.UserRepository
	jwtCfg   config.JWTConfig
	logger   *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, jwtCfg config.JWTConfig, logger *zap.Logger) AuthService {
	return &authServiceImpl{
		userRepo: userRepo,
		jwtCfg:   jwtCfg,
		logger:   logger,
	}
}

func (s *authServiceImpl) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, response.NewAlreadyExistsError("email is already registered", "")
	}

	role := domain.UserRole(req.Role)
	if req.Role == "" {
		role = domain.RoleWorker
	}
	if !role.Valid() {
		return nil, response.NewValidationError("unknown role", req.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Tenant:       strings.TrimSpace(req.Tenant),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("tenant", user.Tenant),
		zap.String("role", string(user.Role)))

	return s.authResponse(user)
}

func (s *authServiceImpl) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if database.GetRedis() != nil {
		count, err := database.LoginFailureCount(ctx, email)
		if err == nil && count >= maxLoginFailures {
			return nil, response.NewRateLimitedError("too many failed login attempts, try again later", "")
		}
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.recordLoginFailure(ctx, email)
			return nil, response.NewUnauthorizedError("invalid email or password", "")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.recordLoginFailure(ctx, email)
		return nil, response.NewUnauthorizedError("invalid email or password", "")
	}

	if database.GetRedis() != nil {
		if err := database.ResetLoginFailures(ctx, email); err != nil {
			s.logger.Warn("Failed to reset login failure counter", zap.Error(err))
		}
	}

	return s.authResponse(user)
}

func (s *authServiceImpl) recordLoginFailure(ctx context.Context, email string) {
	if database.GetRedis() == nil {
		return
	}
	count, err := database.RecordLoginFailure(ctx, email, lockoutWindow)
	if err != nil {
		s.logger.Warn("Failed to record login failure", zap.Error(err))
		return
	}
	if count == maxLoginFailures {
		s.logger.Warn("Account locked after repeated login failures",
			zap.String("email", email),
			zap.Duration("window", lockoutWindow))
	}
}

func (s *authServiceImpl) authResponse(user *domain.User) (*dto.AuthResponse, error) {
	token, expiresAt, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      dto.NewUserResponse(user, util.UserColor(user.Email)),
	}, nil
}

func (s *authServiceImpl) generateToken(user *domain.User) (string, time.Time, error) {
	expiresAt := time.Now().Add(s.jwtCfg.Expiry)
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"name":    user.Name,
		"tenant":  user.Tenant,
		"role":    string(user.Role),
		"exp":     expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtCfg.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (s *authServiceImpl) ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.jwtCfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, response.NewUnauthorizedError("invalid or expired token", "")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, response.NewUnauthorizedError("invalid token claims", "")
	}

	userIDStr, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, response.NewUnauthorizedError("invalid token claims", "")
	}

	tenant, _ := claims["tenant"].(string)
	roleStr, _ := claims["role"].(string)
	name, _ := claims["name"].(string)
	role := domain.UserRole(roleStr)
	if tenant == "" || !role.Valid() {
		return nil, response.NewUnauthorizedError("invalid token claims", "")
	}

	return &TokenClaims{
		UserID: userID,
		Name:   name,
		Tenant: tenant,
		Role:   role,
	}, nil
}
