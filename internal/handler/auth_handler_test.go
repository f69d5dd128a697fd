package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vinilopesc/vortex-board/internal/dto"
	"github.com/vinilopesc/vortex-board/internal/response"
	"github.com/vinilopesc/vortex-board/internal/service"
)

// MockAuthService is a mock implementation of AuthService
type MockAuthService struct {
	RegisterFunc      func(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error)
	LoginFunc         func(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	ValidateTokenFunc func(tokenString string) (*service.TokenClaims, error)
}

func (m *MockAuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, req)
	}
	return nil, nil
}

func (m *MockAuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, req)
	}
	return nil, nil
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.TokenClaims, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(tokenString)
	}
	return nil, nil
}

func TestAuthHandler_Register(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name           string
		requestBody    interface{}
		mockService    func(*MockAuthService)
		expectedStatus int
		checkResponse  func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "registration returns a token",
			requestBody: dto.RegisterRequest{
				Name:     "Dana Silva",
				Email:    "dana@example.com",
				Password: "s3cret-pass",
				Tenant:   "acme",
			},
			mockService: func(m *MockAuthService) {
				m.RegisterFunc = func(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
					return &dto.AuthResponse{
						Token:     "signed-token",
						ExpiresAt: time.Now().Add(24 * time.Hour),
						User:      dto.UserResponse{UserID: userID, Name: req.Name, Email: req.Email},
					}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp response.SuccessResponse
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("Failed to unmarshal response: %v", err)
				}
				dataBytes, _ := json.Marshal(resp.Data)
				var auth dto.AuthResponse
				if err := json.Unmarshal(dataBytes, &auth); err != nil {
					t.Fatalf("Failed to unmarshal data: %v", err)
				}
				if auth.Token != "signed-token" {
					t.Errorf("Expected token 'signed-token', got %q", auth.Token)
				}
			},
		},
		{
			name:           "malformed body is rejected",
			requestBody:    "invalid json",
			mockService:    func(m *MockAuthService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "short password is rejected by binding",
			requestBody: map[string]string{
				"name":     "Dana Silva",
				"email":    "dana@example.com",
				"password": "short",
				"tenant":   "acme",
			},
			mockService:    func(m *MockAuthService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate email conflicts",
			requestBody: dto.RegisterRequest{
				Name:     "Dana Silva",
				Email:    "dana@example.com",
				Password: "s3cret-pass",
				Tenant:   "acme",
			},
			mockService: func(m *MockAuthService) {
				m.RegisterFunc = func(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
					return nil, response.NewAlreadyExistsError("email already registered", "")
				}
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockAuthService{}
			tt.mockService(mockService)
			handler := NewAuthHandler(mockService)

			router := setupTestRouter(nil)
			router.POST("/api/v1/auth/register", handler.Register)

			body, _ := json.Marshal(tt.requestBody)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Register() status = %v, want %v, body: %s", w.Code, tt.expectedStatus, w.Body.String())
			}
			if tt.checkResponse != nil {
				tt.checkResponse(t, w)
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		mockService    func(*MockAuthService)
		expectedStatus int
	}{
		{
			name:        "valid credentials log in",
			requestBody: dto.LoginRequest{Email: "dana@example.com", Password: "s3cret-pass"},
			mockService: func(m *MockAuthService) {
				m.LoginFunc = func(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
					return &dto.AuthResponse{Token: "signed-token"}, nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:        "wrong password is unauthorized",
			requestBody: dto.LoginRequest{Email: "dana@example.com", Password: "wrong-pass"},
			mockService: func(m *MockAuthService) {
				m.LoginFunc = func(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
					return nil, response.NewUnauthorizedError("invalid credentials", "")
				}
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:        "locked account is rate limited",
			requestBody: dto.LoginRequest{Email: "dana@example.com", Password: "s3cret-pass"},
			mockService: func(m *MockAuthService) {
				m.LoginFunc = func(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
					return nil, response.NewRateLimitedError("too many failed attempts", "")
				}
			},
			expectedStatus: http.StatusTooManyRequests,
		},
		{
			name:           "malformed body is rejected",
			requestBody:    "invalid json",
			mockService:    func(m *MockAuthService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockAuthService{}
			tt.mockService(mockService)
			handler := NewAuthHandler(mockService)

			router := setupTestRouter(nil)
			router.POST("/api/v1/auth/login", handler.Login)

			body, _ := json.Marshal(tt.requestBody)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Login() status = %v, want %v, body: %s", w.Code, tt.expectedStatus, w.Body.String())
			}
		})
	}
}
