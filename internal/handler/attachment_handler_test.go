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

	"github.com/vinilopesc/vortex-board/internal/access"
	"github.com/vinilopesc/vortex-board/internal/domain"
	"github.com/vinilopesc/vortex-board/internal/dto"
	"github.com/vinilopesc/vortex-board/internal/response"
)

// MockAttachmentService is a mock implementation of AttachmentService
type MockAttachmentService struct {
	CreateUploadFunc       func(ctx context.Context, principal access.Principal, req dto.CreateUploadRequest) (*dto.UploadResponse, error)
	ConfirmAttachmentsFunc func(ctx context.Context, principal access.Principal, itemType domain.ItemType, itemID uuid.UUID, req dto.ConfirmAttachmentsRequest) ([]dto.AttachmentResponse, error)
	ListAttachmentsFunc    func(ctx context.Context, principal access.Principal, itemType domain.ItemType, itemID uuid.UUID) ([]dto.AttachmentResponse, error)
	DeleteAttachmentFunc   func(ctx context.Context, principal access.Principal, attachmentID uuid.UUID) error
	CleanupExpiredFunc     func(ctx context.Context) (int, error)
}

func (m *MockAttachmentService) CreateUpload(ctx context.Context, principal access.Principal, req dto.CreateUploadRequest) (*dto.UploadResponse, error) {
	if m.CreateUploadFunc != nil {
		return m.CreateUploadFunc(ctx, principal, req)
	}
	return nil, nil
}

func (m *MockAttachmentService) ConfirmAttachments(ctx context.Context, principal access.Principal, itemType domain.ItemType, itemID uuid.UUID, req dto.ConfirmAttachmentsRequest) ([]dto.AttachmentResponse, error) {
	if m.ConfirmAttachmentsFunc != nil {
		return m.ConfirmAttachmentsFunc(ctx, principal, itemType, itemID, req)
	}
	return nil, nil
}

func (m *MockAttachmentService) ListAttachments(ctx context.Context, principal access.Principal, itemType domain.ItemType, itemID uuid.UUID) ([]dto.AttachmentResponse, error) {
	if m.ListAttachmentsFunc != nil {
		return m.ListAttachmentsFunc(ctx, principal, itemType, itemID)
	}
	return nil, nil
}

func (m *MockAttachmentService) DeleteAttachment(ctx context.Context, principal access.Principal, attachmentID uuid.UUID) error {
	if m.DeleteAttachmentFunc != nil {
		return m.DeleteAttachmentFunc(ctx, principal, attachmentID)
	}
	return nil
}

func (m *MockAttachmentService) CleanupExpired(ctx context.Context) (int, error) {
	if m.CleanupExpiredFunc != nil {
		return m.CleanupExpiredFunc(ctx)
	}
	return 0, nil
}

func TestAttachmentHandler_CreateUpload(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		mockService    func(*MockAttachmentService)
		expectedStatus int
		checkResponse  func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "presigned URL is issued",
			requestBody: dto.CreateUploadRequest{
				Type:        "bug",
				FileName:    "stacktrace.txt",
				ContentType: "text/plain",
				FileSize:    2048,
			},
			mockService: func(m *MockAttachmentService) {
				m.CreateUploadFunc = func(ctx context.Context, principal access.Principal, req dto.CreateUploadRequest) (*dto.UploadResponse, error) {
					return &dto.UploadResponse{
						AttachmentID: uuid.New(),
						UploadURL:    "https://bucket.s3.amazonaws.com/attachments/key?signature=abc",
						FileKey:      "attachments/bug/key",
						ExpiresAt:    time.Now().Add(15 * time.Minute),
					}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp response.SuccessResponse
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("Failed to unmarshal response: %v", err)
				}
				data := resp.Data.(map[string]interface{})
				if data["uploadUrl"] == "" {
					t.Error("Expected uploadUrl to be present")
				}
			},
		},
		{
			name: "oversized file is rejected by binding",
			requestBody: map[string]interface{}{
				"type":        "bug",
				"fileName":    "dump.bin",
				"contentType": "application/octet-stream",
				"fileSize":    60 * 1024 * 1024,
			},
			mockService:    func(m *MockAttachmentService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockAttachmentService{}
			tt.mockService(mockService)
			handler := NewAttachmentHandler(mockService)

			principal := workerPrincipal()
			router := setupTestRouter(&principal)
			router.POST("/api/v1/attachments/presigned-url", handler.CreateUpload)

			body, _ := json.Marshal(tt.requestBody)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/attachments/presigned-url", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("CreateUpload() status = %v, want %v, body: %s", w.Code, tt.expectedStatus, w.Body.String())
			}
			if tt.checkResponse != nil {
				tt.checkResponse(t, w)
			}
		})
	}
}

func TestAttachmentHandler_ConfirmAttachments(t *testing.T) {
	itemID := uuid.New()
	attachmentID := uuid.New()

	t.Run("body fields reach the service as typed arguments", func(t *testing.T) {
		var gotType domain.ItemType
		var gotItem uuid.UUID
		mockService := &MockAttachmentService{
			ConfirmAttachmentsFunc: func(ctx context.Context, principal access.Principal, itemType domain.ItemType, id uuid.UUID, req dto.ConfirmAttachmentsRequest) ([]dto.AttachmentResponse, error) {
				gotType, gotItem = itemType, id
				return []dto.AttachmentResponse{{AttachmentID: req.AttachmentIDs[0], Status: "CONFIRMED"}}, nil
			},
		}
		handler := NewAttachmentHandler(mockService)

		principal := workerPrincipal()
		router := setupTestRouter(&principal)
		router.POST("/api/v1/attachments/confirm", handler.ConfirmAttachments)

		body, _ := json.Marshal(dto.ConfirmAttachmentsRequest{
			ItemID:        itemID,
			ItemType:      "feature",
			AttachmentIDs: []uuid.UUID{attachmentID},
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/attachments/confirm", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("ConfirmAttachments() status = %v, want %v, body: %s", w.Code, http.StatusOK, w.Body.String())
		}
		if gotType != domain.ItemTypeFeature || gotItem != itemID {
			t.Errorf("ConfirmAttachments() forwarded (%v, %v), want (feature, %v)", gotType, gotItem, itemID)
		}
	})

	t.Run("empty attachment list is rejected", func(t *testing.T) {
		mockService := &MockAttachmentService{}
		handler := NewAttachmentHandler(mockService)

		principal := workerPrincipal()
		router := setupTestRouter(&principal)
		router.POST("/api/v1/attachments/confirm", handler.ConfirmAttachments)

		body, _ := json.Marshal(map[string]interface{}{
			"itemId":        itemID,
			"itemType":      "bug",
			"attachmentIds": []uuid.UUID{},
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/attachments/confirm", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("ConfirmAttachments() status = %v, want %v, body: %s", w.Code, http.StatusBadRequest, w.Body.String())
		}
	})

	t.Run("pending upload from another user reads as missing", func(t *testing.T) {
		mockService := &MockAttachmentService{
			ConfirmAttachmentsFunc: func(ctx context.Context, principal access.Principal, itemType domain.ItemType, id uuid.UUID, req dto.ConfirmAttachmentsRequest) ([]dto.AttachmentResponse, error) {
				return nil, response.NewNotFoundError("attachment not found", "")
			},
		}
		handler := NewAttachmentHandler(mockService)

		principal := workerPrincipal()
		router := setupTestRouter(&principal)
		router.POST("/api/v1/attachments/confirm", handler.ConfirmAttachments)

		body, _ := json.Marshal(dto.ConfirmAttachmentsRequest{
			ItemID:        itemID,
			ItemType:      "bug",
			AttachmentIDs: []uuid.UUID{attachmentID},
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/attachments/confirm", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("ConfirmAttachments() status = %v, want %v, body: %s", w.Code, http.StatusNotFound, w.Body.String())
		}
	})
}

func TestAttachmentHandler_DeleteAttachment(t *testing.T) {
	attachmentID := uuid.New()

	tests := []struct {
		name           string
		attachmentID   string
		mockService    func(*MockAttachmentService)
		expectedStatus int
	}{
		{
			name:         "uploader deletes the attachment",
			attachmentID: attachmentID.String(),
			mockService: func(m *MockAttachmentService) {
				m.DeleteAttachmentFunc = func(ctx context.Context, principal access.Principal, id uuid.UUID) error {
					return nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:         "worker cannot delete another user's attachment",
			attachmentID: attachmentID.String(),
			mockService: func(m *MockAttachmentService) {
				m.DeleteAttachmentFunc = func(ctx context.Context, principal access.Principal, id uuid.UUID) error {
					return response.NewForbiddenError("only the uploader or a manager can delete attachments", "")
				}
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "malformed id is rejected",
			attachmentID:   "not-a-uuid",
			mockService:    func(m *MockAttachmentService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockAttachmentService{}
			tt.mockService(mockService)
			handler := NewAttachmentHandler(mockService)

			principal := workerPrincipal()
			router := setupTestRouter(&principal)
			router.DELETE("/api/v1/attachments/:attachmentId", handler.DeleteAttachment)

			req := httptest.NewRequest(http.MethodDelete, "/api/v1/attachments/"+tt.attachmentID, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("DeleteAttachment() status = %v, want %v, body: %s", w.Code, tt.expectedStatus, w.Body.String())
			}
		})
	}
}
