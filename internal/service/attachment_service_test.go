package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vinilopesc/vortex-board/internal/access"
	"github.com/vinilopesc/vortex-board/internal/domain"
	"github.com/vinilopesc/vortex-board/internal/dto"
	"github.com/vinilopesc/vortex-board/internal/response"
)

type attachmentFixture struct {
	projectID uuid.UUID
	boardID   uuid.UUID
	columnID  uuid.UUID
	itemID    uuid.UUID
	members   map[uuid.UUID]bool

	attachmentRepo *MockAttachmentRepository
	itemRepo       *MockItemRepository
	boardRepo      *MockBoardRepository
	projectRepo    *MockProjectRepository
	userRepo       *MockUserRepository
	s3             *MockS3Client
}

func newAttachmentFixture() *attachmentFixture {
	f := &attachmentFixture{
		projectID: uuid.New(),
		boardID:   uuid.New(),
		columnID:  uuid.New(),
		itemID:    uuid.New(),
		members:   map[uuid.UUID]bool{},
	}
	f.itemRepo = &MockItemRepository{
		FindFunc: func(ctx context.Context, itemType domain.ItemType, id uuid.UUID) (domain.Item, error) {
			if id != f.itemID {
				return nil, gorm.ErrRecordNotFound
			}
			return &domain.Bug{
				WorkItem: domain.WorkItem{
					BaseModel: domain.BaseModel{ID: f.itemID},
					ColumnID:  f.columnID,
					Title:     "Broken pagination",
				},
				Severity: domain.SeverityMedium,
			}, nil
		},
	}
	f.boardRepo = &MockBoardRepository{
		FindColumnByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Column, error) {
			return &domain.Column{BaseModel: domain.BaseModel{ID: f.columnID}, BoardID: f.boardID, Title: "Backlog"}, nil
		},
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
			return &domain.Board{BaseModel: domain.BaseModel{ID: f.boardID}, ProjectID: f.projectID, Name: "Sprint Board"}, nil
		},
	}
	f.projectRepo = &MockProjectRepository{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
			return &domain.Project{
				BaseModel: domain.BaseModel{ID: f.projectID},
				Name:      "Vortex",
				Active:    true,
				Owner:     domain.User{BaseModel: domain.BaseModel{ID: uuid.New()}, Tenant: "acme"},
			}, nil
		},
		IsMemberFunc: func(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
			return f.members[userID], nil
		},
	}
	f.userRepo = &MockUserRepository{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
			return &domain.User{BaseModel: domain.BaseModel{ID: id}, Name: "Dana Flores", Tenant: "acme"}, nil
		},
	}
	f.attachmentRepo = &MockAttachmentRepository{}
	f.s3 = &MockS3Client{}
	return f
}

func (f *attachmentFixture) service() AttachmentService {
	logger, _ := zap.NewDevelopment()
	return NewAttachmentService(f.attachmentRepo, f.itemRepo, f.boardRepo, f.projectRepo, f.userRepo, f.s3, access.NewAccessGate(), logger)
}

func (f *attachmentFixture) principal(role domain.UserRole) access.Principal {
	id := uuid.New()
	f.members[id] = true
	return access.Principal{UserID: id, Tenant: "acme", Role: role}
}

func (f *attachmentFixture) tempAttachment(uploadedBy uuid.UUID) *domain.Attachment {
	expires := time.Now().Add(tempAttachmentTTL)
	return &domain.Attachment{
		BaseModel:   domain.BaseModel{ID: uuid.New(), CreatedAt: time.Now()},
		ItemType:    domain.ItemTypeBug,
		Status:      domain.AttachmentStatusTemp,
		FileName:    "stacktrace.txt",
		FileKey:     "vortex/bug/acme/stacktrace.txt",
		FileSize:    2048,
		ContentType: "text/plain",
		UploadedBy:  uploadedBy,
		ExpiresAt:   &expires,
	}
}

func TestAttachmentService_CreateUpload(t *testing.T) {
	req := dto.CreateUploadRequest{
		Type:        "bug",
		FileName:    "stacktrace.txt",
		ContentType: "text/plain",
		FileSize:    2048,
	}

	t.Run("reserves a temp slot and returns the presigned URL", func(t *testing.T) {
		f := newAttachmentFixture()
		var created *domain.Attachment
		f.attachmentRepo.CreateFunc = func(ctx context.Context, attachment *domain.Attachment) error {
			created = attachment
			return nil
		}
		principal := f.principal(domain.RoleWorker)

		got, err := f.service().CreateUpload(context.Background(), principal, req)
		if err != nil {
			t.Fatalf("CreateUpload() unexpected error = %v", err)
		}
		if got.UploadURL != "https://bucket.example.com/upload" {
			t.Errorf("UploadURL = %v", got.UploadURL)
		}
		if !strings.Contains(got.FileKey, "acme") {
			t.Errorf("FileKey = %v, want a tenant scoped key", got.FileKey)
		}
		if created == nil {
			t.Fatal("no attachment record created")
		}
		if created.Status != domain.AttachmentStatusTemp {
			t.Errorf("Status = %v, want TEMP", created.Status)
		}
		if created.UploadedBy != principal.UserID {
			t.Errorf("UploadedBy = %v, want the caller", created.UploadedBy)
		}
		if created.ExpiresAt == nil || created.ExpiresAt.Before(time.Now().Add(23*time.Hour)) {
			t.Errorf("ExpiresAt = %v, want roughly a day out", created.ExpiresAt)
		}
		if !got.ExpiresAt.After(time.Now()) {
			t.Errorf("URL expiry %v already passed", got.ExpiresAt)
		}
	})

	t.Run("fails cleanly when storage is not configured", func(t *testing.T) {
		f := newAttachmentFixture()
		logger, _ := zap.NewDevelopment()
		svc := NewAttachmentService(f.attachmentRepo, f.itemRepo, f.boardRepo, f.projectRepo, f.userRepo, nil, access.NewAccessGate(), logger)

		_, err := svc.CreateUpload(context.Background(), f.principal(domain.RoleWorker), req)
		assertErrCode(t, err, response.ErrCodeInternal)
	})

	t.Run("does not create a record when presigning fails", func(t *testing.T) {
		f := newAttachmentFixture()
		f.s3.GeneratePresignedURLFunc = func(ctx context.Context, variant, tenant, fileName, contentType string) (string, string, error) {
			return "", "", errors.New("bucket unreachable")
		}
		createCalled := false
		f.attachmentRepo.CreateFunc = func(ctx context.Context, attachment *domain.Attachment) error {
			createCalled = true
			return nil
		}

		_, err := f.service().CreateUpload(context.Background(), f.principal(domain.RoleWorker), req)
		assertErrCode(t, err, response.ErrCodeInternal)
		if createCalled {
			t.Error("attachment record created despite presign failure")
		}
	})
}

func TestAttachmentService_ConfirmAttachments(t *testing.T) {
	t.Run("binds temp uploads to the item", func(t *testing.T) {
		f := newAttachmentFixture()
		principal := f.principal(domain.RoleWorker)
		first := f.tempAttachment(principal.UserID)
		second := f.tempAttachment(principal.UserID)
		f.attachmentRepo.FindByIDsFunc = func(ctx context.Context, ids []uuid.UUID) ([]*domain.Attachment, error) {
			return []*domain.Attachment{first, second}, nil
		}
		var confirmedIDs []uuid.UUID
		var confirmedItem uuid.UUID
		f.attachmentRepo.ConfirmAttachmentsFunc = func(ctx context.Context, ids []uuid.UUID, itemType domain.ItemType, itemID uuid.UUID) error {
			confirmedIDs = ids
			confirmedItem = itemID
			return nil
		}

		req := dto.ConfirmAttachmentsRequest{AttachmentIDs: []uuid.UUID{first.ID, second.ID}}
		got, err := f.service().ConfirmAttachments(context.Background(), principal, domain.ItemTypeBug, f.itemID, req)
		if err != nil {
			t.Fatalf("ConfirmAttachments() unexpected error = %v", err)
		}
		if len(confirmedIDs) != 2 || confirmedItem != f.itemID {
			t.Errorf("confirmed %v against %v, want both against the item", confirmedIDs, confirmedItem)
		}
		if len(got) != 2 {
			t.Fatalf("responses = %v, want 2", len(got))
		}
		for _, resp := range got {
			if resp.Status != string(domain.AttachmentStatusConfirmed) {
				t.Errorf("Status = %v, want CONFIRMED", resp.Status)
			}
			if resp.FileURL == "" {
				t.Error("FileURL empty after confirmation")
			}
		}
	})

	t.Run("only the uploader may confirm", func(t *testing.T) {
		f := newAttachmentFixture()
		principal := f.principal(domain.RoleWorker)
		other := f.tempAttachment(uuid.New())
		f.attachmentRepo.FindByIDsFunc = func(ctx context.Context, ids []uuid.UUID) ([]*domain.Attachment, error) {
			return []*domain.Attachment{other}, nil
		}

		req := dto.ConfirmAttachmentsRequest{AttachmentIDs: []uuid.UUID{other.ID}}
		_, err := f.service().ConfirmAttachments(context.Background(), principal, domain.ItemTypeBug, f.itemID, req)
		assertErrCode(t, err, response.ErrCodeForbidden)
	})

	t.Run("missing ids surface as not found", func(t *testing.T) {
		f := newAttachmentFixture()
		principal := f.principal(domain.RoleWorker)
		only := f.tempAttachment(principal.UserID)
		f.attachmentRepo.FindByIDsFunc = func(ctx context.Context, ids []uuid.UUID) ([]*domain.Attachment, error) {
			return []*domain.Attachment{only}, nil
		}

		req := dto.ConfirmAttachmentsRequest{AttachmentIDs: []uuid.UUID{only.ID, uuid.New()}}
		_, err := f.service().ConfirmAttachments(context.Background(), principal, domain.ItemTypeBug, f.itemID, req)
		assertErrCode(t, err, response.ErrCodeNotFound)
	})

	t.Run("confirming twice is rejected", func(t *testing.T) {
		f := newAttachmentFixture()
		principal := f.principal(domain.RoleWorker)
		confirmed := f.tempAttachment(principal.UserID)
		confirmed.Status = domain.AttachmentStatusConfirmed
		f.attachmentRepo.FindByIDsFunc = func(ctx context.Context, ids []uuid.UUID) ([]*domain.Attachment, error) {
			return []*domain.Attachment{confirmed}, nil
		}

		req := dto.ConfirmAttachmentsRequest{AttachmentIDs: []uuid.UUID{confirmed.ID}}
		_, err := f.service().ConfirmAttachments(context.Background(), principal, domain.ItemTypeBug, f.itemID, req)
		assertErrCode(t, err, response.ErrCodeValidation)
	})

	t.Run("variant mismatch is rejected", func(t *testing.T) {
		f := newAttachmentFixture()
		principal := f.principal(domain.RoleWorker)
		wrongVariant := f.tempAttachment(principal.UserID)
		wrongVariant.ItemType = domain.ItemTypeFeature
		f.attachmentRepo.FindByIDsFunc = func(ctx context.Context, ids []uuid.UUID) ([]*domain.Attachment, error) {
			return []*domain.Attachment{wrongVariant}, nil
		}

		req := dto.ConfirmAttachmentsRequest{AttachmentIDs: []uuid.UUID{wrongVariant.ID}}
		_, err := f.service().ConfirmAttachments(context.Background(), principal, domain.ItemTypeBug, f.itemID, req)
		assertErrCode(t, err, response.ErrCodeValidation)
	})

	t.Run("non-members cannot confirm", func(t *testing.T) {
		f := newAttachmentFixture()
		outsider := access.Principal{UserID: uuid.New(), Tenant: "acme", Role: domain.RoleWorker}

		req := dto.ConfirmAttachmentsRequest{AttachmentIDs: []uuid.UUID{uuid.New()}}
		_, err := f.service().ConfirmAttachments(context.Background(), outsider, domain.ItemTypeBug, f.itemID, req)
		assertErrCode(t, err, response.ErrCodeForbidden)
	})
}

func TestAttachmentService_ListAttachments(t *testing.T) {
	f := newAttachmentFixture()
	principal := f.principal(domain.RoleWorker)
	bound := f.tempAttachment(uuid.New())
	bound.Status = domain.AttachmentStatusConfirmed
	f.attachmentRepo.FindByItemFunc = func(ctx context.Context, itemType domain.ItemType, itemID uuid.UUID) ([]*domain.Attachment, error) {
		if itemType != domain.ItemTypeBug || itemID != f.itemID {
			t.Errorf("queried %v/%v, want the bug", itemType, itemID)
		}
		return []*domain.Attachment{bound}, nil
	}

	got, err := f.service().ListAttachments(context.Background(), principal, domain.ItemTypeBug, f.itemID)
	if err != nil {
		t.Fatalf("ListAttachments() unexpected error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("attachments = %v, want 1", len(got))
	}
	if got[0].FileURL != "https://bucket.example.com/"+bound.FileKey {
		t.Errorf("FileURL = %v", got[0].FileURL)
	}
}

func TestAttachmentService_DeleteAttachment(t *testing.T) {
	t.Run("uploader removes object and record", func(t *testing.T) {
		f := newAttachmentFixture()
		principal := f.principal(domain.RoleWorker)
		attachment := f.tempAttachment(principal.UserID)
		f.attachmentRepo.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Attachment, error) {
			return attachment, nil
		}
		var deletedKey string
		f.s3.DeleteFileFunc = func(ctx context.Context, key string) error {
			deletedKey = key
			return nil
		}
		deletedRecord := false
		f.attachmentRepo.DeleteFunc = func(ctx context.Context, id uuid.UUID) error {
			deletedRecord = id == attachment.ID
			return nil
		}

		if err := f.service().DeleteAttachment(context.Background(), principal, attachment.ID); err != nil {
			t.Fatalf("DeleteAttachment() unexpected error = %v", err)
		}
		if deletedKey != attachment.FileKey {
			t.Errorf("deleted key = %v, want %v", deletedKey, attachment.FileKey)
		}
		if !deletedRecord {
			t.Error("record not deleted")
		}
	})

	t.Run("admin may remove another user's attachment", func(t *testing.T) {
		f := newAttachmentFixture()
		attachment := f.tempAttachment(uuid.New())
		f.attachmentRepo.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Attachment, error) {
			return attachment, nil
		}

		admin := access.Principal{UserID: uuid.New(), Tenant: "acme", Role: domain.RoleAdmin}
		if err := f.service().DeleteAttachment(context.Background(), admin, attachment.ID); err != nil {
			t.Fatalf("DeleteAttachment() unexpected error = %v", err)
		}
	})

	t.Run("other workers may not", func(t *testing.T) {
		f := newAttachmentFixture()
		attachment := f.tempAttachment(uuid.New())
		f.attachmentRepo.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Attachment, error) {
			return attachment, nil
		}

		worker := access.Principal{UserID: uuid.New(), Tenant: "acme", Role: domain.RoleWorker}
		err := f.service().DeleteAttachment(context.Background(), worker, attachment.ID)
		assertErrCode(t, err, response.ErrCodeForbidden)
	})

	t.Run("foreign tenants see nothing to delete", func(t *testing.T) {
		f := newAttachmentFixture()
		attachment := f.tempAttachment(uuid.New())
		f.attachmentRepo.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Attachment, error) {
			return attachment, nil
		}

		outsider := access.Principal{UserID: uuid.New(), Tenant: "globex", Role: domain.RoleAdmin}
		err := f.service().DeleteAttachment(context.Background(), outsider, attachment.ID)
		assertErrCode(t, err, response.ErrCodeNotFound)
	})

	t.Run("unknown attachment", func(t *testing.T) {
		f := newAttachmentFixture()
		f.attachmentRepo.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Attachment, error) {
			return nil, gorm.ErrRecordNotFound
		}

		err := f.service().DeleteAttachment(context.Background(), f.principal(domain.RoleWorker), uuid.New())
		assertErrCode(t, err, response.ErrCodeNotFound)
	})

	t.Run("bucket failure still removes the record", func(t *testing.T) {
		f := newAttachmentFixture()
		principal := f.principal(domain.RoleWorker)
		attachment := f.tempAttachment(principal.UserID)
		f.attachmentRepo.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Attachment, error) {
			return attachment, nil
		}
		f.s3.DeleteFileFunc = func(ctx context.Context, key string) error {
			return errors.New("bucket unreachable")
		}
		deletedRecord := false
		f.attachmentRepo.DeleteFunc = func(ctx context.Context, id uuid.UUID) error {
			deletedRecord = true
			return nil
		}

		if err := f.service().DeleteAttachment(context.Background(), principal, attachment.ID); err != nil {
			t.Fatalf("DeleteAttachment() unexpected error = %v", err)
		}
		if !deletedRecord {
			t.Error("record kept after bucket failure")
		}
	})
}

func TestAttachmentService_CleanupExpired(t *testing.T) {
	t.Run("sweeps expired temps from bucket and database", func(t *testing.T) {
		f := newAttachmentFixture()
		first := f.tempAttachment(uuid.New())
		second := f.tempAttachment(uuid.New())
		f.attachmentRepo.FindExpiredTempAttachmentsFunc = func(ctx context.Context) ([]*domain.Attachment, error) {
			return []*domain.Attachment{first, second}, nil
		}
		var batch []uuid.UUID
		f.attachmentRepo.DeleteBatchFunc = func(ctx context.Context, ids []uuid.UUID) error {
			batch = ids
			return nil
		}

		n, err := f.service().CleanupExpired(context.Background())
		if err != nil {
			t.Fatalf("CleanupExpired() unexpected error = %v", err)
		}
		if n != 2 || len(batch) != 2 {
			t.Errorf("swept %v with batch %v, want both", n, batch)
		}
	})

	t.Run("keeps records whose objects could not be removed", func(t *testing.T) {
		f := newAttachmentFixture()
		stuck := f.tempAttachment(uuid.New())
		stuck.FileKey = "vortex/bug/acme/stuck.txt"
		gone := f.tempAttachment(uuid.New())
		gone.FileKey = "vortex/bug/acme/gone.txt"
		f.attachmentRepo.FindExpiredTempAttachmentsFunc = func(ctx context.Context) ([]*domain.Attachment, error) {
			return []*domain.Attachment{stuck, gone}, nil
		}
		f.s3.DeleteFileFunc = func(ctx context.Context, key string) error {
			if key == stuck.FileKey {
				return errors.New("bucket unreachable")
			}
			return nil
		}
		var batch []uuid.UUID
		f.attachmentRepo.DeleteBatchFunc = func(ctx context.Context, ids []uuid.UUID) error {
			batch = ids
			return nil
		}

		n, err := f.service().CleanupExpired(context.Background())
		if err != nil {
			t.Fatalf("CleanupExpired() unexpected error = %v", err)
		}
		if n != 1 || len(batch) != 1 || batch[0] != gone.ID {
			t.Errorf("swept %v with batch %v, want only the removable one", n, batch)
		}
	})

	t.Run("nothing expired", func(t *testing.T) {
		f := newAttachmentFixture()
		batchCalled := false
		f.attachmentRepo.DeleteBatchFunc = func(ctx context.Context, ids []uuid.UUID) error {
			batchCalled = true
			return nil
		}

		n, err := f.service().CleanupExpired(context.Background())
		if err != nil {
			t.Fatalf("CleanupExpired() unexpected error = %v", err)
		}
		if n != 0 || batchCalled {
			t.Errorf("swept %v, want a no-op", n)
		}
	})
}
