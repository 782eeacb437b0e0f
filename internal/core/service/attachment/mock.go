package attachment

import (
	"chat-attachments/internal/core/domain"
	"chat-attachments/internal/core/port"
	"context"

	"github.com/stretchr/testify/mock"
)

// MockAttachmentService is a mock implementation of AttachmentService
type MockAttachmentService struct {
	mock.Mock
}

// NewMockAttachmentService creates a new MockAttachmentService
func NewMockAttachmentService() *MockAttachmentService {
	return &MockAttachmentService{}
}

func (m *MockAttachmentService) UploadAttachment(ctx context.Context, req port.UploadAttachmentRequest, onProgress port.ProgressFunc) (*domain.FileAttachment, error) {
	args := m.Called(ctx, req, onProgress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FileAttachment), args.Error(1)
}

func (m *MockAttachmentService) UploadAvatar(ctx context.Context, ownerID string, source domain.FileSource, onProgress port.ProgressFunc) (*domain.FileAttachment, error) {
	args := m.Called(ctx, ownerID, source, onProgress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FileAttachment), args.Error(1)
}

func (m *MockAttachmentService) UploadMany(ctx context.Context, req port.UploadBatchRequest, onItemProgress port.ItemProgressFunc) domain.BatchUploadResult {
	args := m.Called(ctx, req, onItemProgress)
	return args.Get(0).(domain.BatchUploadResult)
}

func (m *MockAttachmentService) Pick(ctx context.Context, req port.UploadBatchRequest, onItemProgress port.ItemProgressFunc) domain.AttachmentResult {
	args := m.Called(ctx, req, onItemProgress)
	return args.Get(0).(domain.AttachmentResult)
}

func (m *MockAttachmentService) ResolveURL(ctx context.Context, attachment domain.FileAttachment) domain.AccessURL {
	args := m.Called(ctx, attachment)
	return args.Get(0).(domain.AccessURL)
}

func (m *MockAttachmentService) ResolveThumbnail(ctx context.Context, attachment domain.FileAttachment) domain.AccessURL {
	args := m.Called(ctx, attachment)
	return args.Get(0).(domain.AccessURL)
}
