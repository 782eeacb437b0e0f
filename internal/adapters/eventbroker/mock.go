package eventbroker

import (
	"chat-attachments/internal/core/domain"
	"context"

	"github.com/stretchr/testify/mock"
)

type MockPublisher struct {
	mock.Mock
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) PublishUploaded(ctx context.Context, event domain.AttachmentUploadedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
