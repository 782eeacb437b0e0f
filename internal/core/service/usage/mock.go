package usage

import (
	"chat-attachments/internal/core/domain"
	"context"

	"github.com/stretchr/testify/mock"
)

// MockUsageService is a mock implementation of UsageService
type MockUsageService struct {
	mock.Mock
}

// NewMockUsageService creates a new MockUsageService
func NewMockUsageService() *MockUsageService {
	return &MockUsageService{}
}

func (m *MockUsageService) Usage(ctx context.Context, ownerID string) domain.StorageUsage {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(domain.StorageUsage)
}
