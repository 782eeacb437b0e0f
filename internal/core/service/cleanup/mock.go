package cleanup

import (
	"chat-attachments/internal/core/port"
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockCleanupService is a mock implementation of CleanupService
type MockCleanupService struct {
	mock.Mock
}

// NewMockCleanupService creates a new MockCleanupService
func NewMockCleanupService() *MockCleanupService {
	return &MockCleanupService{}
}

func (m *MockCleanupService) Sweep(ctx context.Context, maxAge time.Duration) port.SweepReport {
	args := m.Called(ctx, maxAge)
	return args.Get(0).(port.SweepReport)
}

func (m *MockCleanupService) CleanupStaleUploads(ctx context.Context, cutoff time.Time) error {
	args := m.Called(ctx, cutoff)
	return args.Error(0)
}
