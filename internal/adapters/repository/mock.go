package repository

import (
	"chat-attachments/internal/core/domain"
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockUploadJournal struct {
	mock.Mock
}

func NewMockUploadJournal() *MockUploadJournal {
	return &MockUploadJournal{}
}

func (m *MockUploadJournal) Begin(ctx context.Context, attempt domain.UploadAttempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockUploadJournal) Touch(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUploadJournal) Complete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUploadJournal) Fail(ctx context.Context, id uuid.UUID, message string) error {
	args := m.Called(ctx, id, message)
	return args.Error(0)
}

func (m *MockUploadJournal) FindStale(ctx context.Context, cutoff time.Time) ([]domain.UploadAttempt, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]domain.UploadAttempt), args.Error(1)
}

func (m *MockUploadJournal) FindByID(ctx context.Context, id uuid.UUID) (*domain.UploadAttempt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadAttempt), args.Error(1)
}
