package storage

import (
	"chat-attachments/internal/core/domain"
	"chat-attachments/internal/core/port"
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func NewMockStorage() *MockStorage {
	return &MockStorage{}
}

func (m *MockStorage) EnsureBucket(ctx context.Context, bucket string, public bool) error {
	args := m.Called(ctx, bucket, public)
	return args.Error(0)
}

func (m *MockStorage) PutObject(ctx context.Context, input port.PutObjectInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

func (m *MockStorage) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, bucket, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockStorage) StatObject(ctx context.Context, bucket, key string) (domain.ObjectInfo, error) {
	args := m.Called(ctx, bucket, key)
	return args.Get(0).(domain.ObjectInfo), args.Error(1)
}

func (m *MockStorage) RemoveIncompleteUpload(ctx context.Context, bucket, key string) error {
	args := m.Called(ctx, bucket, key)
	return args.Error(0)
}

func (m *MockStorage) DeleteObjects(ctx context.Context, bucket string, keys []string) error {
	args := m.Called(ctx, bucket, keys)
	return args.Error(0)
}

func (m *MockStorage) ListObjects(ctx context.Context, bucket, prefix string) ([]domain.ObjectInfo, error) {
	args := m.Called(ctx, bucket, prefix)
	return args.Get(0).([]domain.ObjectInfo), args.Error(1)
}

func (m *MockStorage) CreateSignedURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, bucket, key, ttl)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) PublicURL(bucket, key string) string {
	args := m.Called(bucket, key)
	return args.String(0)
}
