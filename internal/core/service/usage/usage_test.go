package usage_test

import (
	"chat-attachments/internal/adapters/storage"
	"chat-attachments/internal/core/domain"
	"chat-attachments/internal/core/service/usage"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestUsageService_Usage_SumsBothBuckets(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockStorage := storage.NewMockStorage()
	service := usage.NewUsageService(mockStorage, "chat-attachments", "avatars", discardLogger)

	mockStorage.On("ListObjects", mock.Anything, "chat-attachments", "chat-attachments/U1/").Return([]domain.ObjectInfo{
		{Name: "chat-attachments/U1/C1/M1/a_1.pdf", Size: 1 << 20},
		{Name: "chat-attachments/U1/C1/M2/b_1.png", Size: 512 << 10},
	}, nil)
	mockStorage.On("ListObjects", mock.Anything, "avatars", "avatars/U1/").Return([]domain.ObjectInfo{
		{Name: "avatars/U1/me_1.jpg", Size: 512 << 10},
	}, nil)

	// Act
	result := service.Usage(ctx, "U1")

	// Assert
	assert.Equal(t, int64(2<<20), result.TotalSize)
	assert.Equal(t, "2.0 MB", result.FormattedSize)
	assert.Equal(t, 2, result.AttachmentCount)
	assert.Equal(t, 1, result.AvatarCount)
	assert.Equal(t, 3, result.TotalFiles)
	assert.Empty(t, result.Error)
	mockStorage.AssertExpectations(t)
}

func TestUsageService_Usage_ListErrorIsReported(t *testing.T) {
	// Arrange
	mockStorage := storage.NewMockStorage()
	service := usage.NewUsageService(mockStorage, "chat-attachments", "avatars", discardLogger)

	mockStorage.On("ListObjects", mock.Anything, "chat-attachments", "chat-attachments/U1/").Return([]domain.ObjectInfo(nil), errors.New("access denied"))
	mockStorage.On("ListObjects", mock.Anything, "avatars", "avatars/U1/").Return([]domain.ObjectInfo{}, nil)

	// Act
	result := service.Usage(context.Background(), "U1")

	// Assert
	assert.Contains(t, result.Error, "access denied")
	assert.Zero(t, result.TotalFiles)
}

func TestUsageService_Usage_NoOwner(t *testing.T) {
	mockStorage := storage.NewMockStorage()
	service := usage.NewUsageService(mockStorage, "chat-attachments", "avatars", discardLogger)

	result := service.Usage(context.Background(), "")

	assert.Equal(t, "User not authenticated", result.Error)
	mockStorage.AssertNotCalled(t, "ListObjects", mock.Anything, mock.Anything, mock.Anything)
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048514, "1023.9 KB"},
		{1048575, "1.0 MB"},
		{1<<30 - 1, "1.0 GB"},
		{5 << 20, "5.0 MB"},
		{50 << 20, "50.0 MB"},
		{3 << 30, "3.0 GB"},
		{2048 << 30, "2048.0 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, usage.FormatSize(tt.bytes))
		})
	}
}
