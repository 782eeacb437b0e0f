package thumbnail_test

import (
	"bytes"
	"chat-attachments/internal/adapters/storage"
	"chat-attachments/internal/core/port"
	"chat-attachments/internal/core/service/thumbnail"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func event(eventName, bucket, key, contentType string) []byte {
	return []byte(fmt.Sprintf(`{
		"EventName": %q,
		"Key": %q,
		"Records": [{
			"eventName": %q,
			"s3": {
				"bucket": {"name": %q},
				"object": {"key": %q, "size": 1024, "contentType": %q}
			}
		}]
	}`, eventName, bucket+"/"+key, eventName, bucket, key, contentType))
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestThumbnailService_HandleMessage_WritesThumbnail(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockStorage := storage.NewMockStorage()
	service := thumbnail.NewThumbnailService(mockStorage, "chat-attachments", 0, discardLogger)
	key := "chat-attachments/U1/C1/M1/cat_1718000000123.png"

	mockStorage.On("GetObject", ctx, "chat-attachments", key).Return(io.NopCloser(bytes.NewReader(pngBytes(t, 640, 480))), nil)

	var stored image.Image
	mockStorage.On("PutObject", ctx, mock.MatchedBy(func(in port.PutObjectInput) bool {
		return in.Bucket == "chat-attachments" &&
			in.Key == "thumbnails/chat-attachments/U1/C1/M1/cat_1718000000123.jpg" &&
			in.ContentType == "image/jpeg" &&
			in.Upsert
	})).Run(func(args mock.Arguments) {
		in := args.Get(1).(port.PutObjectInput)
		img, err := jpeg.Decode(in.Body)
		require.NoError(t, err)
		stored = img
	}).Return(nil)

	// Act
	err := service.HandleMessage(ctx, event("s3:ObjectCreated:Put", "chat-attachments", "chat-attachments%2FU1%2FC1%2FM1%2Fcat_1718000000123.png", "image/png"))

	// Assert
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 320, stored.Bounds().Dx())
	assert.Equal(t, 240, stored.Bounds().Dy())
	mockStorage.AssertExpectations(t)
}

func TestThumbnailService_HandleMessage_SkipsThumbnailsAndDocuments(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockStorage := storage.NewMockStorage()
	service := thumbnail.NewThumbnailService(mockStorage, "chat-attachments", 0, discardLogger)

	// Act
	errThumb := service.HandleMessage(ctx, event("s3:ObjectCreated:Put", "chat-attachments", "thumbnails/chat-attachments/U1/C1/M1/cat_1.jpg", "image/jpeg"))
	errDoc := service.HandleMessage(ctx, event("s3:ObjectCreated:Put", "chat-attachments", "chat-attachments/U1/C1/M1/a_1.pdf", "application/pdf"))
	errAvatar := service.HandleMessage(ctx, event("s3:ObjectCreated:Put", "avatars", "avatars/U1/me_1.jpg", "image/jpeg"))
	errRemoved := service.HandleMessage(ctx, event("s3:ObjectRemoved:Delete", "chat-attachments", "chat-attachments/U1/C1/M1/cat_1.png", "image/png"))

	// Assert
	assert.NoError(t, errThumb)
	assert.NoError(t, errDoc)
	assert.NoError(t, errAvatar)
	assert.NoError(t, errRemoved)
	mockStorage.AssertNotCalled(t, "GetObject", mock.Anything, mock.Anything, mock.Anything)
}

func TestThumbnailService_HandleMessage_ContentTypeFromKey(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockStorage := storage.NewMockStorage()
	service := thumbnail.NewThumbnailService(mockStorage, "chat-attachments", 0, discardLogger)
	key := "chat-attachments/U1/C1/M1/small_1.png"

	mockStorage.On("GetObject", ctx, "chat-attachments", key).Return(io.NopCloser(bytes.NewReader(pngBytes(t, 100, 50))), nil)
	mockStorage.On("PutObject", ctx, mock.Anything).Return(nil)

	// Act
	err := service.HandleMessage(ctx, event("s3:ObjectCreated:CompleteMultipartUpload", "chat-attachments", key, ""))

	// Assert
	require.NoError(t, err)
	mockStorage.AssertNumberOfCalls(t, "PutObject", 1)
}

func TestThumbnailService_HandleMessage_CorruptImageIsDropped(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockStorage := storage.NewMockStorage()
	service := thumbnail.NewThumbnailService(mockStorage, "chat-attachments", 0, discardLogger)
	key := "chat-attachments/U1/C1/M1/broken_1.png"

	mockStorage.On("GetObject", ctx, "chat-attachments", key).Return(io.NopCloser(bytes.NewReader([]byte("not a png"))), nil)

	// Act
	err := service.HandleMessage(ctx, event("s3:ObjectCreated:Put", "chat-attachments", key, "image/png"))

	// Assert
	assert.NoError(t, err)
	mockStorage.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything)
}

func TestThumbnailService_HandleMessage_DownloadErrorIsRetried(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockStorage := storage.NewMockStorage()
	service := thumbnail.NewThumbnailService(mockStorage, "chat-attachments", 0, discardLogger)
	key := "chat-attachments/U1/C1/M1/cat_1.png"

	mockStorage.On("GetObject", ctx, "chat-attachments", key).Return(nil, errors.New("unreachable"))

	// Act
	err := service.HandleMessage(ctx, event("s3:ObjectCreated:Put", "chat-attachments", key, "image/png"))

	// Assert
	assert.ErrorContains(t, err, "unreachable")
}

func TestThumbnailService_HandleMessage_InvalidPayload(t *testing.T) {
	service := thumbnail.NewThumbnailService(storage.NewMockStorage(), "chat-attachments", 0, discardLogger)

	assert.Error(t, service.HandleMessage(context.Background(), []byte("{")))
	assert.Error(t, service.HandleMessage(context.Background(), []byte(`{"Records": []}`)))
}
