package attachment_test

import (
	"chat-attachments/internal/core/domain"
	"chat-attachments/internal/core/port"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAttachmentService_UploadAvatar_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t, testUploadCfg)
	f.expectJournal()
	key := "avatars/U1/me_1718000000123.jpg"
	publicURL := "http://localhost:9000/avatars/" + key

	f.store.On("PutObject", mock.Anything, mock.MatchedBy(func(in port.PutObjectInput) bool {
		return in.Bucket == "avatars" && in.Key == key && in.Upsert && in.ContentType == "image/jpeg"
	})).Return(nil)
	f.store.On("PublicURL", "avatars", key).Return(publicURL)
	f.store.On("ListObjects", mock.Anything, "avatars", "avatars/U1/").Return([]domain.ObjectInfo{{Name: key, UpdatedAt: time.Now()}}, nil)

	// Act
	att, err := f.service.UploadAvatar(ctx, "U1", domain.FileSource{Bytes: []byte{0xFF, 0xD8, 0xFF, 0xE0}, DisplayName: "me.jpg"}, nil)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, att.PublicURL)
	assert.Equal(t, publicURL, *att.PublicURL)
	assert.Equal(t, domain.AccessKindPublic, att.Access(fixedNow).Kind)
	f.store.AssertExpectations(t)
	f.publisher.AssertNotCalled(t, "PublishUploaded", mock.Anything, mock.Anything)
	f.store.AssertNotCalled(t, "DeleteObjects", mock.Anything, mock.Anything, mock.Anything)
}

func TestAttachmentService_UploadAvatar_RemovesPreviousAvatars(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t, testUploadCfg)
	f.expectJournal()
	key := "avatars/U1/me_1718000000123.jpg"
	older := time.Now().Add(-48 * time.Hour)

	f.store.On("PutObject", mock.Anything, mock.Anything).Return(nil)
	f.store.On("PublicURL", "avatars", key).Return("http://localhost:9000/avatars/" + key)
	f.store.On("ListObjects", mock.Anything, "avatars", "avatars/U1/").Return([]domain.ObjectInfo{
		{Name: "avatars/U1/me_1717000000000.jpg", UpdatedAt: older},
		{Name: "avatars/U1/beach_1716000000000.png", UpdatedAt: older},
		{Name: key, UpdatedAt: time.Now()},
		{Name: "avatars/U1/late_1718000000999.jpg", UpdatedAt: time.Now().Add(time.Minute)},
	}, nil)
	f.store.On("DeleteObjects", mock.Anything, "avatars", []string{
		"avatars/U1/me_1717000000000.jpg",
		"avatars/U1/beach_1716000000000.png",
	}).Return(nil)

	// Act
	att, err := f.service.UploadAvatar(ctx, "U1", domain.FileSource{Bytes: []byte{0xFF, 0xD8, 0xFF, 0xE0}, DisplayName: "me.jpg"}, nil)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, key, att.StoragePath)
	f.store.AssertExpectations(t)
}

func TestAttachmentService_UploadAvatar_CleanupFailureKeepsUpload(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t, testUploadCfg)
	f.expectJournal()
	key := "avatars/U1/me_1718000000123.jpg"

	f.store.On("PutObject", mock.Anything, mock.Anything).Return(nil)
	f.store.On("PublicURL", "avatars", key).Return("http://localhost:9000/avatars/" + key)
	f.store.On("ListObjects", mock.Anything, "avatars", "avatars/U1/").Return([]domain.ObjectInfo(nil), errors.New("unreachable"))

	// Act
	att, err := f.service.UploadAvatar(ctx, "U1", domain.FileSource{Bytes: []byte{0xFF, 0xD8, 0xFF, 0xE0}, DisplayName: "me.jpg"}, nil)

	// Assert
	require.NoError(t, err)
	assert.True(t, att.IsUploaded)
	f.store.AssertNotCalled(t, "DeleteObjects", mock.Anything, mock.Anything, mock.Anything)
}

func TestAttachmentService_UploadAvatar_FailedUploadKeepsPrevious(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t, testUploadCfg)
	f.expectJournal()
	f.store.On("PutObject", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

	// Act
	_, err := f.service.UploadAvatar(ctx, "U1", domain.FileSource{Bytes: []byte{0xFF, 0xD8, 0xFF, 0xE0}, DisplayName: "me.jpg"}, nil)

	// Assert
	require.Error(t, err)
	f.store.AssertNotCalled(t, "ListObjects", mock.Anything, mock.Anything, mock.Anything)
	f.store.AssertNotCalled(t, "DeleteObjects", mock.Anything, mock.Anything, mock.Anything)
}

func TestAttachmentService_UploadAvatar_TooLarge(t *testing.T) {
	// Arrange
	f := newFixture(t, testUploadCfg)

	// Act
	att, err := f.service.UploadAvatar(context.Background(), "U1", domain.FileSource{Bytes: make([]byte, 6<<20), DisplayName: "me.jpg"}, nil)

	// Assert
	assert.Nil(t, att)
	assert.ErrorIs(t, err, domain.ErrFileSizeTooBig)
	assert.Equal(t, "File size exceeds the maximum limit", domain.UserMessage(err))
	f.store.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything)
}

func TestAttachmentService_UploadAvatar_RejectsPdf(t *testing.T) {
	f := newFixture(t, testUploadCfg)

	_, err := f.service.UploadAvatar(context.Background(), "U1", domain.FileSource{Bytes: []byte("%PDF-1.4"), DisplayName: "me.pdf"}, nil)

	assert.ErrorIs(t, err, domain.ErrInvalidFileType)
}
