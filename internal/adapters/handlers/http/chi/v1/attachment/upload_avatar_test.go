package attachment_test

import (
	attachment2 "chat-attachments/internal/adapters/handlers/http/chi/v1/attachment"
	"chat-attachments/internal/core/domain"
	"encoding/json"
	"fmt"
	http2 "net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUploadAvatarV1_Success(t *testing.T) {
	//Arrange
	f := newFixture(t)
	body, contentType := multipartBody(t, part{field: "file", name: "me.png", body: "png bytes"})
	publicURL := "http://localhost:9000/avatars/avatars/U1/me_1718000000123.png"

	f.service.On("UploadAvatar", mock.Anything, "U1", mock.MatchedBy(func(src domain.FileSource) bool {
		return src.DisplayName == "me.png" && src.DeclaredSize == int64(len("png bytes"))
	}), mock.Anything).
		Return(&domain.FileAttachment{FileName: "me.png", PublicURL: &publicURL, IsUploaded: true}, nil)

	req := httptest.NewRequest(http2.MethodPost, "/api/v1/avatar", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(attachment2.OwnerHeader, "U1")
	w := httptest.NewRecorder()

	//Act
	f.router.ServeHTTP(w, req)

	//Assert
	assert.Equal(t, http2.StatusCreated, w.Code)
	f.service.AssertExpectations(t)
	var att domain.FileAttachment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &att))
	require.NotNil(t, att.PublicURL)
	assert.Equal(t, publicURL, *att.PublicURL)
	assert.Equal(t, 0, f.spooledCount(t))
}

func TestUploadAvatarV1_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"invalid type", domain.ErrInvalidFileType, http2.StatusUnsupportedMediaType, "File type is not supported"},
		{"too large", domain.ErrFileSizeTooBig, http2.StatusRequestEntityTooLarge, "File size exceeds the maximum limit"},
		{"empty", domain.ErrFileEmpty, http2.StatusBadRequest, "File is empty"},
		{"transport", fmt.Errorf("%w: connection reset", domain.ErrTransportFailure), http2.StatusBadGateway, "Upload failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			//Arrange
			f := newFixture(t)
			body, contentType := multipartBody(t, part{field: "file", name: "me.png", body: "png bytes"})
			f.service.On("UploadAvatar", mock.Anything, "U1", mock.Anything, mock.Anything).Return(nil, tt.err)

			req := httptest.NewRequest(http2.MethodPost, "/api/v1/avatar", body)
			req.Header.Set("Content-Type", contentType)
			req.Header.Set(attachment2.OwnerHeader, "U1")
			w := httptest.NewRecorder()

			//Act
			f.router.ServeHTTP(w, req)

			//Assert
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}

	t.Run("missing file part", func(t *testing.T) {
		//Arrange
		f := newFixture(t)
		body, contentType := multipartBody(t, part{field: "files", name: "me.png", body: "png bytes"})
		req := httptest.NewRequest(http2.MethodPost, "/api/v1/avatar", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set(attachment2.OwnerHeader, "U1")
		w := httptest.NewRecorder()

		//Act
		f.router.ServeHTTP(w, req)

		//Assert
		assert.Equal(t, http2.StatusBadRequest, w.Code)
		f.service.AssertNotCalled(t, "UploadAvatar", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
