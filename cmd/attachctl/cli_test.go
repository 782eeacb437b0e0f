package main

import (
	"bytes"
	"chat-attachments/internal/core/domain"
	"chat-attachments/internal/core/port"
	"chat-attachments/internal/core/service/attachment"
	"chat-attachments/internal/core/service/cleanup"
	"chat-attachments/internal/core/service/usage"
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type cliFixture struct {
	attachments *attachment.MockAttachmentService
	usage       *usage.MockUsageService
	cleanup     *cleanup.MockCleanupService
	out         *bytes.Buffer
	errOut      *bytes.Buffer
	cli         *cli
}

func newCLIFixture() *cliFixture {
	f := &cliFixture{
		attachments: attachment.NewMockAttachmentService(),
		usage:       usage.NewMockUsageService(),
		cleanup:     cleanup.NewMockCleanupService(),
		out:         &bytes.Buffer{},
		errOut:      &bytes.Buffer{},
	}
	f.cli = &cli{attachments: f.attachments, usage: f.usage, cleanup: f.cleanup, out: f.out, errOut: f.errOut}
	return f
}

func TestCLI_Upload(t *testing.T) {
	//Arrange
	f := newCLIFixture()
	f.attachments.On("Pick", mock.Anything, port.UploadBatchRequest{
		OwnerID:        "U1",
		ConversationID: "C1",
		MessageID:      "M1",
		Files:          []domain.FileSource{{LocalPath: "/tmp/a.pdf"}, {LocalPath: "/tmp/b.png"}},
	}, mock.Anything).Return(domain.SuccessResult([]domain.FileAttachment{{FileName: "a.pdf"}, {FileName: "b.png"}}, nil))

	//Act
	err := f.cli.run(context.Background(), []string{"upload", "-owner", "U1", "-conversation", "C1", "-message", "M1", "/tmp/a.pdf", "/tmp/b.png"})

	//Assert
	require.NoError(t, err)
	f.attachments.AssertExpectations(t)
	var result domain.AttachmentResult
	require.NoError(t, json.Unmarshal(f.out.Bytes(), &result))
	assert.Equal(t, domain.AttachmentResultSuccess, result.Status)
	assert.Len(t, result.Attachments, 2)
}

func TestCLI_Upload_AllFailed(t *testing.T) {
	//Arrange
	f := newCLIFixture()
	f.attachments.On("Pick", mock.Anything, mock.Anything, mock.Anything).
		Return(domain.FailureResult("All uploads failed: a.exe: File type is not supported"))

	//Act
	err := f.cli.run(context.Background(), []string{"upload", "-owner", "U1", "-conversation", "C1", "-message", "M1", "a.exe"})

	//Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "File type is not supported")
	assert.Contains(t, f.out.String(), `"status": "failure"`)
}

func TestCLI_Avatar(t *testing.T) {

	t.Run("nominal", func(t *testing.T) {
		//Arrange
		f := newCLIFixture()
		f.attachments.On("UploadAvatar", mock.Anything, "U1", domain.FileSource{LocalPath: "me.png"}, mock.Anything).
			Return(&domain.FileAttachment{FileName: "me.png", IsUploaded: true}, nil)

		//Act
		err := f.cli.run(context.Background(), []string{"avatar", "-owner", "U1", "me.png"})

		//Assert
		require.NoError(t, err)
		assert.Contains(t, f.out.String(), `"file_name": "me.png"`)
	})

	t.Run("rejected", func(t *testing.T) {
		//Arrange
		f := newCLIFixture()
		f.attachments.On("UploadAvatar", mock.Anything, "U1", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("%w: 6291456 bytes", domain.ErrFileSizeTooBig))

		//Act
		err := f.cli.run(context.Background(), []string{"avatar", "-owner", "U1", "big.jpg"})

		//Assert
		require.Error(t, err)
		assert.Equal(t, "File size exceeds the maximum limit", err.Error())
	})

	t.Run("needs one file", func(t *testing.T) {
		//Arrange
		f := newCLIFixture()

		//Act
		err := f.cli.run(context.Background(), []string{"avatar", "-owner", "U1", "a.png", "b.png"})

		//Assert
		assert.ErrorIs(t, err, errUsage)
		f.attachments.AssertNotCalled(t, "UploadAvatar", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCLI_Resolve(t *testing.T) {
	//Arrange
	f := newCLIFixture()
	f.attachments.On("ResolveURL", mock.Anything, domain.FileAttachment{BucketID: "chat-attachments", StoragePath: "chat-attachments/U1/C1/M1/a_1.pdf"}).
		Return(domain.SignedAccess("http://signed", time.Now().Add(time.Hour)))

	//Act
	err := f.cli.run(context.Background(), []string{"resolve", "-bucket", "chat-attachments", "-key", "chat-attachments/U1/C1/M1/a_1.pdf"})

	//Assert
	require.NoError(t, err)
	assert.Contains(t, f.out.String(), "http://signed")
}

func TestCLI_Usage(t *testing.T) {
	//Arrange
	f := newCLIFixture()
	f.usage.On("Usage", mock.Anything, "U1").Return(domain.StorageUsage{TotalSize: 1536, FormattedSize: "1.5 KB", TotalFiles: 1, AttachmentCount: 1})

	//Act
	err := f.cli.run(context.Background(), []string{"usage", "-owner", "U1"})

	//Assert
	require.NoError(t, err)
	var got domain.StorageUsage
	require.NoError(t, json.Unmarshal(f.out.Bytes(), &got))
	assert.Equal(t, "1.5 KB", got.FormattedSize)
}

func TestCLI_Sweep(t *testing.T) {
	//Arrange
	f := newCLIFixture()
	f.cleanup.On("Sweep", mock.Anything, 2*time.Hour).Return(port.SweepReport{Scanned: 3, Removed: 2})

	//Act
	err := f.cli.run(context.Background(), []string{"sweep", "-max-age", "2h"})

	//Assert
	require.NoError(t, err)
	f.cleanup.AssertExpectations(t)
	assert.Contains(t, f.out.String(), `"removed": 2`)
}

func TestCLI_InvalidUsage(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no command", nil},
		{"unknown command", []string{"delete"}},
		{"upload without message", []string{"upload", "-owner", "U1", "-conversation", "C1", "a.pdf"}},
		{"resolve without key", []string{"resolve", "-bucket", "avatars"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			//Arrange
			f := newCLIFixture()

			//Act
			err := f.cli.run(context.Background(), tt.args)

			//Assert
			assert.ErrorIs(t, err, errUsage)
		})
	}
}
