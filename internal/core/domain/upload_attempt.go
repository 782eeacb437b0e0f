package domain

import (
	"time"

	"github.com/google/uuid"
)

// UploadStatus represents the status of an upload attempt
type UploadStatus string

const (
	UploadStatusUploading UploadStatus = "uploading"
	UploadStatusCompleted UploadStatus = "completed"
	UploadStatusFailed    UploadStatus = "failed"
)

// UploadAttempt is the journal record of one transfer
type UploadAttempt struct {
	ID           uuid.UUID
	OwnerID      string
	BucketID     string
	StoragePath  string
	FileName     string
	SizeBytes    int64
	MimeType     string
	Checksum     string
	Status       UploadStatus
	ErrorMessage *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
