package domain

import (
	"time"

	"github.com/google/uuid"
)

// MinIOEvent represents a MinIO bucket notification
type MinIOEvent struct {
	EventName string `json:"EventName"`
	Key       string `json:"Key"`
	Records   []struct {
		EventName string `json:"eventName"`
		S3        struct {
			Bucket struct {
				Name string `json:"name"`
			} `json:"bucket"`
			Object struct {
				Key         string `json:"key"`
				Size        int64  `json:"size"`
				ETag        string `json:"eTag"`
				ContentType string `json:"contentType"`
			} `json:"object"`
		} `json:"s3"`
		EventTime string `json:"eventTime"`
	} `json:"Records"`
}

// ObjectCreatedNotification is the part of a bucket notification the thumbnailer needs
type ObjectCreatedNotification struct {
	EventName   string
	BucketName  string
	ObjectKey   string
	ObjectSize  int64
	ContentType string
}

// AttachmentUploadedEvent announces a stored attachment to the message collaborator
type AttachmentUploadedEvent struct {
	AttachmentID   uuid.UUID      `json:"attachment_id"`
	OwnerID        string         `json:"owner_id"`
	ConversationID string         `json:"conversation_id,omitempty"`
	MessageID      string         `json:"message_id,omitempty"`
	Attachment     FileAttachment `json:"attachment"`
	OccurredAt     time.Time      `json:"occurred_at"`
}
