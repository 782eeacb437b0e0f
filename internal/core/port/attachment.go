package port

import (
	"chat-attachments/internal/core/domain"
	"context"
)

// ProgressFunc receives the progress of one file, in [0,1]
type ProgressFunc func(progress float64)

// ItemProgressFunc receives the number of finished items of a batch
type ItemProgressFunc func(completed, total int)

// UploadAttachmentRequest targets one file at a message
type UploadAttachmentRequest struct {
	OwnerID        string
	ConversationID string
	MessageID      string
	Source         domain.FileSource
}

// UploadBatchRequest targets several files at a message
type UploadBatchRequest struct {
	OwnerID        string
	ConversationID string
	MessageID      string
	Files          []domain.FileSource
}

// AttachmentService is an interface to define the attachment pipeline
type AttachmentService interface {
	UploadAttachment(ctx context.Context, req UploadAttachmentRequest, onProgress ProgressFunc) (*domain.FileAttachment, error)
	UploadAvatar(ctx context.Context, ownerID string, source domain.FileSource, onProgress ProgressFunc) (*domain.FileAttachment, error)
	UploadMany(ctx context.Context, req UploadBatchRequest, onItemProgress ItemProgressFunc) domain.BatchUploadResult
	Pick(ctx context.Context, req UploadBatchRequest, onItemProgress ItemProgressFunc) domain.AttachmentResult
	ResolveURL(ctx context.Context, attachment domain.FileAttachment) domain.AccessURL
	ResolveThumbnail(ctx context.Context, attachment domain.FileAttachment) domain.AccessURL
}
