package domain

import (
	"time"

	"github.com/google/uuid"
)

// FileType represents the display category of an attachment
type FileType string

const (
	FileTypeImage    FileType = "image"
	FileTypeDocument FileType = "document"
	FileTypeArchive  FileType = "archive"
	FileTypeAudio    FileType = "audio"
	FileTypeVideo    FileType = "video"
	FileTypeOther    FileType = "other"
)

// Category selects the allow-list and size ceiling a file is validated against
type Category string

const (
	CategoryAttachment Category = "attachment"
	CategoryAvatar     Category = "avatar"
)

// AttachmentMetadata holds the well-known metadata fields plus free-form extras
type AttachmentMetadata struct {
	Digest       string            `json:"digest"`
	OriginalPath string            `json:"original_path,omitempty"`
	Extra        map[string]string `json:"extra,omitempty"`
}

// FileAttachment is the durable descriptor of a stored object
type FileAttachment struct {
	ID                 uuid.UUID          `json:"id"`
	FileName           string             `json:"file_name"`
	FileSize           int64              `json:"file_size"`
	MimeType           string             `json:"mime_type"`
	BucketID           string             `json:"bucket_id"`
	StoragePath        string             `json:"storage_path"`
	PublicURL          *string            `json:"public_url,omitempty"`
	SignedURL          *string            `json:"signed_url,omitempty"`
	SignedURLExpiresAt *time.Time         `json:"signed_url_expires_at,omitempty"`
	FileType           FileType           `json:"file_type"`
	ThumbnailURL       *string            `json:"thumbnail_url,omitempty"`
	UploadedAt         time.Time          `json:"uploaded_at"`
	Metadata           AttachmentMetadata `json:"metadata"`
	IsUploaded         bool               `json:"is_uploaded"`
	UploadProgress     float64            `json:"upload_progress"`
	ErrorMessage       *string            `json:"error_message,omitempty"`
}

// NewInFlightAttachment creates an attachment in its initial in-flight state
func NewInFlightAttachment(fileName string, size int64, mimeType string, fileType FileType, bucketID, storagePath string, metadata AttachmentMetadata) *FileAttachment {
	return &FileAttachment{
		ID:          uuid.New(),
		FileName:    fileName,
		FileSize:    size,
		MimeType:    mimeType,
		BucketID:    bucketID,
		StoragePath: storagePath,
		FileType:    fileType,
		Metadata:    metadata,
	}
}

// IsTerminal reports whether the attachment reached success or failure
func (a *FileAttachment) IsTerminal() bool {
	return a.IsUploaded || a.ErrorMessage != nil
}

// SetProgress records transfer progress. Values are clamped to [0,1] and never
// move backwards; terminal attachments are left untouched.
func (a *FileAttachment) SetProgress(progress float64) {
	if a.IsTerminal() {
		return
	}
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	if progress > a.UploadProgress {
		a.UploadProgress = progress
	}
}

// MarkUploaded transitions the attachment to success
func (a *FileAttachment) MarkUploaded(at time.Time) {
	if a.IsTerminal() {
		return
	}
	a.IsUploaded = true
	a.UploadProgress = 1
	a.UploadedAt = at
}

// MarkFailed transitions the attachment to terminal failure
func (a *FileAttachment) MarkFailed(message string) {
	if a.IsTerminal() {
		return
	}
	a.ErrorMessage = &message
}

// Access returns the URL to use for the attachment at now
func (a *FileAttachment) Access(now time.Time) AccessURL {
	if a.PublicURL != nil && *a.PublicURL != "" {
		return PublicAccess(*a.PublicURL)
	}
	if a.SignedURL != nil && *a.SignedURL != "" && a.SignedURLExpiresAt != nil && now.Before(*a.SignedURLExpiresAt) {
		return SignedAccess(*a.SignedURL, *a.SignedURLExpiresAt)
	}
	return UnresolvedAccess()
}
