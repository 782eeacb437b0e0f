package domain

import "time"

// ObjectInfo describes a stored object as reported by the object store
type ObjectInfo struct {
	Name      string
	Size      int64
	MimeType  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StorageUsage is the per-owner usage summary
type StorageUsage struct {
	TotalSize       int64  `json:"total_size"`
	FormattedSize   string `json:"formatted_size"`
	AttachmentCount int    `json:"attachment_count"`
	AvatarCount     int    `json:"avatar_count"`
	TotalFiles      int    `json:"total_files"`
	Error           string `json:"error,omitempty"`
}
