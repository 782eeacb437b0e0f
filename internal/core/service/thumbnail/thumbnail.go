package thumbnail

import (
	"chat-attachments/internal/core/port"
	"log/slog"
)

// DefaultWidth is the width of generated thumbnails
const DefaultWidth = 320

type thumbnailService struct {
	store            port.ObjectStore
	attachmentBucket string
	width            int
	logger           *slog.Logger
}

// NewThumbnailService creates the bucket notification handler writing thumbnails of image attachments
func NewThumbnailService(store port.ObjectStore, attachmentBucket string, width int, logger *slog.Logger) port.MessageService {
	if width <= 0 {
		width = DefaultWidth
	}
	return &thumbnailService{
		store:            store,
		attachmentBucket: attachmentBucket,
		width:            width,
		logger:           logger,
	}
}
