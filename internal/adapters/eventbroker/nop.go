package eventbroker

import (
	"chat-attachments/internal/core/domain"
	"chat-attachments/internal/core/port"
	"context"
)

type nopPublisher struct{}

// NewNopPublisher returns a publisher that drops every event, used when no broker is configured
func NewNopPublisher() port.EventPublisher {
	return nopPublisher{}
}

func (nopPublisher) PublishUploaded(context.Context, domain.AttachmentUploadedEvent) error {
	return nil
}
