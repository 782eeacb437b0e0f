package attachment

import (
	"chat-attachments/internal/core/domain"
	"context"
)

func (s *attachmentService) publishUploaded(ctx context.Context, target uploadTarget, att *domain.FileAttachment) {
	event := domain.AttachmentUploadedEvent{
		AttachmentID:   att.ID,
		OwnerID:        target.ownerID,
		ConversationID: target.conversationID,
		MessageID:      target.messageID,
		Attachment:     *att,
		OccurredAt:     s.now(),
	}
	if err := s.publisher.PublishUploaded(context.WithoutCancel(ctx), event); err != nil {
		s.logger.Warn("failed to publish uploaded event", "attachment_id", att.ID, "error", err)
	}
}
