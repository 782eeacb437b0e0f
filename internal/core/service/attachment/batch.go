package attachment

import (
	"chat-attachments/internal/core/domain"
	"chat-attachments/internal/core/port"
	"context"
	"strings"
)

// UploadMany uploads the files one after another and aggregates the outcome.
// A failing item never stops the batch.
func (s *attachmentService) UploadMany(ctx context.Context, req port.UploadBatchRequest, onItemProgress port.ItemProgressFunc) domain.BatchUploadResult {
	total := len(req.Files)
	result := domain.BatchUploadResult{
		TotalCount: total,
		Succeeded:  make([]domain.FileAttachment, 0, total),
		Failures:   make([]domain.BatchFailure, 0),
	}

	for i, source := range req.Files {
		att, err := s.uploadItem(ctx, req, source)
		if err != nil {
			result.FailureCount++
			result.Failures = append(result.Failures, domain.BatchFailure{
				FileName: source.Name(),
				Reason:   domain.UserMessage(err),
			})
		} else {
			result.SuccessCount++
			result.Succeeded = append(result.Succeeded, *att)
		}

		if onItemProgress != nil {
			onItemProgress(i+1, total)
		}
	}

	if result.FailureCount > 0 {
		s.logger.Warn("batch finished with failures",
			"total", result.TotalCount,
			"failed", result.FailureCount,
			"error", result.Err())
	}

	return result
}

func (s *attachmentService) uploadItem(ctx context.Context, req port.UploadBatchRequest, source domain.FileSource) (*domain.FileAttachment, error) {
	if ctx.Err() != nil {
		return nil, domain.ErrUploadCancelled
	}
	return s.UploadAttachment(ctx, port.UploadAttachmentRequest{
		OwnerID:        req.OwnerID,
		ConversationID: req.ConversationID,
		MessageID:      req.MessageID,
		Source:         source,
	}, nil)
}

// Pick runs a batch on behalf of the file picker and folds it into one result
func (s *attachmentService) Pick(ctx context.Context, req port.UploadBatchRequest, onItemProgress port.ItemProgressFunc) domain.AttachmentResult {
	if len(req.Files) == 0 {
		s.metrics.ObserveBatch(string(domain.AttachmentResultCancelled))
		return domain.CancelledResult()
	}
	if strings.TrimSpace(req.OwnerID) == "" {
		s.metrics.ObserveBatch(string(domain.AttachmentResultFailure))
		return domain.FailureResult(domain.UserMessage(domain.ErrUnauthenticated))
	}

	result := domain.ResultFromBatch(s.UploadMany(ctx, req, onItemProgress))
	s.metrics.ObserveBatch(string(result.Status))
	return result
}
