package attachment

import (
	"bytes"
	"chat-attachments/internal/core/domain"
	"chat-attachments/internal/core/port"
	"chat-attachments/internal/core/service/checksum"
	"chat-attachments/internal/observability"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// uploadTarget is where and how one validated file is written
type uploadTarget struct {
	ownerID        string
	conversationID string
	messageID      string
	category       domain.Category
	bucket         string
	upsert         bool
}

// UploadAttachment validates and writes one file under the message path.
// A file rejected before any transfer yields a nil attachment; a failed
// transfer yields the attachment in its failed state alongside the error.
func (s *attachmentService) UploadAttachment(ctx context.Context, req port.UploadAttachmentRequest, onProgress port.ProgressFunc) (*domain.FileAttachment, error) {
	target := uploadTarget{
		ownerID:        req.OwnerID,
		conversationID: req.ConversationID,
		messageID:      req.MessageID,
		category:       domain.CategoryAttachment,
		bucket:         s.attachmentBucket,
	}
	return s.upload(ctx, target, req.Source, onProgress)
}

func (s *attachmentService) upload(ctx context.Context, target uploadTarget, source domain.FileSource, onProgress port.ProgressFunc) (*domain.FileAttachment, error) {
	if strings.TrimSpace(target.ownerID) == "" {
		return nil, domain.ErrUnauthenticated
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUploadCancelled, ctx.Err())
	}

	result := s.validator.Validate(source, target.category)
	if !result.IsValid {
		s.metrics.ObserveRejection(target.bucket)
		s.logger.Info("file rejected", "file", source.Name(), "category", target.category, "error", result.Err)
		return nil, result.Err
	}

	var key string
	if target.category == domain.CategoryAvatar {
		key = s.namer.AvatarPath(target.ownerID, source.Name())
	} else {
		key = s.namer.AttachmentPath(target.ownerID, target.conversationID, target.messageID, source.Name())
	}

	body, closeBody, err := openSource(source)
	if err != nil {
		return nil, err
	}
	defer closeBody()

	digest, _, err := checksum.DigestReader(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFileNotFound, err)
	}

	// the client-side name, never the local spool path
	metadata := domain.AttachmentMetadata{Digest: digest, OriginalPath: source.DisplayName}
	att := domain.NewInFlightAttachment(source.Name(), result.Size, result.MimeType, result.FileType, target.bucket, key, metadata)

	ctx, span := s.tracer.Start(ctx, "attachment.upload")
	defer span.End()
	span.SetAttributes(
		attribute.String("bucket", target.bucket),
		attribute.String("key", key),
		attribute.Int64("size", result.Size),
		attribute.String("mime_type", result.MimeType),
	)

	tracker := newProgressTracker(att, onProgress)
	tracker.start()

	attemptID := uuid.New()
	s.beginAttempt(ctx, attemptID, target, att)

	started := time.Now()
	stopHeartbeat := s.keepAttemptAlive(ctx, attemptID)
	err = s.putWithRetry(ctx, port.PutObjectInput{
		Bucket:      target.bucket,
		Key:         key,
		Body:        body,
		Size:        result.Size,
		ContentType: result.MimeType,
		Upsert:      target.upsert,
		OnBytes:     tracker.bytes,
	})
	stopHeartbeat()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.metrics.ObserveUpload(target.bucket, observability.OutcomeFailure, result.Size, time.Since(started))
		att.MarkFailed(domain.UserMessage(err))
		s.failAttempt(ctx, attemptID, domain.UserMessage(err))
		s.logger.Error("upload failed", "key", key, "error", err)
		return att, err
	}

	if target.category == domain.CategoryAvatar {
		publicURL := s.store.PublicURL(target.bucket, key)
		att.PublicURL = &publicURL
	}
	att.MarkUploaded(s.now())
	tracker.done()

	s.metrics.ObserveUpload(target.bucket, observability.OutcomeSuccess, result.Size, time.Since(started))
	s.completeAttempt(ctx, attemptID)
	if target.category == domain.CategoryAttachment {
		s.publishUploaded(ctx, target, att)
	}
	s.logger.Info("file uploaded", "key", key, "size", result.Size, "mime_type", result.MimeType)

	return att, nil
}

// putWithRetry writes the object, retrying transport failures up to retryAttempts times
func (s *attachmentService) putWithRetry(ctx context.Context, input port.PutObjectInput) error {
	seeker, _ := input.Body.(io.Seeker)

	var err error
	for attempt := 0; attempt <= s.retryAttempts; attempt++ {
		if attempt > 0 {
			if seeker == nil {
				break
			}
			select {
			case <-ctx.Done():
				return fmt.Errorf("%w: %v", domain.ErrUploadCancelled, ctx.Err())
			case <-time.After(s.retryBackoff):
			}
			s.logger.Warn("retrying upload", "key", input.Key, "attempt", attempt, "error", err)
		}
		if seeker != nil {
			if _, seekErr := seeker.Seek(0, io.SeekStart); seekErr != nil {
				return fmt.Errorf("%w: %v", domain.ErrFileNotFound, seekErr)
			}
		}

		err = s.store.PutObject(ctx, input)
		if err == nil {
			return nil
		}
		if errors.Is(err, domain.ErrObjectExists) {
			// the key is unique per call, so a retry finding it means an earlier attempt landed
			if attempt > 0 {
				return nil
			}
			return err
		}
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %v", domain.ErrUploadCancelled, ctx.Err())
		}
		if !errors.Is(err, domain.ErrTransportFailure) {
			err = fmt.Errorf("%w: %w", domain.ErrTransportFailure, err)
		}
	}
	return err
}

// openSource returns a seekable reader over the source content
func openSource(source domain.FileSource) (io.ReadSeeker, func(), error) {
	if source.LocalPath == "" {
		return bytes.NewReader(source.Bytes), func() {}, nil
	}
	f, err := os.Open(source.LocalPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrFileNotFound, err)
	}
	return f, func() { _ = f.Close() }, nil
}

func (s *attachmentService) beginAttempt(ctx context.Context, id uuid.UUID, target uploadTarget, att *domain.FileAttachment) {
	err := s.journal.Begin(ctx, domain.UploadAttempt{
		ID:          id,
		OwnerID:     target.ownerID,
		BucketID:    att.BucketID,
		StoragePath: att.StoragePath,
		FileName:    att.FileName,
		SizeBytes:   att.FileSize,
		MimeType:    att.MimeType,
		Checksum:    att.Metadata.Digest,
		Status:      domain.UploadStatusUploading,
	})
	if err != nil {
		s.logger.Warn("failed to journal upload attempt", "key", att.StoragePath, "error", err)
	}
}

// keepAttemptAlive touches the attempt every heartbeat interval until the returned stop is called
func (s *attachmentService) keepAttemptAlive(ctx context.Context, id uuid.UUID) func() {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(s.heartbeat)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.journal.Touch(ctx, id); err != nil && ctx.Err() == nil {
					s.logger.Warn("failed to refresh upload attempt", "attempt_id", id, "error", err)
				}
			}
		}
	}()
	return func() {
		cancel()
		<-done
	}
}

func (s *attachmentService) completeAttempt(ctx context.Context, id uuid.UUID) {
	if err := s.journal.Complete(context.WithoutCancel(ctx), id); err != nil {
		s.logger.Warn("failed to journal upload completion", "attempt_id", id, "error", err)
	}
}

func (s *attachmentService) failAttempt(ctx context.Context, id uuid.UUID, message string) {
	if err := s.journal.Fail(context.WithoutCancel(ctx), id, message); err != nil {
		s.logger.Warn("failed to journal upload failure", "attempt_id", id, "error", err)
	}
}
