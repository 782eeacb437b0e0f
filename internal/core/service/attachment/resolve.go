package attachment

import (
	"chat-attachments/internal/core/domain"
	"chat-attachments/internal/core/service/naming"
	"chat-attachments/internal/observability"
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

// ResolveURL returns the public URL when present, otherwise mints a fresh signed URL.
// Mint failures are logged and reported as an unresolved URL.
func (s *attachmentService) ResolveURL(ctx context.Context, att domain.FileAttachment) domain.AccessURL {
	if att.PublicURL != nil && *att.PublicURL != "" {
		return domain.PublicAccess(*att.PublicURL)
	}
	if !s.ownsKey(att.BucketID, att.StoragePath) {
		return s.rejectForeign(att)
	}
	return s.sign(ctx, att.BucketID, att.StoragePath)
}

// ResolveThumbnail returns a URL for the generated thumbnail of an image attachment
func (s *attachmentService) ResolveThumbnail(ctx context.Context, att domain.FileAttachment) domain.AccessURL {
	if att.ThumbnailURL != nil && *att.ThumbnailURL != "" {
		return domain.PublicAccess(*att.ThumbnailURL)
	}
	if att.FileType != domain.FileTypeImage {
		return domain.UnresolvedAccess()
	}
	if !s.ownsKey(att.BucketID, att.StoragePath) {
		return s.rejectForeign(att)
	}
	return s.sign(ctx, att.BucketID, naming.ThumbnailPath(att.StoragePath))
}

// ownsKey reports whether key is one this service writes: a managed bucket and a key under "{bucket}/"
func (s *attachmentService) ownsKey(bucket, key string) bool {
	if bucket != s.attachmentBucket && bucket != s.avatarBucket {
		return false
	}
	rest, ok := strings.CutPrefix(key, bucket+"/")
	return ok && rest != "" && !strings.Contains(key, "..")
}

func (s *attachmentService) rejectForeign(att domain.FileAttachment) domain.AccessURL {
	if att.BucketID != "" && att.StoragePath != "" {
		s.logger.Warn("refusing to sign unmanaged object", "bucket", att.BucketID, "key", att.StoragePath)
	}
	return domain.UnresolvedAccess()
}

func (s *attachmentService) sign(ctx context.Context, bucket, key string) domain.AccessURL {
	if bucket == "" || key == "" {
		return domain.UnresolvedAccess()
	}

	ctx, span := s.tracer.Start(ctx, "attachment.sign")
	defer span.End()
	span.SetAttributes(attribute.String("bucket", bucket), attribute.String("key", key))

	issuedAt := s.now()
	url, err := s.store.CreateSignedURL(ctx, bucket, key, s.signedURLTTL)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveSignedURL(observability.OutcomeFailure)
		s.logger.Error("failed to create signed url", "bucket", bucket, "key", key, "error", err)
		return domain.UnresolvedAccess()
	}

	s.metrics.ObserveSignedURL(observability.OutcomeSuccess)
	return domain.SignedAccess(url, issuedAt.Add(s.signedURLTTL))
}
