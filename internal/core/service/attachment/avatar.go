package attachment

import (
	"chat-attachments/internal/core/domain"
	"chat-attachments/internal/core/port"
	"chat-attachments/internal/core/service/naming"
	"context"
	"time"
)

// UploadAvatar replaces the owner's avatar and returns it with a durable public URL.
// Avatars stored before this upload began are removed once it succeeds.
func (s *attachmentService) UploadAvatar(ctx context.Context, ownerID string, source domain.FileSource, onProgress port.ProgressFunc) (*domain.FileAttachment, error) {
	target := uploadTarget{
		ownerID:  ownerID,
		category: domain.CategoryAvatar,
		bucket:   s.avatarBucket,
		upsert:   true,
	}
	started := time.Now()
	att, err := s.upload(ctx, target, source, onProgress)
	if err != nil {
		return att, err
	}
	s.removePreviousAvatars(context.WithoutCancel(ctx), ownerID, att.StoragePath, started)
	return att, nil
}

// removePreviousAvatars deletes the owner's avatars last modified before since, keeping current.
// A concurrent upload that started earlier is left for the next replacement.
func (s *attachmentService) removePreviousAvatars(ctx context.Context, ownerID, current string, since time.Time) {
	objects, err := s.store.ListObjects(ctx, s.avatarBucket, naming.OwnerPrefix(s.avatarBucket, ownerID))
	if err != nil {
		s.logger.Warn("failed to list previous avatars", "owner_id", ownerID, "error", err)
		return
	}

	var stale []string
	for _, obj := range objects {
		if obj.Name == current || !obj.UpdatedAt.Before(since) {
			continue
		}
		stale = append(stale, obj.Name)
	}
	if len(stale) == 0 {
		return
	}

	if err := s.store.DeleteObjects(ctx, s.avatarBucket, stale); err != nil {
		s.logger.Warn("failed to remove previous avatars", "owner_id", ownerID, "error", err)
		return
	}
	s.logger.Info("previous avatars removed", "owner_id", ownerID, "count", len(stale))
}
