package usage

import (
	"chat-attachments/internal/core/domain"
	"chat-attachments/internal/core/port"
	"chat-attachments/internal/core/service/naming"
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"golang.org/x/sync/errgroup"
)

type usageService struct {
	store            port.ObjectStore
	attachmentBucket string
	avatarBucket     string
	logger           *slog.Logger
}

// NewUsageService creates a new storage accountant
func NewUsageService(store port.ObjectStore, attachmentBucket, avatarBucket string, logger *slog.Logger) port.UsageService {
	return &usageService{
		store:            store,
		attachmentBucket: attachmentBucket,
		avatarBucket:     avatarBucket,
		logger:           logger,
	}
}

// Usage sums what ownerID stores in both buckets. Failures are reported in
// the Error field and never returned.
func (u *usageService) Usage(ctx context.Context, ownerID string) domain.StorageUsage {
	if strings.TrimSpace(ownerID) == "" {
		return domain.StorageUsage{FormattedSize: FormatSize(0), Error: domain.UserMessage(domain.ErrUnauthenticated)}
	}

	var attachments, avatars []domain.ObjectInfo
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		objects, err := u.store.ListObjects(gctx, u.attachmentBucket, naming.OwnerPrefix(u.attachmentBucket, ownerID))
		if err != nil {
			return fmt.Errorf("failed to list attachments: %w", err)
		}
		attachments = objects
		return nil
	})
	g.Go(func() error {
		objects, err := u.store.ListObjects(gctx, u.avatarBucket, naming.OwnerPrefix(u.avatarBucket, ownerID))
		if err != nil {
			return fmt.Errorf("failed to list avatars: %w", err)
		}
		avatars = objects
		return nil
	})

	if err := g.Wait(); err != nil {
		u.logger.Error("failed to compute storage usage", "owner_id", ownerID, "error", err)
		return domain.StorageUsage{FormattedSize: FormatSize(0), Error: err.Error()}
	}

	var total int64
	for _, o := range attachments {
		total += o.Size
	}
	for _, o := range avatars {
		total += o.Size
	}

	return domain.StorageUsage{
		TotalSize:       total,
		FormattedSize:   FormatSize(total),
		AttachmentCount: len(attachments),
		AvatarCount:     len(avatars),
		TotalFiles:      len(attachments) + len(avatars),
	}
}

// FormatSize renders bytes as B, KB, MB or GB with one decimal above 1024
func FormatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	value := float64(bytes) / unit
	suffixes := []string{"KB", "MB", "GB"}
	i := 0
	// compare the value as printed so 1023.96 KB becomes 1.0 MB, not 1024.0 KB
	for math.Round(value*10)/10 >= unit && i < len(suffixes)-1 {
		value /= unit
		i++
	}
	return fmt.Sprintf("%.1f %s", value, suffixes[i])
}
