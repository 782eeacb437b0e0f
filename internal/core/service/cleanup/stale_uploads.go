package cleanup

import (
	"chat-attachments/internal/core/domain"
	"context"
	"errors"
	"time"
)

const staleUploadMessage = "upload abandoned"

// CleanupStaleUploads settles journal attempts stuck in uploading since before
// cutoff. An attempt whose object is in the store did land and is completed,
// the object is never removed. An attempt without an object has its leftover
// multipart parts aborted and is marked failed.
func (c *cleanupService) CleanupStaleUploads(ctx context.Context, cutoff time.Time) error {
	attempts, err := c.journal.FindStale(ctx, cutoff)
	if err != nil {
		return err
	}
	if len(attempts) == 0 {
		return nil
	}

	var completed, failed int
	for _, attempt := range attempts {
		_, err := c.store.StatObject(ctx, attempt.BucketID, attempt.StoragePath)
		switch {
		case err == nil:
			if err := c.journal.Complete(ctx, attempt.ID); err != nil {
				c.logger.Error("failed to mark landed upload as completed", "attempt_id", attempt.ID, "error", err)
				continue
			}
			completed++
		case errors.Is(err, domain.ErrFileNotFound):
			if err := c.store.RemoveIncompleteUpload(ctx, attempt.BucketID, attempt.StoragePath); err != nil {
				c.logger.Warn("failed to abort incomplete upload", "key", attempt.StoragePath, "error", err)
			}
			if err := c.journal.Fail(ctx, attempt.ID, staleUploadMessage); err != nil {
				c.logger.Error("failed to mark stale upload as failed", "attempt_id", attempt.ID, "error", err)
				continue
			}
			failed++
		default:
			// unknown store state, retried on the next pass
			c.logger.Error("failed to stat object of stale upload", "key", attempt.StoragePath, "error", err)
		}
	}

	c.logger.Info("stale uploads cleanup completed", "count", len(attempts), "completed", completed, "failed", failed)
	return nil
}
