package port

import (
	"chat-attachments/internal/core/domain"
	"context"
	"time"
)

// SweepReport summarizes one temp directory sweep
type SweepReport struct {
	Scanned int `json:"scanned"`
	Removed int `json:"removed"`
	Failed  int `json:"failed"`
}

// CleanupService is service that handles cleanup
type CleanupService interface {
	Sweep(ctx context.Context, maxAge time.Duration) SweepReport
	CleanupStaleUploads(ctx context.Context, cutoff time.Time) error
}

// UsageService aggregates per-owner storage usage
type UsageService interface {
	Usage(ctx context.Context, ownerID string) domain.StorageUsage
}
