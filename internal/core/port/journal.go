package port

import (
	"chat-attachments/internal/core/domain"
	"context"
	"time"

	"github.com/google/uuid"
)

// UploadJournal is an interface to record upload attempts
type UploadJournal interface {
	Begin(ctx context.Context, attempt domain.UploadAttempt) error
	Touch(ctx context.Context, id uuid.UUID) error
	Complete(ctx context.Context, id uuid.UUID) error
	Fail(ctx context.Context, id uuid.UUID, message string) error
	FindStale(ctx context.Context, cutoff time.Time) ([]domain.UploadAttempt, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.UploadAttempt, error)
}
