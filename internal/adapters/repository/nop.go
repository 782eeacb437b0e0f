package repository

import (
	"chat-attachments/internal/core/domain"
	"chat-attachments/internal/core/port"
	"context"
	"time"

	"github.com/google/uuid"
)

type nopJournal struct{}

// NewNopJournal returns a journal that records nothing, used when no database is configured
func NewNopJournal() port.UploadJournal {
	return nopJournal{}
}

func (nopJournal) Begin(context.Context, domain.UploadAttempt) error { return nil }

func (nopJournal) Touch(context.Context, uuid.UUID) error { return nil }

func (nopJournal) Complete(context.Context, uuid.UUID) error { return nil }

func (nopJournal) Fail(context.Context, uuid.UUID, string) error { return nil }

func (nopJournal) FindStale(context.Context, time.Time) ([]domain.UploadAttempt, error) {
	return nil, nil
}

func (nopJournal) FindByID(context.Context, uuid.UUID) (*domain.UploadAttempt, error) {
	return nil, domain.ErrAttemptNotFound
}
