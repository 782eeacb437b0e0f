package postgres

import (
	"chat-attachments/internal/core/domain"
	"chat-attachments/internal/core/port"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// SQLQuerier is satisfied by *sql.DB and *sql.Tx
type SQLQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type sqlUploadJournal struct {
	db SQLQuerier
}

// NewSQLUploadJournal creates a new sqlUploadJournal
func NewSQLUploadJournal(db SQLQuerier) port.UploadJournal {
	return &sqlUploadJournal{db: db}
}

// Begin records an attempt in uploading state
func (s *sqlUploadJournal) Begin(ctx context.Context, attempt domain.UploadAttempt) error {
	query := `
		INSERT INTO upload_attempts (
			id, owner_id, bucket_id, storage_path, file_name, size_bytes, mime_type, checksum, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := s.db.ExecContext(
		ctx,
		query,
		attempt.ID,
		attempt.OwnerID,
		attempt.BucketID,
		attempt.StoragePath,
		attempt.FileName,
		attempt.SizeBytes,
		attempt.MimeType,
		attempt.Checksum,
		domain.UploadStatusUploading,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("%s/%s: %w", attempt.BucketID, attempt.StoragePath, domain.ErrAttemptExists)
		}
		return err
	}
	return nil
}

// Complete marks an attempt completed. A failed attempt whose object did land is completed too.
func (s *sqlUploadJournal) Complete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE upload_attempts SET status = $1, error_message = NULL, updated_at = now() WHERE id = $2 AND status IN ('uploading', 'failed')`
	return s.finish(ctx, query, domain.UploadStatusCompleted, id)
}

// Fail marks an in-flight attempt failed with message
func (s *sqlUploadJournal) Fail(ctx context.Context, id uuid.UUID, message string) error {
	query := `UPDATE upload_attempts SET status = $1, error_message = $3, updated_at = now() WHERE id = $2 AND status = 'uploading'`
	return s.finish(ctx, query, domain.UploadStatusFailed, id, message)
}

// Touch refreshes updated_at of an in-flight attempt so the reaper leaves it alone
func (s *sqlUploadJournal) Touch(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE upload_attempts SET updated_at = now() WHERE id = $1 AND status = 'uploading'`
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return domain.ErrAttemptNotFound
	}

	return nil
}

func (s *sqlUploadJournal) finish(ctx context.Context, query string, status domain.UploadStatus, id uuid.UUID, extra ...any) error {
	args := append([]any{status, id}, extra...)
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return domain.ErrAttemptNotFound
	}

	return nil
}

// FindStale returns attempts still uploading whose last update is before cutoff
func (s *sqlUploadJournal) FindStale(ctx context.Context, cutoff time.Time) ([]domain.UploadAttempt, error) {
	query := `
		SELECT id, owner_id, bucket_id, storage_path, file_name, size_bytes, mime_type, checksum, status, error_message, created_at, updated_at
		FROM upload_attempts
		WHERE status = 'uploading' AND updated_at < $1
		ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []domain.UploadAttempt
	for rows.Next() {
		var row dbUploadAttempt
		if err := row.scan(rows); err != nil {
			return nil, fmt.Errorf("failed to scan upload attempt: %w", err)
		}
		attempts = append(attempts, *row.ToDomain())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating upload attempts: %w", err)
	}

	return attempts, nil
}

// FindByID returns one attempt
func (s *sqlUploadJournal) FindByID(ctx context.Context, id uuid.UUID) (*domain.UploadAttempt, error) {
	query := `
		SELECT id, owner_id, bucket_id, storage_path, file_name, size_bytes, mime_type, checksum, status, error_message, created_at, updated_at
		FROM upload_attempts
		WHERE id = $1`

	var row dbUploadAttempt
	if err := row.scan(s.db.QueryRowContext(ctx, query, id)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAttemptNotFound
		}
		return nil, err
	}

	return row.ToDomain(), nil
}

type scanner interface {
	Scan(dest ...any) error
}

// dbUploadAttempt represents an upload attempt in DB
type dbUploadAttempt struct {
	ID           uuid.UUID      `db:"id"`
	OwnerID      string         `db:"owner_id"`
	BucketID     string         `db:"bucket_id"`
	StoragePath  string         `db:"storage_path"`
	FileName     string         `db:"file_name"`
	SizeBytes    int64          `db:"size_bytes"`
	MimeType     string         `db:"mime_type"`
	Checksum     string         `db:"checksum"`
	Status       string         `db:"status"`
	ErrorMessage sql.NullString `db:"error_message"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func (d *dbUploadAttempt) scan(s scanner) error {
	return s.Scan(
		&d.ID,
		&d.OwnerID,
		&d.BucketID,
		&d.StoragePath,
		&d.FileName,
		&d.SizeBytes,
		&d.MimeType,
		&d.Checksum,
		&d.Status,
		&d.ErrorMessage,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
}

// ToDomain converts to domain.UploadAttempt
func (d *dbUploadAttempt) ToDomain() *domain.UploadAttempt {
	attempt := &domain.UploadAttempt{
		ID:          d.ID,
		OwnerID:     d.OwnerID,
		BucketID:    d.BucketID,
		StoragePath: d.StoragePath,
		FileName:    d.FileName,
		SizeBytes:   d.SizeBytes,
		MimeType:    d.MimeType,
		Checksum:    d.Checksum,
		Status:      domain.UploadStatus(d.Status),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if d.ErrorMessage.Valid {
		msg := d.ErrorMessage.String
		attempt.ErrorMessage = &msg
	}
	return attempt
}
