package port

import (
	"chat-attachments/internal/core/domain"
	"context"
	"io"
	"time"
)

// PutObjectInput describes one whole-object write
type PutObjectInput struct {
	Bucket      string
	Key         string
	Body        io.Reader
	Size        int64
	ContentType string
	// Upsert allows overwriting an existing object at Key.
	Upsert bool
	// OnBytes, when set, receives the cumulative number of bytes handed to the transport.
	OnBytes func(sent int64)
}

// ObjectStore is an interface to define remote object store interactions
type ObjectStore interface {
	EnsureBucket(ctx context.Context, bucket string, public bool) error
	PutObject(ctx context.Context, input PutObjectInput) error
	GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error)
	StatObject(ctx context.Context, bucket, key string) (domain.ObjectInfo, error)
	DeleteObjects(ctx context.Context, bucket string, keys []string) error
	RemoveIncompleteUpload(ctx context.Context, bucket, key string) error
	ListObjects(ctx context.Context, bucket, prefix string) ([]domain.ObjectInfo, error)
	CreateSignedURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
	PublicURL(bucket, key string) string
}
