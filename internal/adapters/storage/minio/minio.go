package minio

import (
	"chat-attachments/internal/config"
	"chat-attachments/internal/core/domain"
	"chat-attachments/internal/core/port"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const noSuchKey = "NoSuchKey"

// Adapter is an adapter for minio
type Adapter struct {
	client *minio.Client
	config config.MinioConfig
	logger *slog.Logger
}

// NewAdapter returns Adapter with the attachment and avatar buckets created
func NewAdapter(ctx context.Context, cfg config.MinioConfig, logger *slog.Logger) (*Adapter, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	a := &Adapter{client: client, config: cfg, logger: logger}

	if err := a.EnsureBucket(ctx, cfg.AttachmentBucket, false); err != nil {
		return nil, err
	}
	if err := a.EnsureBucket(ctx, cfg.AvatarBucket, true); err != nil {
		return nil, err
	}

	return a, nil
}

// EnsureBucket creates bucket when missing. Public buckets get an anonymous read policy.
func (a *Adapter) EnsureBucket(ctx context.Context, bucket string, public bool) error {
	exists, err := a.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check if bucket exists: %w", err)
	}
	if !exists {
		if err := a.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		a.logger.Info("bucket created", slog.String("bucket", bucket))
	}

	if public {
		if err := a.client.SetBucketPolicy(ctx, bucket, publicReadPolicy(bucket)); err != nil {
			return fmt.Errorf("failed to set bucket policy: %w", err)
		}
	}
	return nil
}

func publicReadPolicy(bucket string) string {
	return fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`, bucket)
}

// progressHook receives a copy of every chunk read from the body.
// minio-go may read parts concurrently.
type progressHook struct {
	sent    atomic.Int64
	onBytes func(int64)
}

func (h *progressHook) Read(p []byte) (int, error) {
	total := h.sent.Add(int64(len(p)))
	h.onBytes(total)
	return len(p), nil
}

// PutObject writes a whole object. Without Upsert an existing key is refused with domain.ErrObjectExists.
func (a *Adapter) PutObject(ctx context.Context, input port.PutObjectInput) error {
	if !input.Upsert {
		_, err := a.client.StatObject(ctx, input.Bucket, input.Key, minio.StatObjectOptions{})
		if err == nil {
			return fmt.Errorf("%w: %s", domain.ErrObjectExists, input.Key)
		}
		if minio.ToErrorResponse(err).Code != noSuchKey {
			return fmt.Errorf("%w: failed to stat object: %v", domain.ErrTransportFailure, err)
		}
	}

	opts := minio.PutObjectOptions{ContentType: input.ContentType}
	if input.OnBytes != nil {
		opts.Progress = &progressHook{onBytes: input.OnBytes}
	}

	info, err := a.client.PutObject(ctx, input.Bucket, input.Key, input.Body, input.Size, opts)
	if err != nil {
		return fmt.Errorf("%w: failed to put object: %v", domain.ErrTransportFailure, err)
	}

	a.logger.Debug("object stored",
		slog.String("bucket", input.Bucket),
		slog.String("key", input.Key),
		slog.Int64("size", info.Size))
	return nil
}

// GetObject retrieves an obj
func (a *Adapter) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	object, err := a.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	if _, err := object.Stat(); err != nil {
		_ = object.Close()
		if minio.ToErrorResponse(err).Code == noSuchKey {
			return nil, fmt.Errorf("%w: %s", domain.ErrFileNotFound, key)
		}
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	return object, nil
}

// StatObject returns the metadata of one object, domain.ErrFileNotFound when absent
func (a *Adapter) StatObject(ctx context.Context, bucket, key string) (domain.ObjectInfo, error) {
	info, err := a.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == noSuchKey {
			return domain.ObjectInfo{}, fmt.Errorf("%w: %s", domain.ErrFileNotFound, key)
		}
		return domain.ObjectInfo{}, fmt.Errorf("failed to stat object: %w", err)
	}
	return domain.ObjectInfo{
		Name:      info.Key,
		Size:      info.Size,
		MimeType:  info.ContentType,
		CreatedAt: info.LastModified,
		UpdatedAt: info.LastModified,
	}, nil
}

// RemoveIncompleteUpload aborts the multipart upload parts left at key
func (a *Adapter) RemoveIncompleteUpload(ctx context.Context, bucket, key string) error {
	if err := a.client.RemoveIncompleteUpload(ctx, bucket, key); err != nil {
		return fmt.Errorf("failed to remove incomplete upload: %w", err)
	}
	return nil
}

// DeleteObjects deletes objects from storage, missing keys are not an error
func (a *Adapter) DeleteObjects(ctx context.Context, bucket string, keys []string) error {
	objects := make(chan minio.ObjectInfo, len(keys))
	for _, key := range keys {
		objects <- minio.ObjectInfo{Key: key}
	}
	close(objects)

	var errs []error
	for removeErr := range a.client.RemoveObjects(ctx, bucket, objects, minio.RemoveObjectsOptions{}) {
		errs = append(errs, fmt.Errorf("failed to delete %s: %w", removeErr.ObjectName, removeErr.Err))
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	a.logger.Info("objects deleted",
		slog.String("bucket", bucket),
		slog.Int("count", len(keys)))
	return nil
}

// ListObjects lists every object of bucket under prefix
func (a *Adapter) ListObjects(ctx context.Context, bucket, prefix string) ([]domain.ObjectInfo, error) {
	var objects []domain.ObjectInfo
	for obj := range a.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", obj.Err)
		}
		objects = append(objects, domain.ObjectInfo{
			Name:      obj.Key,
			Size:      obj.Size,
			MimeType:  obj.ContentType,
			CreatedAt: obj.LastModified,
			UpdatedAt: obj.LastModified,
		})
	}
	return objects, nil
}

// CreateSignedURL generates a presigned URL for downloading an object
func (a *Adapter) CreateSignedURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	presignedURL, err := a.client.PresignedGetObject(ctx, bucket, key, ttl, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned download URL: %w", err)
	}
	return presignedURL.String(), nil
}

// PublicURL returns the durable URL of an object in a public bucket
func (a *Adapter) PublicURL(bucket, key string) string {
	base := a.config.PublicBaseURL
	if base == "" {
		scheme := "http"
		if a.config.UseSSL {
			scheme = "https"
		}
		base = scheme + "://" + a.config.Endpoint
	}

	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.TrimRight(base, "/") + "/" + url.PathEscape(bucket) + "/" + strings.Join(segments, "/")
}
