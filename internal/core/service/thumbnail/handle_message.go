package thumbnail

import (
	"bytes"
	"chat-attachments/internal/core/domain"
	"chat-attachments/internal/core/port"
	"chat-attachments/internal/core/service/naming"
	"chat-attachments/internal/core/service/validation"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const objectCreatedPrefix = "s3:ObjectCreated:"

// decodable lists the image types the decoders registered here can read
var decodable = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

func (t *thumbnailService) HandleMessage(ctx context.Context, data []byte) error {
	var event domain.MinIOEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("could not unmarshal minio event: %v", err)
	}
	if len(event.Records) == 0 {
		return fmt.Errorf("no records in minio event")
	}

	for _, record := range event.Records {
		key, err := url.QueryUnescape(record.S3.Object.Key)
		if err != nil {
			return err
		}
		notification := domain.ObjectCreatedNotification{
			EventName:   record.EventName,
			BucketName:  record.S3.Bucket.Name,
			ObjectKey:   key,
			ObjectSize:  record.S3.Object.Size,
			ContentType: record.S3.Object.ContentType,
		}
		if err := t.handle(ctx, notification); err != nil {
			return err
		}
	}
	return nil
}

func (t *thumbnailService) handle(ctx context.Context, n domain.ObjectCreatedNotification) error {
	if !strings.HasPrefix(n.EventName, objectCreatedPrefix) || n.BucketName != t.attachmentBucket || naming.IsThumbnail(n.ObjectKey) {
		return nil
	}

	mimeType := n.ContentType
	if mimeType == "" {
		mimeType = validation.MimeTypeFromName(n.ObjectKey)
	}
	if !decodable[mimeType] {
		t.logger.Debug("skipping thumbnail", "key", n.ObjectKey, "mime_type", mimeType)
		return nil
	}

	t.logger.Info("handling event", "eventtype", n.EventName, "key", n.ObjectKey)

	object, err := t.store.GetObject(ctx, n.BucketName, n.ObjectKey)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", n.ObjectKey, err)
	}
	defer object.Close()

	img, err := imaging.Decode(object, imaging.AutoOrientation(true))
	if err != nil {
		// a corrupt image will not decode on redelivery either
		t.logger.Warn("failed to decode image", "key", n.ObjectKey, "error", err)
		return nil
	}

	if img.Bounds().Dx() > t.width {
		img = imaging.Resize(img, t.width, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		return fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	thumbKey := naming.ThumbnailPath(n.ObjectKey)
	err = t.store.PutObject(ctx, port.PutObjectInput{
		Bucket:      n.BucketName,
		Key:         thumbKey,
		Body:        &buf,
		Size:        int64(buf.Len()),
		ContentType: "image/jpeg",
		Upsert:      true,
	})
	if err != nil {
		return fmt.Errorf("failed to store thumbnail %s: %w", thumbKey, err)
	}

	t.logger.Info("thumbnail stored", "key", thumbKey, "source", n.ObjectKey)
	return nil
}
