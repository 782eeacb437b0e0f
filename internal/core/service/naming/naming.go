package naming

import (
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const (
	// MaxNameLength bounds a sanitized file name
	MaxNameLength = 255
	// ThumbnailPrefix is the key prefix of generated thumbnails
	ThumbnailPrefix = "thumbnails/"

	fallbackName = "file"
)

var (
	invalidRun    = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
	underscoreRun = regexp.MustCompile(`_{2,}`)
)

// Clock returns the current time
type Clock func() time.Time

// Namer builds deterministic object keys. Two names built in the same
// millisecond from the same input collide.
type Namer struct {
	attachmentBucket string
	avatarBucket     string
	clock            Clock
}

// NewNamer returns a Namer, a nil clock means time.Now
func NewNamer(attachmentBucket, avatarBucket string, clock Clock) *Namer {
	if clock == nil {
		clock = time.Now
	}
	return &Namer{attachmentBucket: attachmentBucket, avatarBucket: avatarBucket, clock: clock}
}

// Sanitize reduces name to [A-Za-z0-9._-], never empty and at most MaxNameLength long
func Sanitize(name string) string {
	s := strings.TrimSpace(name)
	s = invalidRun.ReplaceAllString(s, "_")
	s = underscoreRun.ReplaceAllString(s, "_")
	s = strings.Trim(s, ".")
	if s == "" {
		return fallbackName
	}
	if len(s) > MaxNameLength {
		ext := filepath.Ext(s)
		if len(ext) >= MaxNameLength {
			return s[:MaxNameLength]
		}
		s = s[:MaxNameLength-len(ext)] + ext
	}
	return s
}

// UniqueName returns "{base}_{millis}{ext}" for the sanitized name
func (n *Namer) UniqueName(fileName string) string {
	s := Sanitize(fileName)
	ext := filepath.Ext(s)
	base := strings.TrimSuffix(s, ext)
	if base == "" {
		base = fallbackName
	}
	return fmt.Sprintf("%s_%d%s", base, n.clock().UnixMilli(), ext)
}

// AttachmentPath returns the object key of a message attachment
func (n *Namer) AttachmentPath(ownerID, conversationID, messageID, fileName string) string {
	return strings.Join([]string{n.attachmentBucket, ownerID, conversationID, messageID, n.UniqueName(fileName)}, "/")
}

// AvatarPath returns the object key of a profile avatar
func (n *Namer) AvatarPath(ownerID, fileName string) string {
	return strings.Join([]string{n.avatarBucket, ownerID, n.UniqueName(fileName)}, "/")
}

// OwnerPrefix returns the listing prefix of everything ownerID stored in bucket
func OwnerPrefix(bucket, ownerID string) string {
	return bucket + "/" + ownerID + "/"
}

// ThumbnailPath returns the key of the thumbnail generated for storagePath
func ThumbnailPath(storagePath string) string {
	return ThumbnailPrefix + strings.TrimSuffix(storagePath, path.Ext(storagePath)) + ".jpg"
}

// IsThumbnail reports whether key is a generated thumbnail
func IsThumbnail(key string) bool {
	return strings.HasPrefix(key, ThumbnailPrefix)
}

// TempFileName returns a timestamp-qualified name for spooling into the temp dir
func (n *Namer) TempFileName(fileName string) string {
	return fmt.Sprintf("upload_%d_%s", n.clock().UnixNano(), Sanitize(fileName))
}
