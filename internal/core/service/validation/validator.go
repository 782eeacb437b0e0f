package validation

import (
	"chat-attachments/internal/core/domain"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

const (
	// DefaultAttachmentMaxSize is the attachment ceiling used when none is configured
	DefaultAttachmentMaxSize int64 = 50 << 20
	// DefaultAvatarMaxSize is the avatar ceiling used when none is configured
	DefaultAvatarMaxSize int64 = 5 << 20
)

// Result is the outcome of validating one source
type Result struct {
	IsValid  bool
	Err      error
	MimeType string
	FileType domain.FileType
	Size     int64
}

// ErrorMessage returns the user-visible message, "" when valid
func (r Result) ErrorMessage() string {
	if r.IsValid {
		return ""
	}
	return domain.UserMessage(r.Err)
}

// Validator checks a source against a category allow-list and size ceiling
type Validator struct {
	attachmentMaxSize int64
	avatarMaxSize     int64
}

// NewValidator returns a Validator. Non-positive ceilings fall back to the defaults.
func NewValidator(attachmentMaxSize, avatarMaxSize int64) *Validator {
	if attachmentMaxSize <= 0 {
		attachmentMaxSize = DefaultAttachmentMaxSize
	}
	if avatarMaxSize <= 0 {
		avatarMaxSize = DefaultAvatarMaxSize
	}
	return &Validator{attachmentMaxSize: attachmentMaxSize, avatarMaxSize: avatarMaxSize}
}

// MaxSize returns the ceiling applied to category
func (v *Validator) MaxSize(category domain.Category) int64 {
	if category == domain.CategoryAvatar {
		return v.avatarMaxSize
	}
	return v.attachmentMaxSize
}

// Validate runs the checks in order and stops at the first failure
func (v *Validator) Validate(source domain.FileSource, category domain.Category) Result {
	size, head, err := inspect(source)
	if err != nil {
		return invalid(err)
	}

	mimeType := DetectMimeType(source.Name(), head)
	if !IsAllowed(mimeType, category) {
		return invalid(fmt.Errorf("%w: %s is not allowed for %s", domain.ErrInvalidFileType, mimeType, category))
	}

	if size > v.MaxSize(category) {
		return invalid(fmt.Errorf("%w: %d bytes exceeds %d", domain.ErrFileSizeTooBig, size, v.MaxSize(category)))
	}
	if size == 0 {
		return invalid(domain.ErrFileEmpty)
	}

	return Result{
		IsValid:  true,
		MimeType: mimeType,
		FileType: GetFileTypeCategory(mimeType),
		Size:     size,
	}
}

func invalid(err error) Result {
	return Result{Err: err}
}

// inspect returns the size and leading bytes of a source
func inspect(source domain.FileSource) (int64, []byte, error) {
	if source.LocalPath == "" {
		if source.Bytes == nil {
			return 0, nil, fmt.Errorf("%w: no path or content supplied", domain.ErrFileNotFound)
		}
		head := source.Bytes
		if len(head) > sniffLen {
			head = head[:sniffLen]
		}
		return int64(len(source.Bytes)), head, nil
	}

	info, err := os.Stat(source.LocalPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil, fmt.Errorf("%w: %s", domain.ErrFileNotFound, source.LocalPath)
		}
		return 0, nil, fmt.Errorf("%w: %v", domain.ErrFileNotFound, err)
	}
	if !info.Mode().IsRegular() {
		return 0, nil, fmt.Errorf("%w: %s is not a regular file", domain.ErrFileNotFound, source.LocalPath)
	}

	f, err := os.Open(source.LocalPath)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", domain.ErrFileNotFound, err)
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return 0, nil, fmt.Errorf("%w: %v", domain.ErrFileNotFound, err)
	}

	return info.Size(), head[:n], nil
}
