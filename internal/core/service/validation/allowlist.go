package validation

import "chat-attachments/internal/core/domain"

var (
	imageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp", "image/heic"}

	documentTypes = []string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.ms-excel",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"application/vnd.ms-powerpoint",
		"application/vnd.openxmlformats-officedocument.presentationml.presentation",
		"text/plain",
		"text/csv",
	}

	archiveTypes = []string{
		"application/zip",
		"application/x-rar-compressed",
		"application/x-7z-compressed",
		"application/gzip",
		"application/x-tar",
	}

	audioTypes = []string{"audio/mpeg", "audio/wav", "audio/aac", "audio/ogg", "audio/mp4", "audio/x-m4a"}

	videoTypes = []string{"video/mp4", "video/quicktime", "video/webm", "video/x-msvideo", "video/3gpp"}

	avatarTypes = []string{"image/jpeg", "image/png", "image/webp"}
)

var fileTypeByMime = buildFileTypeIndex()

func buildFileTypeIndex() map[string]domain.FileType {
	index := make(map[string]domain.FileType)
	groups := []struct {
		fileType domain.FileType
		types    []string
	}{
		{domain.FileTypeImage, imageTypes},
		{domain.FileTypeDocument, documentTypes},
		{domain.FileTypeArchive, archiveTypes},
		{domain.FileTypeAudio, audioTypes},
		{domain.FileTypeVideo, videoTypes},
	}
	for _, g := range groups {
		for _, t := range g.types {
			index[t] = g.fileType
		}
	}
	return index
}

// GetFileTypeCategory maps an allow-listed MIME type to its display category
func GetFileTypeCategory(mimeType string) domain.FileType {
	if fileType, ok := fileTypeByMime[mimeType]; ok {
		return fileType
	}
	return domain.FileTypeOther
}

// IsAllowed reports whether mimeType may be stored under category
func IsAllowed(mimeType string, category domain.Category) bool {
	if category == domain.CategoryAvatar {
		for _, t := range avatarTypes {
			if t == mimeType {
				return true
			}
		}
		return false
	}
	_, ok := fileTypeByMime[mimeType]
	return ok
}

// AllowedTypes returns the allow-list of category
func AllowedTypes(category domain.Category) []string {
	if category == domain.CategoryAvatar {
		return append([]string(nil), avatarTypes...)
	}
	all := make([]string, 0, len(fileTypeByMime))
	for _, group := range [][]string{imageTypes, documentTypes, archiveTypes, audioTypes, videoTypes} {
		all = append(all, group...)
	}
	return all
}
