package validation

import (
	"bytes"
	"path/filepath"
	"strings"
)

// OctetStream is the MIME type of content nothing could identify
const OctetStream = "application/octet-stream"

// sniffLen is the number of leading bytes DetectMimeType inspects
const sniffLen = 12

var extensionTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".heic": "image/heic",
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".txt":  "text/plain",
	".csv":  "text/csv",
	".zip":  "application/zip",
	".rar":  "application/x-rar-compressed",
	".7z":   "application/x-7z-compressed",
	".gz":   "application/gzip",
	".tar":  "application/x-tar",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".aac":  "audio/aac",
	".ogg":  "audio/ogg",
	".m4a":  "audio/x-m4a",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".avi":  "video/x-msvideo",
	".3gp":  "video/3gpp",
}

// MimeTypeFromName returns the MIME type registered for the file extension, or "" when unknown
func MimeTypeFromName(name string) string {
	return extensionTypes[strings.ToLower(filepath.Ext(name))]
}

// SniffMimeType inspects the leading bytes of content, or returns "" when no signature matches
func SniffMimeType(head []byte) string {
	switch {
	case bytes.HasPrefix(head, []byte{0x89, 0x50, 0x4E, 0x47}):
		return "image/png"
	case bytes.HasPrefix(head, []byte{0xFF, 0xD8}):
		return "image/jpeg"
	case bytes.HasPrefix(head, []byte("GIF")):
		return "image/gif"
	case bytes.HasPrefix(head, []byte("%PDF")):
		return "application/pdf"
	case bytes.HasPrefix(head, []byte("PK")):
		return "application/zip"
	case len(head) >= sniffLen && bytes.Equal(head[0:4], []byte("RIFF")) && bytes.Equal(head[8:12], []byte("WEBP")):
		return "image/webp"
	}
	return ""
}

// DetectMimeType resolves a MIME type by extension first, then by content
func DetectMimeType(name string, head []byte) string {
	if mimeType := MimeTypeFromName(name); mimeType != "" {
		return mimeType
	}
	if mimeType := SniffMimeType(head); mimeType != "" {
		return mimeType
	}
	return OctetStream
}
