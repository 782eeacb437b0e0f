package domain

import "errors"

// ErrFileNotFound is an error thrown when the selected source cannot be read
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFileType is an error thrown when file type is not allowed for the category
var ErrInvalidFileType = errors.New("invalid file type")

// ErrFileSizeTooBig is an error thrown when file size is above the category ceiling
var ErrFileSizeTooBig = errors.New("file size too big")

// ErrFileEmpty is an error thrown when file has no content
var ErrFileEmpty = errors.New("file is empty")

// ErrUnauthenticated is an error thrown when no owner is supplied
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrTransportFailure is an error thrown when the object store rejects or drops a transfer
var ErrTransportFailure = errors.New("transport failure")

// ErrObjectExists is an error thrown when a non-upsert write targets an existing key
var ErrObjectExists = errors.New("object already exists")

// ErrUploadCancelled is an error thrown when the context ends before an item starts
var ErrUploadCancelled = errors.New("upload cancelled")

// ErrPartialBatchFailure marks an aggregate with some failed items. It is only
// ever reported through BatchUploadResult, never returned on its own.
var ErrPartialBatchFailure = errors.New("partial batch failure")

// ErrorKind classifies pipeline errors
type ErrorKind string

const (
	ErrorKindNone                ErrorKind = ""
	ErrorKindNotFound            ErrorKind = "NotFound"
	ErrorKindInvalidType         ErrorKind = "InvalidType"
	ErrorKindTooLarge            ErrorKind = "TooLarge"
	ErrorKindEmpty               ErrorKind = "Empty"
	ErrorKindUnauthenticated     ErrorKind = "Unauthenticated"
	ErrorKindTransportFailure    ErrorKind = "TransportFailure"
	ErrorKindPartialBatchFailure ErrorKind = "PartialBatchFailure"
)

// KindOf returns the kind of err
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ErrorKindNone
	case errors.Is(err, ErrFileNotFound):
		return ErrorKindNotFound
	case errors.Is(err, ErrInvalidFileType):
		return ErrorKindInvalidType
	case errors.Is(err, ErrFileSizeTooBig):
		return ErrorKindTooLarge
	case errors.Is(err, ErrFileEmpty):
		return ErrorKindEmpty
	case errors.Is(err, ErrUnauthenticated):
		return ErrorKindUnauthenticated
	case errors.Is(err, ErrPartialBatchFailure):
		return ErrorKindPartialBatchFailure
	default:
		return ErrorKindTransportFailure
	}
}

// UserMessage returns the human-readable message shown for err
func UserMessage(err error) string {
	switch KindOf(err) {
	case ErrorKindNone:
		return ""
	case ErrorKindNotFound:
		return "File not found"
	case ErrorKindInvalidType:
		return "File type is not supported"
	case ErrorKindTooLarge:
		return "File size exceeds the maximum limit"
	case ErrorKindEmpty:
		return "File is empty"
	case ErrorKindUnauthenticated:
		return "User not authenticated"
	case ErrorKindPartialBatchFailure:
		return "Some files failed to upload"
	}
	if errors.Is(err, ErrUploadCancelled) {
		return "Upload cancelled"
	}
	return "Upload failed: " + err.Error()
}

// ErrAttemptNotFound is an error thrown when no in-flight upload attempt matches
var ErrAttemptNotFound = errors.New("upload attempt not found")

// ErrAttemptExists is an error thrown when an attempt is journaled twice for one key
var ErrAttemptExists = errors.New("upload attempt already exists")
