package domain

import (
	"fmt"
	"strings"
)

// FileSource is a file supplied by the picker: a local path or in-memory bytes
type FileSource struct {
	LocalPath    string
	Bytes        []byte
	DisplayName  string
	DeclaredSize int64
}

// Name returns the display name, falling back to the local path base
func (f FileSource) Name() string {
	if strings.TrimSpace(f.DisplayName) != "" {
		return f.DisplayName
	}
	if f.LocalPath != "" {
		idx := strings.LastIndexAny(f.LocalPath, `/\`)
		return f.LocalPath[idx+1:]
	}
	return ""
}

// BatchFailure is one failed item of a batch
type BatchFailure struct {
	FileName string `json:"file_name"`
	Reason   string `json:"reason"`
}

// BatchUploadResult aggregates the outcome of one batch call
type BatchUploadResult struct {
	TotalCount   int              `json:"total_count"`
	SuccessCount int              `json:"success_count"`
	FailureCount int              `json:"failure_count"`
	Succeeded    []FileAttachment `json:"succeeded"`
	Failures     []BatchFailure   `json:"failures"`
}

// SuccessRate returns SuccessCount/TotalCount, 0 for an empty batch
func (b BatchUploadResult) SuccessRate() float64 {
	if b.TotalCount == 0 {
		return 0
	}
	return float64(b.SuccessCount) / float64(b.TotalCount)
}

// AllFailed reports whether no item succeeded
func (b BatchUploadResult) AllFailed() bool {
	return b.SuccessCount == 0
}

// Partial reports whether the batch mixes successes and failures
func (b BatchUploadResult) Partial() bool {
	return b.SuccessCount > 0 && b.FailureCount > 0
}

// Err returns ErrPartialBatchFailure for mixed batches, nil otherwise
func (b BatchUploadResult) Err() error {
	if b.Partial() {
		return fmt.Errorf("%w: %d of %d files failed", ErrPartialBatchFailure, b.FailureCount, b.TotalCount)
	}
	return nil
}

// Reasons returns "fileName: reason" per failure, in input order
func (b BatchUploadResult) Reasons() []string {
	reasons := make([]string, 0, len(b.Failures))
	for _, f := range b.Failures {
		reasons = append(reasons, fmt.Sprintf("%s: %s", f.FileName, f.Reason))
	}
	return reasons
}

// AttachmentResultStatus is the outcome of one pick-and-upload interaction
type AttachmentResultStatus string

const (
	AttachmentResultSuccess   AttachmentResultStatus = "success"
	AttachmentResultFailure   AttachmentResultStatus = "failure"
	AttachmentResultCancelled AttachmentResultStatus = "cancelled"
)

// AttachmentResult wraps the outcome of one pick-and-upload interaction
type AttachmentResult struct {
	Status      AttachmentResultStatus `json:"status"`
	Attachments []FileAttachment       `json:"attachments,omitempty"`
	Warnings    []string               `json:"warnings,omitempty"`
	Message     string                 `json:"message,omitempty"`
}

// SuccessResult returns a success outcome
func SuccessResult(attachments []FileAttachment, warnings []string) AttachmentResult {
	return AttachmentResult{Status: AttachmentResultSuccess, Attachments: attachments, Warnings: warnings}
}

// FailureResult returns a failure outcome
func FailureResult(message string) AttachmentResult {
	return AttachmentResult{Status: AttachmentResultFailure, Message: message}
}

// CancelledResult returns a cancelled outcome
func CancelledResult() AttachmentResult {
	return AttachmentResult{Status: AttachmentResultCancelled}
}

// ResultFromBatch applies the batch reporting policy: overall failure only when
// nothing succeeded, otherwise success carrying the failure reasons as warnings.
func ResultFromBatch(b BatchUploadResult) AttachmentResult {
	if b.TotalCount == 0 {
		return CancelledResult()
	}
	if b.AllFailed() {
		return FailureResult("All uploads failed: " + strings.Join(b.Reasons(), "; "))
	}
	var warnings []string
	if b.FailureCount > 0 {
		warnings = b.Reasons()
	}
	return SuccessResult(b.Succeeded, warnings)
}
