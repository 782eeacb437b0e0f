package attachment

import (
	"chat-attachments/internal/core/domain"
	"chat-attachments/internal/core/port"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// UploadAttachmentsV1 uploads the "files" parts of a multipart body to a message
func (h *HandlerV1) UploadAttachmentsV1(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")
	messageID := chi.URLParam(r, "messageID")
	if conversationID == "" || messageID == "" {
		http.Error(w, "conversation id and message id are required", http.StatusBadRequest)
		return
	}

	if err := h.batches.Acquire(r.Context(), 1); err != nil {
		http.Error(w, domain.UserMessage(domain.ErrUploadCancelled), http.StatusServiceUnavailable)
		return
	}
	defer h.batches.Release(1)

	files, err := h.spool(r, "files", 0)
	switch {
	case errors.Is(err, errNoFiles):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		h.logger.Error("error spooling attachments", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer h.cleanup(files)

	sources := make([]domain.FileSource, 0, len(files))
	for _, f := range files {
		sources = append(sources, f.source())
	}

	owner := OwnerFromContext(r.Context())
	result := h.attachmentService.Pick(r.Context(), port.UploadBatchRequest{
		OwnerID:        owner,
		ConversationID: conversationID,
		MessageID:      messageID,
		Files:          sources,
	}, func(completed, total int) {
		h.logger.Debug("batch progress", "owner_id", owner, "completed", completed, "total", total)
	})

	switch result.Status {
	case domain.AttachmentResultSuccess:
		h.writeJSON(w, http.StatusCreated, result)
	case domain.AttachmentResultCancelled:
		h.writeJSON(w, http.StatusBadRequest, result)
	default:
		h.logger.Error("attachment batch failed", "owner_id", owner, "message", result.Message)
		h.writeJSON(w, http.StatusUnprocessableEntity, result)
	}
}
