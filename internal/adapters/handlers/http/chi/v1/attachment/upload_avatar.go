package attachment

import (
	"chat-attachments/internal/core/domain"
	"errors"
	"net/http"
)

// UploadAvatarV1 replaces the caller's avatar with the "file" part
func (h *HandlerV1) UploadAvatarV1(w http.ResponseWriter, r *http.Request) {
	if err := h.batches.Acquire(r.Context(), 1); err != nil {
		http.Error(w, domain.UserMessage(domain.ErrUploadCancelled), http.StatusServiceUnavailable)
		return
	}
	defer h.batches.Release(1)

	files, err := h.spool(r, "file", 1)
	switch {
	case errors.Is(err, errNoFiles):
		http.Error(w, "file is required", http.StatusBadRequest)
		return
	case err != nil:
		h.logger.Error("error spooling avatar", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer h.cleanup(files)

	att, uploadErr := h.attachmentService.UploadAvatar(r.Context(), OwnerFromContext(r.Context()), files[0].source(), nil)
	if uploadErr != nil {
		status := statusFor(uploadErr)
		if status >= http.StatusInternalServerError {
			h.logger.Error("error uploading avatar", "error", uploadErr)
		}
		http.Error(w, domain.UserMessage(uploadErr), status)
		return
	}

	h.writeJSON(w, http.StatusCreated, att)
}
