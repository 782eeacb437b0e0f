package attachment

import (
	"chat-attachments/internal/core/domain"
	"context"
	"encoding/json"
	"net/http"
)

// ResolveURLV1 returns a usable URL for the posted attachment descriptor
func (h *HandlerV1) ResolveURLV1(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, h.attachmentService.ResolveURL)
}

// ResolveThumbnailV1 returns a thumbnail URL for the posted attachment descriptor
func (h *HandlerV1) ResolveThumbnailV1(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, h.attachmentService.ResolveThumbnail)
}

func (h *HandlerV1) resolve(w http.ResponseWriter, r *http.Request, resolveFn func(context.Context, domain.FileAttachment) domain.AccessURL) {
	var req domain.FileAttachment
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("error decoding resolve request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	access := resolveFn(r.Context(), req)
	if !access.Resolved() {
		h.writeJSON(w, http.StatusNotFound, access)
		return
	}
	h.writeJSON(w, http.StatusOK, access)
}
