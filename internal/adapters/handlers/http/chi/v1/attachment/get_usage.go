package attachment

import "net/http"

// GetUsageV1 returns the caller's storage usage
func (h *HandlerV1) GetUsageV1(w http.ResponseWriter, r *http.Request) {
	usage := h.usageService.Usage(r.Context(), OwnerFromContext(r.Context()))
	if usage.Error != "" {
		h.logger.Error("error computing usage", "error", usage.Error)
		h.writeJSON(w, http.StatusServiceUnavailable, usage)
		return
	}
	h.writeJSON(w, http.StatusOK, usage)
}
