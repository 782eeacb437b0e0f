package attachment

import (
	"chat-attachments/internal/core/domain"
	"chat-attachments/internal/core/port"
	"chat-attachments/internal/core/service/naming"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/semaphore"
)

// OwnerHeader carries the authenticated user ID set by the gateway
const OwnerHeader = "X-User-ID"

type ownerKey struct{}

// HandlerV1 is the handler for v1 attachment routes
type HandlerV1 struct {
	attachmentService port.AttachmentService
	usageService      port.UsageService
	namer             *naming.Namer
	tempDir           string
	batches           *semaphore.Weighted
	logger            *slog.Logger
}

// NewAttachmentHandlerV1 creates HandlerV1. batches bounds how many uploads
// are spooled and transferred at once.
func NewAttachmentHandlerV1(attachmentService port.AttachmentService, usageService port.UsageService, namer *naming.Namer, tempDir string, batches *semaphore.Weighted, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		attachmentService: attachmentService,
		usageService:      usageService,
		namer:             namer,
		tempDir:           tempDir,
		batches:           batches,
		logger:            logger,
	}
}

// Routes exposes handler routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(RequireOwner)

	router.Post("/attachments/{conversationID}/{messageID}", h.UploadAttachmentsV1)
	router.Post("/attachments/resolve", h.ResolveURLV1)
	router.Post("/attachments/thumbnail", h.ResolveThumbnailV1)
	router.Post("/avatar", h.UploadAvatarV1)
	router.Get("/usage", h.GetUsageV1)

	return router
}

// RequireOwner rejects requests without an owner header
func RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner := strings.TrimSpace(r.Header.Get(OwnerHeader))
		if owner == "" {
			http.Error(w, domain.UserMessage(domain.ErrUnauthenticated), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ownerKey{}, owner)))
	})
}

// OwnerFromContext returns the owner stored by RequireOwner
func OwnerFromContext(ctx context.Context) string {
	owner, _ := ctx.Value(ownerKey{}).(string)
	return owner
}

// statusFor maps pipeline errors onto HTTP statuses
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInvalidFileType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, domain.ErrFileSizeTooBig):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrFileEmpty), errors.Is(err, domain.ErrFileNotFound):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUploadCancelled):
		return http.StatusRequestTimeout
	default:
		return http.StatusBadGateway
	}
}

func (h *HandlerV1) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}
