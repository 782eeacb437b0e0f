package attachment

import (
	"chat-attachments/internal/config"
	"chat-attachments/internal/core/port"
	"chat-attachments/internal/core/service/naming"
	"chat-attachments/internal/core/service/validation"
	"chat-attachments/internal/observability"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultSignedURLTTL      = time.Hour
	defaultHeartbeatInterval = time.Minute
)

type attachmentService struct {
	store     port.ObjectStore
	journal   port.UploadJournal
	publisher port.EventPublisher
	validator *validation.Validator
	namer     *naming.Namer
	metrics   *observability.Metrics
	tracer    trace.Tracer
	logger    *slog.Logger
	now       naming.Clock

	attachmentBucket string
	avatarBucket     string
	signedURLTTL     time.Duration
	retryAttempts    int
	retryBackoff     time.Duration
	heartbeat        time.Duration
}

// Option configures the attachment service
type Option func(*attachmentService)

// WithClock replaces time.Now for naming and timestamps
func WithClock(clock naming.Clock) Option {
	return func(s *attachmentService) {
		s.now = clock
	}
}

// WithMetrics records upload metrics
func WithMetrics(m *observability.Metrics) Option {
	return func(s *attachmentService) {
		s.metrics = m
	}
}

// NewAttachmentService creates a new attachment service
func NewAttachmentService(store port.ObjectStore, journal port.UploadJournal, publisher port.EventPublisher, minioCfg config.MinioConfig, uploadCfg config.UploadConfig, logger *slog.Logger, opts ...Option) port.AttachmentService {
	s := &attachmentService{
		store:            store,
		journal:          journal,
		publisher:        publisher,
		validator:        validation.NewValidator(uploadCfg.AttachmentMaxSize, uploadCfg.AvatarMaxSize),
		tracer:           otel.Tracer("chat-attachments/attachment"),
		logger:           logger,
		now:              time.Now,
		attachmentBucket: minioCfg.AttachmentBucket,
		avatarBucket:     minioCfg.AvatarBucket,
		signedURLTTL:     minioCfg.SignedURLTTL,
		retryAttempts:    uploadCfg.RetryAttempts,
		retryBackoff:     uploadCfg.RetryBackoff,
		heartbeat:        uploadCfg.HeartbeatInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.signedURLTTL <= 0 {
		s.signedURLTTL = defaultSignedURLTTL
	}
	if s.heartbeat <= 0 {
		s.heartbeat = defaultHeartbeatInterval
	}
	if s.retryAttempts < 0 {
		s.retryAttempts = 0
	}
	s.namer = naming.NewNamer(s.attachmentBucket, s.avatarBucket, s.now)
	return s
}
