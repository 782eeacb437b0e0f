package cleanup

import (
	"chat-attachments/internal/core/port"
	"chat-attachments/internal/observability"
	"log/slog"
	"time"
)

// DefaultTempMaxAge is the sweep age used when none is given
const DefaultTempMaxAge = 24 * time.Hour

type cleanupService struct {
	journal port.UploadJournal
	store   port.ObjectStore
	tempDir string
	metrics *observability.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures the cleanup service
type Option func(*cleanupService)

// WithClock replaces time.Now when computing sweep cutoffs
func WithClock(now func() time.Time) Option {
	return func(c *cleanupService) {
		c.now = now
	}
}

// WithMetrics records sweep metrics
func WithMetrics(m *observability.Metrics) Option {
	return func(c *cleanupService) {
		c.metrics = m
	}
}

// NewCleanupService creates a new cleanup service sweeping tempDir
func NewCleanupService(journal port.UploadJournal, store port.ObjectStore, tempDir string, logger *slog.Logger, opts ...Option) port.CleanupService {
	c := &cleanupService{
		journal: journal,
		store:   store,
		tempDir: tempDir,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
