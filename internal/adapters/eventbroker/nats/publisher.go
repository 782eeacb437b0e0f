package nats

import (
	"chat-attachments/internal/config"
	"chat-attachments/internal/core/domain"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Publisher announces stored attachments on JetStream
type Publisher struct {
	logger  *slog.Logger
	conn    *nats.Conn
	js      jetstream.JetStream
	subject string
}

// NewNATSPublisher connects and makes sure the uploaded-attachments stream exists
func NewNATSPublisher(ctx context.Context, cfg config.NATSConfig, logger *slog.Logger) (*Publisher, error) {
	conn, js, err := connect(cfg.URL, "attachments-publisher", logger)
	if err != nil {
		return nil, err
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     cfg.UploadedStreamName,
		Subjects: []string{cfg.UploadedSubject},
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create stream %s: %w", cfg.UploadedStreamName, err)
	}

	return &Publisher{logger: logger, conn: conn, js: js, subject: cfg.UploadedSubject}, nil
}

// PublishUploaded publishes event, deduplicated on the attachment ID
func (p *Publisher) PublishUploaded(ctx context.Context, event domain.AttachmentUploadedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ack, err := p.js.Publish(ctx, p.subject, data, jetstream.WithMsgID(event.AttachmentID.String()))
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("uploaded event published", "attachment_id", event.AttachmentID, "stream", ack.Stream, "sequence", ack.Sequence)
	return nil
}

// Close drains the connection
func (p *Publisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Drain()
}
