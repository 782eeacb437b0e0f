package nats

import (
	"chat-attachments/internal/config"
	"chat-attachments/internal/core/port"
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	maxDeliver        = 5
	receiveRetryDelay = time.Second
)

// Consumer reads bucket notifications from a JetStream stream
type Consumer struct {
	logger *slog.Logger
	conn   *nats.Conn
	js     jetstream.JetStream
	config config.NATSConfig
	iter   jetstream.MessagesContext
	stop   func() bool
	wg     sync.WaitGroup
}

// NewNATSConsumer creates a new consumer
func NewNATSConsumer(cfg config.NATSConfig, logger *slog.Logger) (*Consumer, error) {
	conn, js, err := connect(cfg.URL, cfg.ConsumerName, logger)
	if err != nil {
		return nil, err
	}

	return &Consumer{
		conn:   conn,
		js:     js,
		config: cfg,
		logger: logger,
	}, nil
}

// Subscribe creates the durable pull consumer, shared by every worker, and
// hands each message to handler. Failed messages are redelivered with a delay until maxDeliver is reached.
func (n *Consumer) Subscribe(ctx context.Context, handler port.MessageService) error {
	consumerCfg := jetstream.ConsumerConfig{
		Durable:       n.config.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		FilterSubject: n.config.Subject,
		AckWait:       30 * time.Second,
		MaxDeliver:    maxDeliver,
	}

	cons, err := n.js.CreateOrUpdateConsumer(ctx, n.config.StreamName, consumerCfg)
	if err != nil {
		return err
	}

	iter, err := cons.Messages()
	if err != nil {
		return err
	}
	n.iter = iter

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.logger.Info("NATS subscription started", "stream", n.config.StreamName, "consumer", n.config.ConsumerName)
		for {
			msg, err := iter.Next()
			if err != nil {
				if stopReceiving(ctx, err) {
					n.logger.Info("NATS subscription stopped", "reason", err)
					return
				}
				n.logger.Warn("failed to receive message, retrying", "error", err)
				select {
				case <-ctx.Done():
					n.logger.Info("NATS subscription stopped")
					return
				case <-time.After(receiveRetryDelay):
				}
				continue
			}
			n.process(ctx, handler, msg)
		}
	}()

	n.stop = context.AfterFunc(ctx, iter.Stop)
	return nil
}

// stopReceiving reports whether a receive error ends the subscription.
// Missed heartbeats and other transient errors keep the iterator running.
func stopReceiving(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	return errors.Is(err, jetstream.ErrMsgIteratorClosed) ||
		errors.Is(err, jetstream.ErrConsumerDeleted) ||
		errors.Is(err, nats.ErrConnectionClosed)
}

func (n *Consumer) process(ctx context.Context, handler port.MessageService, msg jetstream.Msg) {
	if handleErr := handler.HandleMessage(ctx, msg.Data()); handleErr != nil {
		n.logger.Warn("failed to handle message", "subject", msg.Subject(), "error", handleErr)
		delay := 100 * time.Millisecond
		if meta, err := msg.Metadata(); err == nil {
			delay *= time.Duration(meta.NumDelivered)
		}
		if errNak := msg.NakWithDelay(delay); errNak != nil {
			n.logger.Error("failed to nak message", "error", errNak)
		}
		return
	}
	if ackErr := msg.Ack(); ackErr != nil {
		n.logger.Error("failed to ack message", "error", ackErr)
	}
}

// Close graceful shutdown
func (n *Consumer) Close() error {
	if n.stop != nil {
		n.stop()
	}
	if n.iter != nil {
		n.iter.Stop()
	}

	n.wg.Wait()

	if n.conn != nil {
		n.conn.Close()
	}
	return nil
}
