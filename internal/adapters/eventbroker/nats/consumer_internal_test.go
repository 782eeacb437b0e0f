package nats

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
)

func TestStopReceiving(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		err  error
		want bool
	}{
		{"missed heartbeat", context.Background(), jetstream.ErrNoHeartbeat, false},
		{"wrapped heartbeat", context.Background(), fmt.Errorf("pull: %w", jetstream.ErrNoHeartbeat), false},
		{"other transient error", context.Background(), errors.New("nats: timeout"), false},
		{"iterator closed", context.Background(), jetstream.ErrMsgIteratorClosed, true},
		{"consumer deleted", context.Background(), jetstream.ErrConsumerDeleted, true},
		{"connection closed", context.Background(), nats.ErrConnectionClosed, true},
		{"context done", cancelled, jetstream.ErrNoHeartbeat, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stopReceiving(tt.ctx, tt.err))
		})
	}
}
