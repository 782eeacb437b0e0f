package observability_test

import (
	"chat-attachments/internal/observability"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveUpload(t *testing.T) {
	// Arrange
	m, err := observability.InitMetrics()
	require.NoError(t, err)

	// Act
	m.ObserveUpload("chat-attachments", observability.OutcomeSuccess, 2048, 150*time.Millisecond)
	m.ObserveUpload("chat-attachments", observability.OutcomeFailure, 10, time.Second)
	m.ObserveRejection("avatars")

	// Assert
	count, err := testutil.GatherAndCount(m.Registry(), "chat_attachments_uploads_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestMetrics_Handler(t *testing.T) {
	// Arrange
	m, err := observability.InitMetrics()
	require.NoError(t, err)
	m.ObserveSweep(2, 1)
	m.ObserveSignedURL(observability.OutcomeSuccess)
	m.ObserveBatch("success")

	// Act
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(body), `chat_attachments_swept_files_total{outcome="removed"} 2`)
	assert.Contains(t, string(body), `chat_attachments_signed_urls_total{outcome="success"} 1`)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *observability.Metrics

	assert.NotPanics(t, func() {
		m.ObserveUpload("b", observability.OutcomeSuccess, 1, time.Millisecond)
		m.ObserveSweep(1, 0)
		m.ObserveSignedURL(observability.OutcomeFailure)
		m.ObserveBatch("failure")
	})
}
