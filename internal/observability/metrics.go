package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "chat_attachments"

// Metrics wraps the Prometheus collectors of the pipeline. A nil *Metrics records nothing.
type Metrics struct {
	registry       *prometheus.Registry
	uploads        *prometheus.CounterVec
	uploadedBytes  *prometheus.CounterVec
	uploadDuration *prometheus.HistogramVec
	signedURLs     *prometheus.CounterVec
	sweptFiles     *prometheus.CounterVec
	batches        *prometheus.CounterVec
}

// InitMetrics registers the pipeline collectors on a dedicated registry
func InitMetrics() (*Metrics, error) {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Uploads by bucket and outcome.",
		}, []string{"bucket", "outcome"}),
		uploadedBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploaded_bytes_total",
			Help:      "Bytes written to the object store.",
		}, []string{"bucket"}),
		uploadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upload_duration_seconds",
			Help:      "Duration of object writes.",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"bucket"}),
		signedURLs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signed_urls_total",
			Help:      "Signed URL mints by outcome.",
		}, []string{"outcome"}),
		sweptFiles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "swept_files_total",
			Help:      "Temp files visited by the sweeper by outcome.",
		}, []string{"outcome"}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Batch uploads by result status.",
		}, []string{"status"}),
	}

	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.uploads, m.uploadedBytes, m.uploadDuration, m.signedURLs, m.sweptFiles, m.batches,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Handler returns the HTTP handler for the /metrics endpoint
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveUpload records one finished write
func (m *Metrics) ObserveUpload(bucket, outcome string, size int64, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(bucket, outcome).Inc()
	if outcome == OutcomeSuccess {
		m.uploadedBytes.WithLabelValues(bucket).Add(float64(size))
	}
	m.uploadDuration.WithLabelValues(bucket).Observe(elapsed.Seconds())
}

// ObserveRejection records an upload refused before any network call
func (m *Metrics) ObserveRejection(bucket string) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(bucket, OutcomeRejected).Inc()
}

// ObserveSignedURL records one signed URL mint
func (m *Metrics) ObserveSignedURL(outcome string) {
	if m == nil {
		return
	}
	m.signedURLs.WithLabelValues(outcome).Inc()
}

// ObserveSweep records one sweep pass
func (m *Metrics) ObserveSweep(removed, failed int) {
	if m == nil {
		return
	}
	m.sweptFiles.WithLabelValues("removed").Add(float64(removed))
	m.sweptFiles.WithLabelValues("failed").Add(float64(failed))
}

// ObserveBatch records one pick-and-upload result
func (m *Metrics) ObserveBatch(status string) {
	if m == nil {
		return
	}
	m.batches.WithLabelValues(status).Inc()
}

const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeRejected = "rejected"
)
