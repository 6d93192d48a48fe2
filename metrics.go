package protodyn

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	opDecode  = "decode"
	opEncode  = "encode"
	opExample = "example"
)

// Metrics counts codec operations. A nil *Metrics records nothing.
type Metrics struct {
	operations    *prometheus.CounterVec
	payloadBytes  *prometheus.HistogramVec
	unknownFields prometheus.Counter
	rawFallbacks  prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		operations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "protodyn",
			Name:      "codec_operations_total",
			Help:      "Total number of codec operations by outcome.",
		}, []string{"operation", "status"}),
		payloadBytes: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "protodyn",
			Name:      "codec_payload_bytes",
			Help:      "Size of wire payloads decoded or encoded.",
			Buckets:   prometheus.ExponentialBuckets(16, 4, 8),
		}, []string{"operation"}),
		unknownFields: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "protodyn",
			Name:      "decode_unknown_fields_total",
			Help:      "Fields skipped while decoding because the descriptor does not declare them.",
		}),
		rawFallbacks: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "protodyn",
			Name:      "decode_unresolved_types_total",
			Help:      "Nested message fields kept as raw bytes because their type could not be resolved.",
		}),
	}
}

func (m *Metrics) observe(operation string, size int, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.operations.WithLabelValues(operation, status).Inc()
	if err == nil && operation != opExample {
		m.payloadBytes.WithLabelValues(operation).Observe(float64(size))
	}
}

func (m *Metrics) unknownField() {
	if m == nil {
		return
	}
	m.unknownFields.Inc()
}

func (m *Metrics) rawFallback() {
	if m == nil {
		return
	}
	m.rawFallbacks.Inc()
}
