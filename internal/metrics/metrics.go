package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "modtrack_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"method", "route", "status"},
	)

	UseCaseDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "modtrack_use_case_duration_seconds",
			Help:    "Service use case duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"use_case", "result"},
	)

	AttachmentUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modtrack_attachment_uploads_total",
			Help: "Attachment uploads by result",
		},
		[]string{"result"}, // success, failed
	)

	AttachmentBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "modtrack_attachment_bytes_total",
			Help: "Bytes written to object storage for attachments",
		},
	)

	StatusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modtrack_status_transitions_total",
			Help: "Work item status changes by kind and new status",
		},
		[]string{"kind", "status"},
	)
)

func RecordHTTPRequestDuration(method, route, status string, d time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
}

func RecordUseCase(name string, success bool, d time.Duration) {
	UseCaseDuration.WithLabelValues(name, resultLabel(success)).Observe(d.Seconds())
}

func IncrementAttachmentUpload(success bool, size int64) {
	AttachmentUploads.WithLabelValues(resultLabel(success)).Inc()
	if success && size > 0 {
		AttachmentBytes.Add(float64(size))
	}
}

func IncrementStatusTransition(kind, status string) {
	StatusTransitions.WithLabelValues(kind, status).Inc()
}

func resultLabel(success bool) string {
	if success {
		return "success"
	}
	return "failed"
}
