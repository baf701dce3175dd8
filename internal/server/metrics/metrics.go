// Package metrics provides Prometheus metrics for the meetings backend.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Fallback reasons.
const (
	ReasonNotConfigured = "not_configured"
	ReasonRemoteError   = "remote_error"
)

var (
	// meetingsCreatedTotal counts persisted meetings.
	// Labels:
	//   - source: "real" or "fallback"
	meetingsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meetings_created_total",
			Help: "Total number of meetings created, by source",
		},
		[]string{"source"},
	)

	// meetingsFallbackTotal counts meetings synthesized locally.
	// Labels:
	//   - reason: "not_configured" or "remote_error"
	meetingsFallbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meetings_fallback_total",
			Help: "Total number of meetings synthesized because the Zoom API was unavailable",
		},
		[]string{"reason"},
	)

	// meetingsDeletedTotal counts delete attempts.
	// Labels:
	//   - status: "success" or "error"
	meetingsDeletedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meetings_deleted_total",
			Help: "Total number of meeting delete attempts, by status",
		},
		[]string{"status"},
	)

	// zoomRequestDuration records Zoom REST API latency.
	// Labels:
	//   - operation: e.g. "create_meeting", "delete_meeting", "get_user"
	//   - outcome: "success" or "error"
	zoomRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "zoom_api_request_duration_seconds",
			Help:    "Duration of Zoom REST API requests in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"operation", "outcome"},
	)

	signaturesIssuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zoom_signatures_issued_total",
			Help: "Total number of meeting signatures issued, by role",
		},
		[]string{"role"},
	)
)

func init() {
	prometheus.MustRegister(meetingsCreatedTotal)
	prometheus.MustRegister(meetingsFallbackTotal)
	prometheus.MustRegister(meetingsDeletedTotal)
	prometheus.MustRegister(zoomRequestDuration)
	prometheus.MustRegister(signaturesIssuedTotal)
}

// RecordMeetingCreated counts a persisted meeting.
func RecordMeetingCreated(source string) {
	meetingsCreatedTotal.WithLabelValues(source).Inc()
}

// RecordFallback counts a meeting synthesized instead of created remotely.
func RecordFallback(reason string) {
	meetingsFallbackTotal.WithLabelValues(reason).Inc()
}

// RecordMeetingDeleted counts a delete attempt.
func RecordMeetingDeleted(status string) {
	meetingsDeletedTotal.WithLabelValues(status).Inc()
}

// ObserveZoomRequest records the latency of one Zoom API call.
func ObserveZoomRequest(operation, outcome string, d time.Duration) {
	zoomRequestDuration.WithLabelValues(operation, outcome).Observe(d.Seconds())
}

// RecordSignatureIssued counts a generated meeting signature.
func RecordSignatureIssued(role string) {
	signaturesIssuedTotal.WithLabelValues(role).Inc()
}
