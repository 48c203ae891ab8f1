package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courtdesk_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "courtdesk_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ReservationsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courtdesk_reservations_created_total",
			Help: "Total number of reservations created",
		},
		[]string{"status"},
	)

	ReservationConflictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courtdesk_reservation_conflicts_total",
			Help: "Total number of reservation writes rejected for overlapping an existing reservation",
		},
		[]string{"operation"},
	)

	ReservationCancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "courtdesk_reservation_cancellations_total",
			Help: "Total number of reservation cancellations",
		},
	)

	ReservationsCompletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "courtdesk_reservations_completed_total",
			Help: "Total number of reservations marked completed by the sweeper",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordReservationCreated(status string) {
	ReservationsCreatedTotal.WithLabelValues(status).Inc()
}

func RecordReservationConflict(operation string) {
	ReservationConflictsTotal.WithLabelValues(operation).Inc()
}

func RecordReservationCancellation() {
	ReservationCancellationsTotal.Inc()
}

func RecordReservationsCompleted(n int64) {
	ReservationsCompletedTotal.Add(float64(n))
}
