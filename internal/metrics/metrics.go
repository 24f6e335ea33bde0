package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	availabilityComputed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "barbearia",
			Name:      "availability_computed_total",
			Help:      "Count of day-slot computations.",
		},
	)

	durationFallback = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "barbearia",
			Name:      "duration_fallback_total",
			Help:      "Count of bookings whose service duration could not be resolved.",
		},
	)

	bookingCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "barbearia",
			Name:      "bookings_created_total",
			Help:      "Count of bookings created by status.",
		},
		[]string{"status"},
	)

	bookingCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "barbearia",
			Name:      "bookings_cancelled_total",
			Help:      "Count of bookings cancelled.",
		},
	)

	invalidations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "barbearia",
			Name:      "invalidations_total",
			Help:      "Count of change-feed invalidation events by kind.",
		},
		[]string{"kind"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "barbearia",
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			availabilityComputed,
			durationFallback,
			bookingCreated,
			bookingCancelled,
			invalidations,
			httpRequests,
		)
	})
}

func IncAvailabilityComputed() {
	availabilityComputed.Inc()
}

// AddDurationFallbacks records bookings that fell back to the default
// service duration; a rising value means service references are drifting.
func AddDurationFallbacks(n int) {
	durationFallback.Add(float64(n))
}

func IncBookingCreated(status string) {
	bookingCreated.WithLabelValues(status).Inc()
}

func IncBookingCancelled() {
	bookingCancelled.Inc()
}

func IncInvalidation(kind string) {
	invalidations.WithLabelValues(kind).Inc()
}

func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}
