package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	reservationsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "carrental",
			Name:      "reservations_created_total",
			Help:      "Count of reservations created.",
		},
	)

	reservationConflicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "carrental",
			Name:      "reservation_conflicts_total",
			Help:      "Count of writes rejected because the vehicle was already booked.",
		},
		[]string{"source"},
	)

	reservationTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "carrental",
			Name:      "reservation_transitions_total",
			Help:      "Count of reservation status changes by target status.",
		},
		[]string{"status"},
	)

	reservationsDeleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "carrental",
			Name:      "reservations_deleted_total",
			Help:      "Count of hard deleted reservations by their status at deletion.",
		},
		[]string{"status"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "carrental",
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests by method, route and response code.",
		},
		[]string{"method", "route", "code"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			reservationsCreated,
			reservationConflicts,
			reservationTransitions,
			reservationsDeleted,
			httpRequests,
		)
	})
}

func IncReservationCreated() {
	reservationsCreated.Inc()
}

// IncReservationConflict counts a conflict; source is "check" when the
// availability query caught it and "constraint" when the store rejected the write.
func IncReservationConflict(source string) {
	reservationConflicts.WithLabelValues(source).Inc()
}

func IncReservationTransition(status string) {
	reservationTransitions.WithLabelValues(status).Inc()
}

func AddReservationTransitions(status string, n int64) {
	reservationTransitions.WithLabelValues(status).Add(float64(n))
}

func IncReservationDeleted(status string) {
	reservationsDeleted.WithLabelValues(status).Inc()
}

func IncHTTPRequest(method, route string, code int) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
}
