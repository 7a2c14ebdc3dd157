package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	reservationsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "salle",
			Name:      "reservations_created_total",
			Help:      "Reservations persisted with status pending.",
		},
	)

	reservationConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "salle",
			Name:      "reservation_conflicts_total",
			Help:      "Booking requests rejected because of a date overlap.",
		},
	)

	emailsDispatched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salle",
			Name:      "emails_dispatched_total",
			Help:      "Notification emails by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(reservationsCreated, reservationConflicts, emailsDispatched)
	})
}

func IncReservationCreated() { reservationsCreated.Inc() }

func IncReservationConflict() { reservationConflicts.Inc() }

// IncEmail records a notification outcome ("sent", "failed" or "dropped").
func IncEmail(outcome string) { emailsDispatched.WithLabelValues(outcome).Inc() }
