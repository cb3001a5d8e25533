package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	appointmentBooked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "washbay",
			Name:      "appointment_booked_total",
			Help:      "Count of appointments booked by assignment mode.",
		},
		[]string{"mode"},
	)

	appointmentStatusChanged = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "washbay",
			Name:      "appointment_status_changed_total",
			Help:      "Count of appointment status transitions.",
		},
		[]string{"status"},
	)

	appointmentCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "washbay",
			Name:      "appointment_cancelled_total",
			Help:      "Count of appointments cancelled.",
		},
	)

	reservationRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "washbay",
			Name:      "reservation_rejected_total",
			Help:      "Count of reservation attempts rejected, by reason.",
		},
		[]string{"reason"},
	)

	availabilityRequests = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "washbay",
			Name:      "availability_requests_total",
			Help:      "Count of availability lookups served.",
		},
	)
)

// Reasons for reservation rejections.
const (
	ReasonNoAvailability = "no_availability"
	ReasonConflict       = "concurrency_conflict"
	ReasonValidation     = "validation"
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			appointmentBooked,
			appointmentStatusChanged,
			appointmentCancelled,
			reservationRejected,
			availabilityRequests,
		)
	})
}

func IncAppointmentBooked(mode string) {
	appointmentBooked.WithLabelValues(mode).Inc()
}

func IncAppointmentStatusChanged(status string) {
	appointmentStatusChanged.WithLabelValues(status).Inc()
}

func IncAppointmentCancelled() {
	appointmentCancelled.Inc()
}

func IncReservationRejected(reason string) {
	reservationRejected.WithLabelValues(reason).Inc()
}

func IncAvailabilityRequest() {
	availabilityRequests.Inc()
}
