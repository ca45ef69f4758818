package registrations

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	registrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campushub_registrations_total",
		Help: "Accepted event registrations.",
	})
	withdrawalsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campushub_registration_withdrawals_total",
		Help: "Withdrawn event registrations.",
	})
	registrationConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campushub_registration_conflicts_total",
		Help: "Duplicate registration attempts that lost the insert race.",
	})
)
