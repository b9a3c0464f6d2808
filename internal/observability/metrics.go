package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Signup outcomes used as the outcome label.
const (
	OutcomeAccepted  = "accepted"
	OutcomeNotFound  = "not_found"
	OutcomeDuplicate = "duplicate"
)

var (
	signupCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "activity_signup",
		Subsystem: "directory",
		Name:      "signups_total",
		Help:      "Signup attempts grouped by outcome.",
	}, []string{"outcome"})

	rosterGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "activity_signup",
		Subsystem: "directory",
		Name:      "participants",
		Help:      "Current number of participants registered per activity.",
	}, []string{"activity"})
)

func init() {
	prometheus.MustRegister(signupCounter, rosterGauge)
}

// RecordSignup increments the signup counter for outcome.
func RecordSignup(outcome string) {
	signupCounter.WithLabelValues(outcome).Inc()
}

// RecordRosterSize sets the participant gauge for an activity.
func RecordRosterSize(activity string, size int) {
	rosterGauge.WithLabelValues(activity).Set(float64(size))
}
