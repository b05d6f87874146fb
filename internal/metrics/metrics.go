package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RegistrationsTotal counts registration attempts by outcome.
	RegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "referral_registrations_total",
			Help: "Customer registration attempts by outcome",
		},
		[]string{"outcome"}, // registered, validation_failed, duplicate, invalid_code, error
	)

	// RedemptionsTotal counts referral code redemptions.
	RedemptionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "referral_redemptions_total",
			Help: "Referral codes marked as used",
		},
	)

	// ChatRequestsTotal counts chat queries by the path that answered them.
	ChatRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_requests_total",
			Help: "Chat queries by answering path",
		},
		[]string{"path"}, // rules, model, fallback, help
	)

	// ModelRequestDuration tracks latency of conversational model calls.
	ModelRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chat_model_request_duration_seconds",
			Help:    "Duration of conversational model requests in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 15.0},
		},
		[]string{"status"}, // success or failure
	)
)

// RecordRegistration records a registration attempt outcome.
func RecordRegistration(outcome string) {
	RegistrationsTotal.WithLabelValues(outcome).Inc()
}

// RecordModelRequest records the duration of a model call.
func RecordModelRequest(status string, seconds float64) {
	ModelRequestDuration.WithLabelValues(status).Observe(seconds)
}
