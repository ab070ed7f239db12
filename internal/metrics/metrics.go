package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitfolio_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fitfolio_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitfolio_bookings_total",
			Help: "Booking attempts by outcome",
		},
		[]string{"outcome"},
	)

	SlotsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fitfolio_slots_created_total",
			Help: "Total number of slots created by trainers",
		},
	)

	VotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitfolio_forum_votes_total",
			Help: "Forum votes by direction and kind (new or flip)",
		},
		[]string{"direction", "kind"},
	)

	TrainerApplicationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitfolio_trainer_applications_total",
			Help: "Trainer application transitions",
		},
		[]string{"status"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitfolio_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fitfolio_email_queue_length",
			Help: "Current length of email queue",
		},
	)

	NewsletterSubscriptionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fitfolio_newsletter_subscriptions_total",
			Help: "Total number of newsletter subscriptions",
		},
	)

	PaymentIntentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitfolio_payment_intents_total",
			Help: "Stripe payment intents by status",
		},
		[]string{"status"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBooking(outcome string) {
	BookingsTotal.WithLabelValues(outcome).Inc()
}

func RecordSlotCreated() {
	SlotsCreatedTotal.Inc()
}

func RecordVote(direction, kind string) {
	VotesTotal.WithLabelValues(direction, kind).Inc()
}

func RecordTrainerApplication(status string) {
	TrainerApplicationsTotal.WithLabelValues(status).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}

func RecordNewsletterSubscription() {
	NewsletterSubscriptionsTotal.Inc()
}

func RecordPaymentIntent(status string) {
	PaymentIntentsTotal.WithLabelValues(status).Inc()
}
