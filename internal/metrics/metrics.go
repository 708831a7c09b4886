package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the waitlist service
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Business Metrics
	SignupsTotal            prometheus.Counter
	DuplicateSignupsTotal   prometheus.Counter
	ReferredSignupsTotal    prometheus.Counter
	DroppedReferralsTotal   prometheus.Counter
	NotificationsTotal      prometheus.CounterVec
	WaitlistSize            prometheus.Gauge
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "waitlist_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "waitlist_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "waitlist_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		SignupsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "waitlist_signups_total",
				Help: "Total new waitlist rows created",
			},
		),
		DuplicateSignupsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "waitlist_duplicate_signups_total",
				Help: "Signup attempts that resolved to an existing email",
			},
		),
		ReferredSignupsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "waitlist_referred_signups_total",
				Help: "New signups that arrived with a resolvable referral code",
			},
		),
		DroppedReferralsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "waitlist_dropped_referrals_total",
				Help: "Referral codes that did not resolve and were stored as null",
			},
		),
		NotificationsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "waitlist_notifications_total",
				Help: "Admin notification attempts by outcome",
			},
			[]string{"outcome"},
		),
		WaitlistSize: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "waitlist_size",
				Help: "Total signups at last count query",
			},
		),
	}
}
