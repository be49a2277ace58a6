package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status_code"},
	)

	httpResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: []float64{100, 500, 1000, 5000, 10000, 50000, 100000, 500000},
		},
		[]string{"method", "endpoint"},
	)

	// Business metrics
	contactSubmissionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "contact_submissions_total",
			Help: "Total number of contact form submissions",
		},
	)

	consultationRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "consultation_requests_total",
			Help: "Total number of consultation requests",
		},
	)

	newsletterSignupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsletter_signups_total",
			Help: "Total number of newsletter signup attempts",
		},
		[]string{"status"}, // subscribed, already_subscribed, failure
	)

	// Provider metrics
	providerRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_requests_total",
			Help: "Total number of outbound provider requests",
		},
		[]string{"provider", "status"}, // success, failure
	)

	providerRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_request_duration_seconds",
			Help:    "Outbound provider request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider"},
	)

	// Content cache metrics
	contentCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_cache_total",
			Help: "Content cache lookups by outcome",
		},
		[]string{"outcome"}, // hit, miss
	)
)

// PrometheusMiddleware creates a middleware that records Prometheus metrics
func PrometheusMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip metrics endpoint itself
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		// Wrap response writer to capture status code and size
		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(wrapped.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, statusCode).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path, statusCode).Observe(duration)
		httpResponseSize.WithLabelValues(r.Method, r.URL.Path).Observe(float64(wrapped.size))
	})
}

// responseWriter wraps http.ResponseWriter to capture status code and response size
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	size, err := rw.ResponseWriter.Write(b)
	rw.size += size
	return size, err
}

// RecordContactSubmission records a new contact form submission
func RecordContactSubmission() {
	contactSubmissionsTotal.Inc()
}

// RecordConsultationRequest records a new consultation request
func RecordConsultationRequest() {
	consultationRequestsTotal.Inc()
}

// RecordNewsletterSignup records a newsletter signup attempt
func RecordNewsletterSignup(status string) {
	newsletterSignupsTotal.WithLabelValues(status).Inc()
}

// RecordProviderRequest records an outbound provider call
func RecordProviderRequest(provider string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	providerRequestsTotal.WithLabelValues(provider, status).Inc()
	providerRequestDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordContentCache records a content cache lookup outcome
func RecordContentCache(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	contentCacheTotal.WithLabelValues(outcome).Inc()
}
