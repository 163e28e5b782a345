package middleware

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	domain "github.com/bryanwahyu/resume-analyzer/internal/domain/resume"
)

// Metrics stores application metrics
type Metrics struct {
	registry   *prometheus.Registry
	requests   *prometheus.CounterVec
	inFlight   prometheus.Gauge
	analyses   prometheus.Counter
	scores     prometheus.Histogram
	rateLimits prometheus.Counter
}

// NewMetrics registers every collector on a private registry, so tests can
// build as many as they like.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "resume_http_requests_total",
			Help: "HTTP requests by method and status code.",
		}, []string{"method", "code"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "resume_http_requests_in_flight",
			Help: "HTTP requests currently being served.",
		}),
		analyses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "resume_analyses_total",
			Help: "Resumes analyzed since start.",
		}),
		scores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "resume_analysis_score",
			Help:    "Distribution of analysis scores.",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		}),
		rateLimits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "resume_http_rate_limited_total",
			Help: "Requests rejected by the rate limiter.",
		}),
	}
	m.registry.MustRegister(
		m.requests, m.inFlight, m.analyses, m.scores, m.rateLimits,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveAnalysis records one finished analysis.
func (m *Metrics) ObserveAnalysis(a domain.Analysis) {
	m.analyses.Inc()
	m.scores.Observe(float64(a.Score))
}

// TrackStored exposes the number of analyses held in memory. size is read
// at scrape time.
func (m *Metrics) TrackStored(size func() int) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "resume_analyses_stored",
		Help: "Analyses currently held in the in-memory store.",
	}, func() float64 { return float64(size()) }))
}

// RateLimited counts one rejected request.
func (m *Metrics) RateLimited() {
	m.rateLimits.Inc()
}

// Middleware tracks request metrics
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.inFlight.Inc()
		defer m.inFlight.Dec()

		wrapped := wrapWriter(w)
		next.ServeHTTP(wrapped, r)

		m.requests.WithLabelValues(r.Method, strconv.Itoa(wrapped.statusCode)).Inc()
	})
}

// Handler exposes the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
