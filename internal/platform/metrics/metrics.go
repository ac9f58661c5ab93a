// Package metrics provides Prometheus instrumentation shared by all modules.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service-wide Prometheus collectors. Entity modules label
// their series by module name instead of registering per-module collectors,
// which keeps ten look-alike modules from drifting apart.
type Metrics struct {
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	RecordsCreated  *prometheus.CounterVec
	StatusChanges   *prometheus.CounterVec
	CommentsAdded   *prometheus.CounterVec
	SequenceFailures *prometheus.CounterVec
}

// New creates and registers all collectors.
func New() *Metrics {
	return &Metrics{
		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pragati_http_requests_total",
			Help: "Total HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pragati_http_request_duration_seconds",
			Help:    "HTTP request duration by route",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "route"}),
		RecordsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pragati_records_created_total",
			Help: "Records created by module",
		}, []string{"module"}),
		StatusChanges: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pragati_status_changes_total",
			Help: "Status transitions by module and new status",
		}, []string{"module", "status"}),
		CommentsAdded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pragati_comments_added_total",
			Help: "Comments appended by module",
		}, []string{"module"}),
		SequenceFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pragati_sequence_failures_total",
			Help: "Human-readable ID allocation failures by module",
		}, []string{"module"}),
	}
}

// IncrementRecordCreated records a successful create for a module.
func (m *Metrics) IncrementRecordCreated(module string) {
	if m != nil {
		m.RecordsCreated.WithLabelValues(module).Inc()
	}
}

// IncrementStatusChange records a status transition.
func (m *Metrics) IncrementStatusChange(module, status string) {
	if m != nil {
		m.StatusChanges.WithLabelValues(module, status).Inc()
	}
}

// IncrementCommentAdded records an appended comment.
func (m *Metrics) IncrementCommentAdded(module string) {
	if m != nil {
		m.CommentsAdded.WithLabelValues(module).Inc()
	}
}

// IncrementSequenceFailure records a failed ID allocation.
func (m *Metrics) IncrementSequenceFailure(module string) {
	if m != nil {
		m.SequenceFailures.WithLabelValues(module).Inc()
	}
}

// Middleware instruments every request with count and duration, labelled by
// the chi route pattern so path parameters don't explode cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).Inc()
		m.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
