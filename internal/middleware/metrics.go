package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the HTTP-level Prometheus collectors.
type Metrics struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight prometheus.Gauge
	responseSize     *prometheus.HistogramVec
}

// NewMetrics creates and registers the HTTP metrics collectors.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	if namespace == "" {
		namespace = "atelier"
	}
	factory := promauto.With(reg)

	return &Metrics{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests processed",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		requestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Number of HTTP requests currently being served",
			},
		),
		responseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_response_size_bytes",
				Help:      "HTTP response size in bytes",
				Buckets:   prometheus.ExponentialBuckets(256, 4, 8),
			},
			[]string{"method", "path"},
		),
	}
}

// Middleware instruments each request with the registered collectors.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.requestsInFlight.Inc()
		defer m.requestsInFlight.Dec()

		mw := &metricsResponseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(mw, r)

		path := normalizePath(r.URL.Path)
		duration := time.Since(start).Seconds()

		m.requestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(mw.status)).Inc()
		m.requestDuration.WithLabelValues(r.Method, path).Observe(duration)
		m.responseSize.WithLabelValues(r.Method, path).Observe(float64(mw.written))
	})
}

type metricsResponseWriter struct {
	http.ResponseWriter
	status      int
	written     int64
	wroteHeader bool
}

func (w *metricsResponseWriter) WriteHeader(status int) {
	if w.wroteHeader {
		return
	}
	w.status = status
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *metricsResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.written += int64(n)
	return n, err
}

// normalizePath collapses path parameters so metric label cardinality stays
// bounded. IDs and other dynamic segments become ":id".
func normalizePath(path string) string {
	segments := splitPath(path)
	if len(segments) == 0 {
		return "/"
	}

	if segments[0] != "api" {
		// /healthz, /metrics and anything else top-level
		return "/" + segments[0]
	}

	switch {
	case len(segments) >= 2 && segments[1] == "admin":
		// /api/admin/{resource}[/{id}[/{action}]]
		out := []string{"api", "admin"}
		if len(segments) >= 3 {
			out = append(out, segments[2])
		}
		if len(segments) >= 4 {
			out = append(out, ":id")
		}
		if len(segments) >= 5 {
			out = append(out, segments[4])
		}
		return "/" + strings.Join(out, "/")
	case len(segments) >= 2 && segments[1] == "webhooks":
		// /api/webhooks/{provider}
		out := []string{"api", "webhooks"}
		if len(segments) >= 3 {
			out = append(out, segments[2])
		}
		return "/" + strings.Join(out, "/")
	default:
		// /api/{resource}[/{id}[/{action}]]
		out := []string{"api"}
		if len(segments) >= 2 {
			out = append(out, segments[1])
		}
		if len(segments) >= 3 {
			out = append(out, ":id")
		}
		if len(segments) >= 4 {
			out = append(out, segments[3])
		}
		return "/" + strings.Join(out, "/")
	}
}

func splitPath(path string) []string {
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}
