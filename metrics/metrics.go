package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds the Prometheus metrics for the scouting server.
type Registry struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Ingestion
	IngestFilesTotal    *prometheus.CounterVec
	RecordsUpsertsTotal *prometheus.CounterVec

	// Stats cache
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec
}

// New registers every metric with reg.
func New(reg prometheus.Registerer) *Registry {
	f := promauto.With(reg)
	return &Registry{
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reefscout_http_requests_total",
				Help: "Total HTTP requests by route, method and status code",
			},
			[]string{"route", "method", "status_code"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "reefscout_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"route", "method"},
		),
		IngestFilesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reefscout_ingest_files_total",
				Help: "Scouting submissions processed, by result",
			},
			[]string{"result"},
		),
		RecordsUpsertsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reefscout_records_upserted_total",
				Help: "Scouting records written, by operation (insert or replace)",
			},
			[]string{"op"},
		),
		CacheHitsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reefscout_stats_cache_hits_total",
				Help: "Roster statistics served from cache",
			},
			[]string{"table"},
		),
		CacheMissesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reefscout_stats_cache_misses_total",
				Help: "Roster statistics recomputed from the store",
			},
			[]string{"table"},
		),
	}
}

// Middleware records request count and latency per chi route pattern.
func (m *Registry) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unknown"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.HTTPRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
