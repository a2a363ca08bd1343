package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"reef-scout/config"
	"reef-scout/ingest"
	"reef-scout/logging"
	"reef-scout/metrics"
	"reef-scout/report"
	"reef-scout/schedule"
	"reef-scout/store"
)

// maxUploadMemory bounds the multipart form kept in memory; larger uploads
// spill to temp files.
const maxUploadMemory = 32 << 20

type serverDeps struct {
	cfg      *config.Config
	log      *zap.Logger
	store    *store.Store
	reports  *report.Service
	ingester *ingest.Ingester
	tba      *schedule.TBAClient
	metrics  *metrics.Registry
	gatherer prometheus.Gatherer
}

type server struct {
	serverDeps
	upSince time.Time
}

func newServer(deps serverDeps) *server {
	if deps.log == nil {
		deps.log = zap.NewNop()
	}
	return &server{serverDeps: deps, upSince: time.Now()}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(logging.Middleware(s.log.Named("http")))
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
	}

	r.Get("/healthz", s.healthHandler)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	// Pages
	r.Get("/", s.homeHandler)
	r.Get("/team-lookup/{team}", s.teamLookupHandler)
	r.Get("/averages", s.averagesPageHandler)
	r.Get("/medians", s.mediansPageHandler)
	r.Get("/raw", s.rawPageHandler)
	r.Get("/match-schedule", s.schedulePageHandler)

	// Imports
	r.Post("/upload-scouting", s.uploadScoutingHandler)
	r.Post("/import-schedule", s.importScheduleHandler)
	r.Post("/import-schedule/tba", s.importTBAScheduleHandler)
	r.Post("/admin/clear", s.clearHandler)

	r.Get("/teams", s.teamsHandler)
	r.Route("/api", func(api chi.Router) {
		if len(s.cfg.CORS.AllowedOrigins) > 0 {
			api.Use(cors.Handler(cors.Options{
				AllowedOrigins: s.cfg.CORS.AllowedOrigins,
				AllowedMethods: []string{"GET", "OPTIONS"},
				AllowedHeaders: []string{"Accept", "Content-Type"},
				MaxAge:         300,
			}))
		}
		api.Get("/team_performance/{team}", s.teamPerformanceHandler)
		api.Get("/category_performance/{team}/{category}", s.categoryPerformanceHandler)
		api.Get("/climb", s.climbHandler)
		api.Get("/averages", s.averagesHandler)
		api.Get("/medians", s.mediansHandler)
		api.Get("/raw_data", s.rawDataHandler)
	})

	return r
}
