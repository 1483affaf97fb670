package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/Raimguhinov/briefing-go/internal/config"
	mwLogger "github.com/Raimguhinov/briefing-go/internal/delivery/http/middleware/logger"
	"github.com/Raimguhinov/briefing-go/internal/scheduler"
	"github.com/Raimguhinov/briefing-go/pkg/logger"
)

// SetupRouter mounts the briefing API on a chi router.
func SetupRouter(l *logger.Logger, sched Engine, daily *scheduler.Daily, cfg *config.Config) http.Handler {
	s := chi.NewRouter()
	s.Use(middleware.RequestID)
	s.Use(mwLogger.New(l))
	s.Use(middleware.Recoverer)
	s.Use(corsMiddleware(cfg))

	h := &handler{
		sched: sched,
		daily: daily,
		log:   l.Component("http"),
	}

	s.Route("/api/v1", func(r chi.Router) {
		r.Get("/briefing", h.overview)
		r.Post("/alarms", h.createAlarm)
		r.Delete("/alarms/{title}", h.dismissAlarm)
		r.Delete("/notifications/{title}", h.dismissNotification)
		r.Post("/tick", h.tick)
		r.Post("/reset", h.reset)
		r.Get("/alarms.ics", h.exportCalendar)
	})
	s.Get("/index", h.index)
	s.Handle("/metrics", promhttp.Handler())

	return s
}

func corsMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	c := cfg.HTTP.CORS
	return cors.New(cors.Options{
		AllowedOrigins:     c.AllowedOrigins,
		AllowedMethods:     c.AllowedMethods,
		AllowedHeaders:     c.AllowedHeaders,
		ExposedHeaders:     c.ExposedHeaders,
		AllowCredentials:   c.AllowCredentials,
		OptionsPassthrough: c.OptionsPassthrough,
		Debug:              c.Debug,
	}).Handler
}
