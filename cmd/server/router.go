package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"staffdir/internal/platform/config"
	"staffdir/internal/platform/health"
	"staffdir/internal/record/handler"
	request "staffdir/pkg/platform/middleware/request"
)

func newRouter(svc handler.Service, healthHandler *health.Handler, reg *prometheus.Registry, cfg config.Server, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(request.Recovery(log))
	r.Use(request.RequestID)
	r.Use(request.Logger(log))
	r.Use(request.LatencyMiddleware(request.NewMetrics(reg)))

	healthHandler.Register(r)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	r.Group(func(r chi.Router) {
		r.Use(request.Timeout(cfg.RequestTimeout))
		r.Use(request.BodyLimit(cfg.MaxUploadBytes))
		handler.New(svc, log).Register(r)
	})
	return r
}
