// Package router arma las rutas del collector sobre chi.
package router

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	collectorctrl "github.com/dropDatabas3/collector/internal/http/controllers/collector"
	healthctrl "github.com/dropDatabas3/collector/internal/http/controllers/health"
	httperrors "github.com/dropDatabas3/collector/internal/http/errors"
	mw "github.com/dropDatabas3/collector/internal/http/middlewares"
)

// RouterDeps contiene las dependencias del router.
type RouterDeps struct {
	// BasePath bajo el que se montan todas las rutas. Default "/".
	BasePath string

	Collector *collectorctrl.Controllers
	Health    *healthctrl.HealthController

	AllowedAddr mw.AllowedAddrConfig

	// Metrics sirve /metrics. nil = promhttp.Handler().
	Metrics http.Handler
}

// New devuelve el handler raíz.
//
//	GET  /readyz        health (sin filtro, sin logging)
//	GET  /              reporte, parte o acción
//	POST /              alta de aplicación
//	GET  /applications  listado JSON
//	GET  /metrics       Prometheus
func New(deps RouterDeps) (http.Handler, error) {
	gate, err := mw.WithAllowedAddr(deps.AllowedAddr)
	if err != nil {
		return nil, err
	}
	metricsHandler := deps.Metrics
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}

	r := chi.NewRouter()
	r.Use(mw.WithRecover(), mw.WithRequestID())
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrNotFound.WithDetail("route"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	// health: muy frecuente, no se loguea ni pasa por el filtro
	if deps.Health != nil {
		r.Get("/readyz", deps.Health.Readyz)
	}

	r.Group(func(g chi.Router) {
		g.Use(mw.WithLogging(), mw.WithMetrics(), gate, mw.WithNoCache())

		c := deps.Collector
		g.Get("/", c.Report.Report)
		g.Post("/", c.Registration.Register)
		g.Get("/applications", c.Applications.List)
		g.Handle("/metrics", metricsHandler)
	})

	base := normalizeBasePath(deps.BasePath)
	if base == "/" {
		return r, nil
	}
	root := chi.NewRouter()
	root.Mount(base, r)
	return root, nil
}

func normalizeBasePath(p string) string {
	p = "/" + strings.Trim(strings.TrimSpace(p), "/")
	return p
}
