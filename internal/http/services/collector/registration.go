package collector

import (
	"context"
	"errors"
	"strings"

	"github.com/dropDatabas3/collector/internal/audit"
	domain "github.com/dropDatabas3/collector/internal/collector"
	httperrors "github.com/dropDatabas3/collector/internal/http/errors"
	"github.com/dropDatabas3/collector/internal/metrics"
	"github.com/dropDatabas3/collector/internal/observability/logger"
	"github.com/dropDatabas3/collector/internal/registry"
	"github.com/dropDatabas3/collector/internal/runtimeinfo"
)

// StaticApplication es una aplicación declarada en la configuración.
type StaticApplication struct {
	Name string
	URLs []string
}

// Registration agrega aplicaciones al registro y mantiene su info de runtime.
type Registration struct {
	reg            registry.Repository
	runtime        *runtimeinfo.Store
	agg            *Aggregator
	counters       *domain.Counters
	monitoringPath string
}

// NewRegistration crea el service de registro.
func NewRegistration(reg registry.Repository, runtime *runtimeinfo.Store, agg *Aggregator, counters *domain.Counters, monitoringPath string) *Registration {
	return &Registration{reg: reg, runtime: runtime, agg: agg, counters: counters, monitoringPath: monitoringPath}
}

// Register valida name/urls, consulta la info de runtime de TODOS los nodos y
// solo si todos responden reemplaza la aplicación en el registro.
// Ante cualquier error el registro queda como estaba.
func (r *Registration) Register(ctx context.Context, name, urls string) (registry.Application, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("collector.registration"),
		logger.Op("Register"),
	)

	name = strings.TrimSpace(name)
	if name == "" || strings.TrimSpace(urls) == "" {
		return registry.Application{}, httperrors.ErrMissingFields
	}
	nodes, err := domain.ParseNodeURLs(urls, r.monitoringPath)
	if err != nil {
		return registry.Application{}, httperrors.ErrInvalidURLFormat.WithDetail(urls).WithCause(err)
	}

	app := registry.Application{Name: name, Nodes: nodes}
	infos, err := r.agg.RuntimeInfo(ctx, Target{Application: name, Nodes: nodes})
	if err != nil {
		log.Warn("registration failed: node unavailable", logger.Application(name), logger.Err(err))
		return registry.Application{}, err
	}
	if err := r.reg.Put(ctx, app); err != nil {
		if errors.Is(err, registry.ErrInvalidApplication) {
			return registry.Application{}, httperrors.ErrBadRequest.WithDetail(err.Error()).WithCause(err)
		}
		return registry.Application{}, err
	}
	if err := r.runtime.Put(ctx, name, infos); err != nil {
		return registry.Application{}, err
	}
	r.updateGauge(ctx)

	log.Info("application registered", logger.Application(name), logger.Nodes(app.NodeStrings()))
	audit.Log(ctx, audit.ApplicationRegistered, logger.Application(name), logger.Nodes(app.NodeStrings()))
	return app, nil
}

// Bootstrap registra (sin consultar nodos) las aplicaciones estáticas que aún no existen.
func (r *Registration) Bootstrap(ctx context.Context, static []StaticApplication) error {
	for _, s := range static {
		if _, err := r.reg.Get(ctx, s.Name); err == nil {
			continue
		} else if !errors.Is(err, registry.ErrNotFound) {
			return err
		}
		nodes, err := domain.ParseNodeURLs(strings.Join(s.URLs, ","), r.monitoringPath)
		if err != nil {
			return err
		}
		if err := r.reg.Put(ctx, registry.Application{Name: s.Name, Nodes: nodes}); err != nil {
			return err
		}
		logger.From(ctx).Info("static application registered", logger.Application(s.Name))
	}
	r.updateGauge(ctx)
	return nil
}

// WarmUp consulta una vez la info de runtime de cada aplicación registrada.
// Las que fallan quedan "no disponibles". Devuelve cuántas quedaron disponibles.
func (r *Registration) WarmUp(ctx context.Context) (int, error) {
	apps, err := r.reg.List(ctx)
	if err != nil {
		return 0, err
	}
	available := 0
	for _, a := range apps {
		infos, err := r.agg.RuntimeInfo(ctx, Target{Application: a.Name, Nodes: a.Nodes})
		if err != nil {
			logger.From(ctx).Warn("warm-up failed", logger.Application(a.Name), logger.Err(err))
			continue
		}
		if err := r.runtime.Put(ctx, a.Name, infos); err != nil {
			return available, err
		}
		available++
	}
	r.updateGauge(ctx)
	return available, nil
}

func (r *Registration) updateGauge(ctx context.Context) {
	if apps, err := r.reg.List(ctx); err == nil {
		metrics.Applications.Set(float64(len(apps)))
	}
}
