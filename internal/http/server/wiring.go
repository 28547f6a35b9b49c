// Package server arma el collector completo a partir de la configuración.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dropDatabas3/collector/internal/cache"
	domain "github.com/dropDatabas3/collector/internal/collector"
	"github.com/dropDatabas3/collector/internal/config"
	"github.com/dropDatabas3/collector/internal/fetch"
	collectorctrl "github.com/dropDatabas3/collector/internal/http/controllers/collector"
	healthctrl "github.com/dropDatabas3/collector/internal/http/controllers/health"
	mw "github.com/dropDatabas3/collector/internal/http/middlewares"
	"github.com/dropDatabas3/collector/internal/http/router"
	collectorsvc "github.com/dropDatabas3/collector/internal/http/services/collector"
	healthsvc "github.com/dropDatabas3/collector/internal/http/services/health"
	"github.com/dropDatabas3/collector/internal/metrics"
	"github.com/dropDatabas3/collector/internal/observability/logger"
	"github.com/dropDatabas3/collector/internal/registry"
	"github.com/dropDatabas3/collector/internal/runtimeinfo"
)

// BuildInfo se muestra en /readyz.
type BuildInfo struct {
	Version string
	Commit  string
}

// App es el collector armado: handler, services y recursos a cerrar.
type App struct {
	Handler      http.Handler
	Registration *collectorsvc.Registration
	Registry     registry.Repository

	cfg     *config.Config
	closers []func() error
}

// Build crea cache, registry, fetcher, services, controllers y router.
// No contacta nodos; eso lo hace Start.
func Build(ctx context.Context, cfg *config.Config, info BuildInfo) (*App, error) {
	log := logger.From(ctx).With(logger.Component("server"), logger.Op("Build"))

	if err := metrics.Register(nil); err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	app := &App{cfg: cfg}

	c, err := cache.New(ctx, cache.Config{
		Driver:   cfg.Cache.Kind,
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
		Prefix:   cfg.Cache.Redis.Prefix,
	})
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	app.closers = append(app.closers, c.Close)

	reg, err := registry.Open(ctx, registry.Config{
		Driver: cfg.Registry.Driver,
		File:   cfg.Registry.File,
		Redis: registry.RedisConfig{
			Addr:     cfg.Registry.Redis.Addr,
			Password: cfg.Registry.Redis.Password,
			DB:       cfg.Registry.Redis.DB,
			Prefix:   cfg.Registry.Redis.Prefix,
		},
	})
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("registry: %w", err)
	}
	app.Registry = reg
	app.closers = append(app.closers, reg.Close)

	rt := runtimeinfo.New(c, cfg.Cache.Memory.DefaultTTL)
	counters := domain.NewCounters()

	svcs := collectorsvc.NewServices(collectorsvc.Deps{
		Registry:          reg,
		Runtime:           rt,
		Fetcher:           fetch.New(fetch.Config{Timeout: cfg.Node.Timeout}),
		Counters:          counters,
		MonitoringPath:    cfg.Node.MonitoringPath,
		FanOutLimit:       cfg.Node.FanOutLimit,
		SelectionValidity: cfg.Selection.Validity,
	})
	app.Registration = svcs.Registration

	health := healthsvc.NewHealthService(healthsvc.Deps{
		Registry:  reg,
		Cache:     c,
		CacheKind: cfg.Cache.Kind,
		Version:   info.Version,
		Commit:    info.Commit,
	})

	h, err := router.New(router.RouterDeps{
		BasePath: cfg.Server.BasePath,
		Collector: collectorctrl.NewControllers(svcs, collectorctrl.ControllerDeps{
			Registry:   reg,
			Runtime:    rt,
			Counters:   counters,
			CookieName: cfg.Selection.CookieName,
			BasePath:   cfg.Server.BasePath,
		}),
		Health: healthctrl.NewHealthController(health),
		AllowedAddr: mw.AllowedAddrConfig{
			Pattern:           cfg.Security.AllowedAddrPattern,
			TrustForwardedFor: cfg.Security.TrustForwardedFor,
		},
	})
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.Handler = h

	log.Info("collector wired",
		logger.String("registry", cfg.Registry.Driver),
		logger.String("cache", cfg.Cache.Kind),
		logger.Int("fan_out_limit", cfg.Node.FanOutLimit),
		logger.Bool("addr_filter", cfg.Security.AllowedAddrPattern != ""),
	)
	return app, nil
}

// Start registra las aplicaciones estáticas y hace el warm-up de la info de runtime.
// Es sincrónico: se llama antes de empezar a servir.
func (a *App) Start(ctx context.Context) error {
	static := make([]collectorsvc.StaticApplication, 0, len(a.cfg.Applications))
	for _, s := range a.cfg.Applications {
		static = append(static, collectorsvc.StaticApplication{Name: s.Name, URLs: s.URLs})
	}
	if err := a.Registration.Bootstrap(ctx, static); err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	n, err := a.Registration.WarmUp(ctx)
	if err != nil {
		return fmt.Errorf("warm-up: %w", err)
	}
	logger.From(ctx).Info("warm-up done", logger.Count(n))
	return nil
}

// Close libera cache y registry.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// Serve arranca el HTTP server y hace graceful shutdown cuando ctx se cancela.
func (a *App) Serve(ctx context.Context) error {
	log := logger.From(ctx).With(logger.Component("server"))
	srv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           a.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		// sin WriteTimeout: currentRequests es un stream de duración variable
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", logger.String("addr", srv.Addr), logger.String("base_path", a.cfg.Server.BasePath))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
