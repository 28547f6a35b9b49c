package collector

import (
	"context"
	"time"

	domain "github.com/dropDatabas3/collector/internal/collector"
	"github.com/dropDatabas3/collector/internal/observability/logger"
	"github.com/dropDatabas3/collector/internal/registry"
	"github.com/dropDatabas3/collector/internal/runtimeinfo"
)

// Selector resuelve a qué aplicación apunta un request.
// Una aplicación es "conocida" si está registrada y tiene datos de runtime.
// El default no exige datos: el caller responde "data unavailable" si faltan.
type Selector struct {
	reg      registry.Repository
	runtime  *runtimeinfo.Store
	validity time.Duration
}

// NewSelector crea el Selector. validity 0 usa domain.StickyValidity.
func NewSelector(reg registry.Repository, runtime *runtimeinfo.Store, validity time.Duration) *Selector {
	if validity <= 0 {
		validity = domain.StickyValidity
	}
	return &Selector{reg: reg, runtime: runtime, validity: validity}
}

// Select devuelve la aplicación elegida (snapshot) u ok=false si el registro está vacío.
//
//  1. requested conocida: se elige y se renueva el token.
//  2. requested desconocida: se ignora el nombre.
//  3. token conocido: se elige; token desconocido: se borra.
//  4. primera aplicación registrada, tenga o no datos.
func (s *Selector) Select(ctx context.Context, requested string, tokens domain.TokenStore) (app registry.Application, ok bool, err error) {
	apps, err := s.reg.List(ctx)
	if err != nil {
		return registry.Application{}, false, err
	}
	known := func(name string) (registry.Application, bool) {
		for _, a := range apps {
			if a.Name == name {
				return a, s.runtime.Has(ctx, name)
			}
		}
		return registry.Application{}, false
	}

	if requested != "" {
		if a, ok := known(requested); ok {
			tokens.Persist(a.Name, s.validity)
			return a, true, nil
		}
		logger.From(ctx).Debug("requested application not known",
			logger.Layer("service"), logger.Application(requested))
	}

	if name, present := tokens.Current(); present {
		if a, ok := known(name); ok {
			return a, true, nil
		}
		tokens.Clear()
	}

	if len(apps) == 0 {
		return registry.Application{}, false, nil
	}
	return apps[0], true, nil
}
