// Package collector contiene los controllers HTTP del collector: reportes,
// acciones, registro y listado de aplicaciones.
package collector

import (
	domain "github.com/dropDatabas3/collector/internal/collector"
	svc "github.com/dropDatabas3/collector/internal/http/services/collector"
	"github.com/dropDatabas3/collector/internal/registry"
	"github.com/dropDatabas3/collector/internal/runtimeinfo"
)

// Controllers agrupa todos los controllers del dominio collector.
type Controllers struct {
	Report       *ReportController
	Registration *RegistrationController
	Applications *ApplicationsController
}

// ControllerDeps contiene dependencias adicionales para controllers.
type ControllerDeps struct {
	Registry registry.Repository
	Runtime  *runtimeinfo.Store
	Counters *domain.Counters

	CookieName string // nombre de la cookie de selección
	BasePath   string // path de la cookie
}

// NewControllers crea el agregador de controllers collector.
func NewControllers(s svc.Services, deps ControllerDeps) *Controllers {
	if deps.CookieName == "" {
		deps.CookieName = "monitoring"
	}
	if deps.Counters == nil {
		deps.Counters = domain.NewCounters()
	}
	return &Controllers{
		Report:       NewReportController(s, deps),
		Registration: NewRegistrationController(s.Registration),
		Applications: NewApplicationsController(deps.Registry, deps.Runtime),
	}
}
