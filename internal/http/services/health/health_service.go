// Package health contiene el service de health check del collector.
package health

import (
	"context"
	"fmt"
	"time"

	dto "github.com/dropDatabas3/collector/internal/http/dto/health"
	"github.com/dropDatabas3/collector/internal/observability/logger"
	"github.com/dropDatabas3/collector/internal/registry"
)

// HealthService define las operaciones de health check.
type HealthService interface {
	Check(ctx context.Context) dto.HealthResponse
}

// Pinger es un backend que responde a Ping (cache de runtime info).
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps contiene las dependencias inyectables para el health service.
type Deps struct {
	Registry registry.Repository
	Cache    Pinger
	// CacheKind se muestra si el cache es memoria ("memory cache only").
	CacheKind string
	Version   string
	Commit    string
}

type healthService struct {
	deps Deps
}

// NewHealthService crea un nuevo service de health check.
func NewHealthService(deps Deps) HealthService {
	return &healthService{deps: deps}
}

const componentHealth = "health"

func (s *healthService) Check(ctx context.Context) dto.HealthResponse {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(componentHealth),
		logger.Op("Check"),
	)

	response := dto.HealthResponse{
		Components: make(map[string]dto.HealthStatus),
		Version:    s.deps.Version,
		Commit:     s.deps.Commit,
		Timestamp:  time.Now().UTC(),
	}

	hasErrors := false
	hasCriticalErrors := false

	// 1) Registro de aplicaciones (crítico)
	if s.deps.Registry != nil {
		apps, err := s.deps.Registry.List(ctx)
		if err != nil {
			response.Components["registry"] = dto.HealthStatus{
				Status:  "error",
				Message: fmt.Sprintf("unavailable: %v", err),
			}
			hasCriticalErrors = true
			log.Error("registry unavailable", logger.Err(err))
		} else {
			response.Components["registry"] = dto.HealthStatus{Status: "ok"}
			response.Applications = len(apps)
		}
	} else {
		response.Components["registry"] = dto.HealthStatus{
			Status:  "error",
			Message: "registry not initialized",
		}
		hasCriticalErrors = true
	}

	// 2) Cache de runtime info (no crítico: sin él las apps quedan "no disponibles")
	switch {
	case s.deps.Cache == nil:
		response.Components["cache"] = dto.HealthStatus{Status: "disabled"}
	default:
		if err := s.deps.Cache.Ping(ctx); err != nil {
			response.Components["cache"] = dto.HealthStatus{
				Status:  "error",
				Message: fmt.Sprintf("unavailable: %v", err),
			}
			hasErrors = true
			log.Error("cache unavailable", logger.Err(err))
		} else {
			st := dto.HealthStatus{Status: "ok"}
			if s.deps.CacheKind == "memory" {
				st.Message = "memory cache only"
			}
			response.Components["cache"] = st
		}
	}

	switch {
	case hasCriticalErrors:
		response.Status = "unavailable"
	case hasErrors:
		response.Status = "degraded"
	default:
		response.Status = "ready"
	}
	return response
}
