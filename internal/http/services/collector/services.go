// Package collector contiene los services del collector: selección de aplicación,
// agregación multi-nodo, broadcast de acciones y registro de aplicaciones.
package collector

import (
	"context"
	"io"
	"time"

	domain "github.com/dropDatabas3/collector/internal/collector"
	"github.com/dropDatabas3/collector/internal/fetch"
	"github.com/dropDatabas3/collector/internal/registry"
	"github.com/dropDatabas3/collector/internal/runtimeinfo"
)

// NodeFetcher es lo que los services necesitan de internal/fetch.
type NodeFetcher interface {
	Call(ctx context.Context, rawURL string, out any) error
	CopyTo(ctx context.Context, rawURL string, pending fetch.Flusher, dst io.Writer) (int64, error)
}

// Deps contiene las dependencias inyectables para los services del collector.
type Deps struct {
	Registry registry.Repository
	Runtime  *runtimeinfo.Store
	Fetcher  NodeFetcher
	Counters *domain.Counters

	// ─── Configuración ───
	MonitoringPath    string        // se agrega a cada URL registrada
	FanOutLimit       int           // nodos en paralelo por agregación (1 = secuencial)
	SelectionValidity time.Duration // validez del token de selección
}

// Services agrupa los services del collector.
type Services struct {
	Selector     *Selector
	Aggregator   *Aggregator
	Forwarder    *Forwarder
	Registration *Registration
}

// NewServices crea los services a partir de las dependencias.
func NewServices(d Deps) Services {
	if d.Counters == nil {
		d.Counters = domain.NewCounters()
	}
	agg := NewAggregator(d.Fetcher, d.FanOutLimit, d.Counters)
	return Services{
		Selector:     NewSelector(d.Registry, d.Runtime, d.SelectionValidity),
		Aggregator:   agg,
		Forwarder:    NewForwarder(agg, d.Registry, d.Runtime, d.Counters),
		Registration: NewRegistration(d.Registry, d.Runtime, agg, d.Counters, d.MonitoringPath),
	}
}
