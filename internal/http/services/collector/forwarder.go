package collector

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dropDatabas3/collector/internal/audit"
	domain "github.com/dropDatabas3/collector/internal/collector"
	httperrors "github.com/dropDatabas3/collector/internal/http/errors"
	"github.com/dropDatabas3/collector/internal/metrics"
	"github.com/dropDatabas3/collector/internal/observability/logger"
	"github.com/dropDatabas3/collector/internal/registry"
	"github.com/dropDatabas3/collector/internal/runtimeinfo"
)

// ActionRequest es una acción pedida sobre una aplicación.
type ActionRequest struct {
	Action    domain.Action
	SessionID string // invalidate_session (obligatorio), opcional para el resto
	Counter   string // clear_counter: contador a limpiar, vacío = todos
}

// ActionOutcome es el resultado visible de una acción.
type ActionOutcome struct {
	Message string
	// Removed indica que la aplicación ya no existe (remove_application).
	Removed bool
}

// Forwarder ejecuta acciones: broadcast a los nodos, locales o sobre el registro.
type Forwarder struct {
	agg      *Aggregator
	reg      registry.Repository
	runtime  *runtimeinfo.Store
	counters *domain.Counters
}

// NewForwarder crea el Forwarder.
func NewForwarder(agg *Aggregator, reg registry.Repository, runtime *runtimeinfo.Store, counters *domain.Counters) *Forwarder {
	return &Forwarder{agg: agg, reg: reg, runtime: runtime, counters: counters}
}

// Execute corre req sobre t según el scope de la acción.
func (fw *Forwarder) Execute(ctx context.Context, t Target, req ActionRequest) (out ActionOutcome, err error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("collector.forwarder"),
		logger.Application(t.Application),
		logger.Action(req.Action.String()),
	)
	defer func() { metrics.ObserveAction(req.Action.String(), err) }()
	fw.counters.Inc(t.Application, domain.CounterActions)

	switch req.Action.Scope() {
	case domain.ScopeRegistry:
		return fw.removeApplication(ctx, t.Application)
	case domain.ScopeLocal:
		cleared := fw.counters.Clear(t.Application, req.Counter)
		log.Info("local counters cleared", logger.Count(len(cleared)))
		audit.Log(ctx, audit.CountersCleared, logger.Application(t.Application), logger.Count(len(cleared)))
		return ActionOutcome{Message: clearedMessage(cleared)}, nil
	case domain.ScopeBroadcast:
		out, err = fw.broadcast(ctx, t, req)
		if err != nil {
			log.Warn("action broadcast failed", logger.Err(err))
			return ActionOutcome{}, err
		}
		log.Info("action broadcast", logger.Count(len(t.Nodes)))
		audit.Log(ctx, audit.ActionBroadcast,
			logger.Application(t.Application),
			logger.Action(req.Action.String()),
			logger.Nodes(t.NodeStrings()),
		)
		return out, nil
	default:
		return ActionOutcome{}, httperrors.ErrUnknownAction.WithDetail(req.Action.String()).WithCause(domain.ErrUnknownAction)
	}
}

// broadcast llama a cada nodo en orden; el primer error aborta sin contactar
// los nodos restantes y sin refrescar. Si todos responden, refresca la info
// de runtime de la aplicación.
func (fw *Forwarder) broadcast(ctx context.Context, t Target, req ActionRequest) (ActionOutcome, error) {
	if req.Action.NeedsSessionID() && strings.TrimSpace(req.SessionID) == "" {
		return ActionOutcome{}, httperrors.ErrInvalidParameter.
			WithDetail("sessionId es obligatorio para " + req.Action.String()).
			WithCause(domain.ErrSessionIDRequired)
	}

	messages := make([]string, 0, len(t.Nodes))
	for _, n := range t.Nodes {
		u := n.Call(domain.FormatJSON, map[string]string{
			domain.ParamAction:    req.Action.String(),
			domain.ParamSessionID: req.SessionID,
		})
		var res domain.ActionResult
		if err := fw.agg.call(ctx, t, u, &res); err != nil {
			return ActionOutcome{}, err
		}
		if res.Message != "" {
			messages = append(messages, res.Message)
		}
	}

	infos, err := fw.agg.RuntimeInfo(ctx, t)
	if err != nil {
		return ActionOutcome{}, err
	}
	if err := fw.runtime.Put(ctx, t.Application, infos); err != nil {
		return ActionOutcome{}, err
	}
	return ActionOutcome{Message: strings.Join(messages, "\n")}, nil
}

func (fw *Forwarder) removeApplication(ctx context.Context, name string) (ActionOutcome, error) {
	if err := fw.reg.Remove(ctx, name); err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return ActionOutcome{}, httperrors.ErrNotFound.WithDetail(name).WithCause(err)
		}
		return ActionOutcome{}, err
	}
	if err := fw.runtime.Delete(ctx, name); err != nil {
		logger.From(ctx).Warn("runtime info not deleted", logger.Application(name), logger.Err(err))
	}
	fw.counters.Forget(name)
	if apps, err := fw.reg.List(ctx); err == nil {
		metrics.Applications.Set(float64(len(apps)))
	}

	logger.From(ctx).Info("application removed", logger.Application(name))
	audit.Log(ctx, audit.ApplicationRemoved, logger.Application(name))
	return ActionOutcome{Message: fmt.Sprintf("Application %s removed", name), Removed: true}, nil
}

func clearedMessage(cleared []string) string {
	if len(cleared) == 0 {
		return "No counter to clear"
	}
	return "Counters cleared: " + strings.Join(cleared, ", ")
}
