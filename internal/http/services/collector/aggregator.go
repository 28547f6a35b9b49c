package collector

import (
	"context"
	"fmt"
	"html"
	"io"

	domain "github.com/dropDatabas3/collector/internal/collector"
	"github.com/dropDatabas3/collector/internal/fetch"
	"github.com/dropDatabas3/collector/internal/observability/logger"
)

// StreamOutput es la salida de los reportes en streaming: bytes más un Flush
// que vacía lo escrito localmente antes de los bytes de cada nodo.
type StreamOutput interface {
	io.Writer
	fetch.Flusher
}

// Aggregator consulta todos los nodos de una aplicación y mergea por tipo de parte.
// Cualquier falla de un nodo aborta la agregación completa.
type Aggregator struct {
	f        NodeFetcher
	limit    int
	counters *domain.Counters
}

// NewAggregator crea el Aggregator. limit es la cantidad de nodos consultados en paralelo.
func NewAggregator(f NodeFetcher, limit int, counters *domain.Counters) *Aggregator {
	if limit < 1 {
		limit = 1
	}
	return &Aggregator{f: f, limit: limit, counters: counters}
}

// Target identifica la aplicación y los nodos a consultar.
type Target struct {
	Application string
	Nodes       []domain.NodeURL
}

// NodeStrings devuelve las URLs de los nodos como texto (logs).
func (t Target) NodeStrings() []string {
	out := make([]string, len(t.Nodes))
	for i, n := range t.Nodes {
		out[i] = n.String()
	}
	return out
}

// call hace una llamada JSON a un nodo, contando llamadas y errores por aplicación.
func (a *Aggregator) call(ctx context.Context, t Target, rawURL string, out any) error {
	a.counters.Inc(t.Application, domain.CounterNodeCalls)
	if err := a.f.Call(ctx, rawURL, out); err != nil {
		a.counters.Inc(t.Application, domain.CounterNodeErrors)
		logger.From(ctx).Warn("node call failed",
			logger.Layer("service"),
			logger.Application(t.Application),
			logger.Node(rawURL),
			logger.Err(err),
		)
		return err
	}
	return nil
}

func partURL(n domain.NodeURL, part domain.Part, period string) string {
	return n.Call(domain.FormatJSON, map[string]string{
		domain.ParamPart:   string(part),
		domain.ParamPeriod: period,
	})
}

// HeapHistogram trae el histograma de cada nodo y los acumula por clase.
func (a *Aggregator) HeapHistogram(ctx context.Context, t Target) (*domain.HeapHistogram, error) {
	list, err := fanOut(ctx, a.limit, t.Nodes, func(ctx context.Context, n domain.NodeURL) (*domain.HeapHistogram, error) {
		var h domain.HeapHistogram
		if err := a.call(ctx, t, partURL(n, domain.PartHeapHistogram, ""), &h); err != nil {
			return nil, err
		}
		return &h, nil
	})
	if err != nil {
		return nil, err
	}
	return domain.MergeHistograms(list), nil
}

// Sessions concatena las sesiones de todos los nodos, más recientes primero.
func (a *Aggregator) Sessions(ctx context.Context, t Target) ([]domain.Session, error) {
	perNode, err := fanOut(ctx, a.limit, t.Nodes, func(ctx context.Context, n domain.NodeURL) ([]domain.Session, error) {
		var s []domain.Session
		if err := a.call(ctx, t, partURL(n, domain.PartSessions, ""), &s); err != nil {
			return nil, err
		}
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return domain.ConcatSessions(perNode), nil
}

// Session busca una sesión por id nodo por nodo, en orden, y corta en el primero
// que la tiene. Que ningún nodo la tenga no es error: Found=false.
func (a *Aggregator) Session(ctx context.Context, t Target, sessionID string) (domain.SessionLookup, error) {
	a.counters.Inc(t.Application, domain.CounterSessionHits)
	for _, n := range t.Nodes {
		var s *domain.Session
		u := n.Call(domain.FormatJSON, map[string]string{
			domain.ParamPart:      string(domain.PartSessions),
			domain.ParamSessionID: sessionID,
		})
		if err := a.call(ctx, t, u, &s); err != nil {
			return domain.SessionLookup{}, err
		}
		if s != nil {
			return domain.SessionLookup{Session: s, Found: true}, nil
		}
	}
	return domain.SessionLookup{}, nil
}

// Processes devuelve los procesos de cada nodo, agrupados por nodo (host:port).
func (a *Aggregator) Processes(ctx context.Context, t Target) ([]domain.NodeProcesses, error) {
	return fanOut(ctx, a.limit, t.Nodes, func(ctx context.Context, n domain.NodeURL) (domain.NodeProcesses, error) {
		var p []domain.Process
		if err := a.call(ctx, t, partURL(n, domain.PartProcesses, ""), &p); err != nil {
			return domain.NodeProcesses{}, err
		}
		return domain.NodeProcesses{Node: n.HostPort(), Processes: p}, nil
	})
}

// RuntimeInfo trae la info básica de cada nodo, sin merge, en orden de nodos.
func (a *Aggregator) RuntimeInfo(ctx context.Context, t Target) ([]domain.RuntimeInfo, error) {
	return fanOut(ctx, a.limit, t.Nodes, func(ctx context.Context, n domain.NodeURL) (domain.RuntimeInfo, error) {
		var info domain.RuntimeInfo
		if err := a.call(ctx, t, partURL(n, domain.PartRuntime, ""), &info); err != nil {
			return domain.RuntimeInfo{}, err
		}
		if info.Host == "" {
			info.Host = n.HostPort()
		}
		return info, nil
	})
}

// CurrentRequests escribe, por nodo, un título local con host:port seguido del
// HTML del nodo copiado tal cual. Es secuencial: la salida es un único stream.
func (a *Aggregator) CurrentRequests(ctx context.Context, t Target, period string, out StreamOutput) error {
	for _, n := range t.Nodes {
		if _, err := fmt.Fprintf(out, "<h3 class='nodeTitle'>%s</h3>\n", html.EscapeString(n.HostPort())); err != nil {
			return err
		}
		u := n.Call(domain.FormatHTML, map[string]string{
			domain.ParamPart:   string(domain.PartCurrentRequests),
			domain.ParamPeriod: period,
		})
		if err := a.copy(ctx, t, u, out); err != nil {
			return err
		}
	}
	return out.Flush()
}

// RawConfig copia web.xml o pom.xml del primer nodo: se asume idéntico en todo el cluster.
func (a *Aggregator) RawConfig(ctx context.Context, t Target, part domain.Part, out StreamOutput) error {
	if !part.IsRawConfig() {
		return fmt.Errorf("collector: %q is not a raw config part", part)
	}
	if len(t.Nodes) == 0 {
		return fmt.Errorf("collector: application %q has no nodes", t.Application)
	}
	u := t.Nodes[0].Call(domain.FormatHTML, map[string]string{domain.ParamPart: string(part)})
	if err := a.copy(ctx, t, u, out); err != nil {
		return err
	}
	return out.Flush()
}

func (a *Aggregator) copy(ctx context.Context, t Target, rawURL string, out StreamOutput) error {
	a.counters.Inc(t.Application, domain.CounterNodeCalls)
	if _, err := a.f.CopyTo(ctx, rawURL, out, out); err != nil {
		a.counters.Inc(t.Application, domain.CounterNodeErrors)
		logger.From(ctx).Warn("node stream failed",
			logger.Layer("service"),
			logger.Application(t.Application),
			logger.Node(rawURL),
			logger.Err(err),
		)
		return err
	}
	return nil
}
