package collector

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dropDatabas3/collector/internal/cache"
	domain "github.com/dropDatabas3/collector/internal/collector"
	"github.com/dropDatabas3/collector/internal/fetch"
	svc "github.com/dropDatabas3/collector/internal/http/services/collector"
	"github.com/dropDatabas3/collector/internal/registry"
	"github.com/dropDatabas3/collector/internal/runtimeinfo"
)

// testNode es un nodo monitoreado mínimo.
type testNode struct {
	srv   *httptest.Server
	name  string
	calls atomic.Int32

	mu   sync.Mutex
	down bool
}

func newTestNode(t *testing.T, name string) *testNode {
	t.Helper()
	n := &testNode{name: name}
	n.srv = httptest.NewServer(http.HandlerFunc(n.serve))
	t.Cleanup(n.srv.Close)
	return n
}

func (n *testNode) setDown(v bool) {
	n.mu.Lock()
	n.down = v
	n.mu.Unlock()
}

func (n *testNode) serve(w http.ResponseWriter, r *http.Request) {
	n.calls.Add(1)
	n.mu.Lock()
	down := n.down
	n.mu.Unlock()
	if down {
		http.Error(w, n.name+" is down", http.StatusInternalServerError)
		return
	}

	q := r.URL.Query()
	enc := json.NewEncoder(w)
	if a := q.Get("action"); a != "" {
		_ = enc.Encode(domain.ActionResult{Message: a + " on " + n.name})
		return
	}
	switch q.Get("part") {
	case "runtime":
		_ = enc.Encode(domain.RuntimeInfo{Host: n.name})
	case "sessions":
		s := domain.Session{ID: n.name + "-s1", LastAccess: time.Unix(100, 0)}
		if id := q.Get("sessionId"); id != "" {
			if id == s.ID {
				_ = enc.Encode(s)
				return
			}
			_, _ = w.Write([]byte("null"))
			return
		}
		_ = enc.Encode([]domain.Session{s})
	case "heaphisto":
		_ = enc.Encode(domain.HeapHistogram{Classes: []domain.ClassInfo{{Name: "byte[]", Instances: 1, Bytes: 100}}})
	case "processes":
		_ = enc.Encode([]domain.Process{{PID: 1, Command: n.name}})
	case "currentRequests":
		_, _ = w.Write([]byte("<table>" + n.name + "</table>"))
	case "web.xml":
		_, _ = w.Write([]byte("<web-app/>"))
	default:
		http.NotFound(w, r)
	}
}

func (n *testNode) base() string { return n.srv.URL }

func joinBases(nodes ...*testNode) string {
	b := make([]string, len(nodes))
	for i, n := range nodes {
		b[i] = n.base()
	}
	return strings.Join(b, ",")
}

type harness struct {
	ctrl     *Controllers
	reg      *registry.Memory
	runtime  *runtimeinfo.Store
	counters *domain.Counters
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	reg := registry.NewMemory()
	rt := runtimeinfo.New(cache.NewMemory("test"), 0)
	counters := domain.NewCounters()
	s := svc.NewServices(svc.Deps{
		Registry:       reg,
		Runtime:        rt,
		Fetcher:        fetch.New(fetch.Config{Timeout: 2 * time.Second}),
		Counters:       counters,
		MonitoringPath: "/monitoring",
		FanOutLimit:    2,
	})
	ctrl := NewControllers(s, ControllerDeps{
		Registry:   reg,
		Runtime:    rt,
		Counters:   counters,
		CookieName: "monitoring",
		BasePath:   "/",
	})
	return &harness{ctrl: ctrl, reg: reg, runtime: rt, counters: counters}
}
