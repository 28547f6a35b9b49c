package collector

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	domain "github.com/dropDatabas3/collector/internal/collector"
	"github.com/dropDatabas3/collector/internal/cache"
	"github.com/dropDatabas3/collector/internal/fetch"
	"github.com/dropDatabas3/collector/internal/registry"
	"github.com/dropDatabas3/collector/internal/runtimeinfo"
)

// fakeNode simula un nodo monitoreado y registra cada llamada recibida.
type fakeNode struct {
	srv *httptest.Server

	mu    sync.Mutex
	calls []url.Values

	name      string
	fail      bool
	sessions  []domain.Session
	histogram domain.HeapHistogram
	processes []domain.Process
	html      string
}

func newFakeNode(t *testing.T, name string) *fakeNode {
	t.Helper()
	n := &fakeNode{name: name, html: "<table>" + name + "</table>"}
	n.srv = httptest.NewServer(http.HandlerFunc(n.serve))
	t.Cleanup(n.srv.Close)
	return n
}

func (n *fakeNode) serve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	n.mu.Lock()
	n.calls = append(n.calls, q)
	fail := n.fail
	n.mu.Unlock()

	if fail {
		http.Error(w, n.name+" is down", http.StatusInternalServerError)
		return
	}
	if a := q.Get("action"); a != "" {
		writeJSON(w, domain.ActionResult{Message: a + " done on " + n.name})
		return
	}
	switch q.Get("part") {
	case "runtime":
		writeJSON(w, domain.RuntimeInfo{Host: n.name, SessionCount: len(n.sessions)})
	case "sessions":
		if id := q.Get("sessionId"); id != "" {
			for _, s := range n.sessions {
				if s.ID == id {
					writeJSON(w, s)
					return
				}
			}
			_, _ = w.Write([]byte("null"))
			return
		}
		writeJSON(w, n.sessions)
	case "heaphisto":
		writeJSON(w, n.histogram)
	case "processes":
		writeJSON(w, n.processes)
	case "currentRequests":
		_, _ = w.Write([]byte(n.html))
	case "web.xml":
		_, _ = w.Write([]byte("<web-app name='" + n.name + "'/>"))
	default:
		http.NotFound(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (n *fakeNode) URL() domain.NodeURL {
	return domain.MustParseNodeURL(n.srv.URL + "/monitoring")
}

func (n *fakeNode) setFail(v bool) {
	n.mu.Lock()
	n.fail = v
	n.mu.Unlock()
}

func (n *fakeNode) Calls() []url.Values {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]url.Values(nil), n.calls...)
}

func (n *fakeNode) reset() {
	n.mu.Lock()
	n.calls = nil
	n.mu.Unlock()
}

func urlsOf(nodes ...*fakeNode) []domain.NodeURL {
	out := make([]domain.NodeURL, len(nodes))
	for i, n := range nodes {
		out[i] = n.URL()
	}
	return out
}

// memTokens es un TokenStore en memoria.
type memTokens struct {
	value    string
	present  bool
	validity time.Duration
	cleared  int
}

func (m *memTokens) Current() (string, bool) { return m.value, m.present }
func (m *memTokens) Persist(name string, validity time.Duration) {
	m.value, m.present, m.validity = name, true, validity
}
func (m *memTokens) Clear() {
	m.value, m.present = "", false
	m.cleared++
}

type env struct {
	svcs     Services
	reg      *registry.Memory
	runtime  *runtimeinfo.Store
	counters *domain.Counters
}

func newEnv(t *testing.T, fanOut int) *env {
	t.Helper()
	reg := registry.NewMemory()
	rt := runtimeinfo.New(cache.NewMemory("test"), 0)
	counters := domain.NewCounters()
	svcs := NewServices(Deps{
		Registry:       reg,
		Runtime:        rt,
		Fetcher:        fetch.New(fetch.Config{Timeout: 2 * time.Second}),
		Counters:       counters,
		MonitoringPath: "/monitoring",
		FanOutLimit:    fanOut,
	})
	return &env{svcs: svcs, reg: reg, runtime: rt, counters: counters}
}

// bufFlusher es una StreamOutput que registra el contenido en cada Flush.
type bufFlusher struct {
	bytes.Buffer
	flushes []string
}

func (b *bufFlusher) Flush() error {
	b.flushes = append(b.flushes, b.String())
	return nil
}
