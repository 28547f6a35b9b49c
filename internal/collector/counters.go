package collector

import (
	"sort"
	"sync"
)

// Nombres de los contadores locales del collector.
const (
	CounterRequests    = "requests"
	CounterNodeCalls   = "node_calls"
	CounterNodeErrors  = "node_errors"
	CounterActions     = "actions"
	CounterSessionHits = "session_lookups"
)

// Counters son los contadores propios de la capa de agregación, por aplicación.
// La acción clear_counter los resetea sin contactar nodos.
type Counters struct {
	mu   sync.Mutex
	apps map[string]map[string]int64
}

// NewCounters crea un set de contadores vacío.
func NewCounters() *Counters {
	return &Counters{apps: make(map[string]map[string]int64)}
}

// Add suma delta al contador name de la aplicación app.
func (c *Counters) Add(app, name string, delta int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.apps[app]
	if !ok {
		m = make(map[string]int64)
		c.apps[app] = m
	}
	m[name] += delta
}

// Inc es Add(app, name, 1).
func (c *Counters) Inc(app, name string) { c.Add(app, name, 1) }

// Snapshot devuelve una copia de los contadores de app.
func (c *Counters) Snapshot(app string) map[string]int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int64, len(c.apps[app]))
	for k, v := range c.apps[app] {
		out[k] = v
	}
	return out
}

// Clear pone en cero el contador name de app; name vacío limpia todos.
// Devuelve los nombres limpiados, ordenados.
func (c *Counters) Clear(app, name string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	m := c.apps[app]
	var cleared []string
	if name == "" {
		for k := range m {
			cleared = append(cleared, k)
		}
		delete(c.apps, app)
		sort.Strings(cleared)
		return cleared
	}
	if _, ok := m[name]; ok {
		delete(m, name)
		cleared = append(cleared, name)
	}
	return cleared
}

// Forget elimina todos los contadores de app (al remover la aplicación).
func (c *Counters) Forget(app string) {
	c.mu.Lock()
	delete(c.apps, app)
	c.mu.Unlock()
}
