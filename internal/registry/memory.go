package registry

import (
	"context"
	"sync"
)

// Memory es un Repository en memoria protegido por RWMutex.
type Memory struct {
	mu    sync.RWMutex
	order []string
	apps  map[string]Application
}

// NewMemory crea un registro vacío.
func NewMemory() *Memory {
	return &Memory{apps: make(map[string]Application)}
}

func (m *Memory) List(context.Context) ([]Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot(), nil
}

func (m *Memory) Get(_ context.Context, name string) (Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.apps[name]
	if !ok {
		return Application{}, ErrNotFound
	}
	return a.Clone(), nil
}

func (m *Memory) Put(_ context.Context, app Application) error {
	if err := app.validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(app)
	return nil
}

func (m *Memory) Remove(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remove(name)
}

func (m *Memory) Close() error { return nil }

// helpers sin lock, compartidos con File.

func (m *Memory) snapshot() []Application {
	out := make([]Application, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.apps[name].Clone())
	}
	return out
}

func (m *Memory) put(app Application) {
	if _, exists := m.apps[app.Name]; !exists {
		m.order = append(m.order, app.Name)
	}
	m.apps[app.Name] = app.Clone()
}

func (m *Memory) remove(name string) error {
	if _, ok := m.apps[name]; !ok {
		return ErrNotFound
	}
	delete(m.apps, name)
	for i, n := range m.order {
		if n == name {
			m.order = append(m.order[:i:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}
