package registry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/dropDatabas3/collector/internal/util/atomicwrite"
)

// fileDoc es el formato en disco:
//
//	applications:
//	  - name: shop
//	    nodes: [http://a:8080/monitoring, http://b:8080/monitoring]
type fileDoc struct {
	Applications []Application `yaml:"applications"`
}

// File es un Repository persistido en un YAML. Mantiene el estado en memoria
// y reescribe el archivo completo en cada mutación.
type File struct {
	path string

	mu  sync.Mutex
	mem *Memory
}

// OpenFile carga path (si existe) y devuelve el Repository.
func OpenFile(path string) (*File, error) {
	if path == "" {
		return nil, errors.New("registry: file driver requires a path")
	}
	f := &File{path: path, mem: NewMemory()}

	b, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("registry: read %s: %w", path, err)
	}
	if len(b) > 0 {
		var doc fileDoc
		if err := yaml.Unmarshal(b, &doc); err != nil {
			return nil, fmt.Errorf("registry: parse %s: %w", path, err)
		}
		for _, a := range doc.Applications {
			if err := a.validate(); err != nil {
				return nil, fmt.Errorf("registry: %s: %w", path, err)
			}
			f.mem.put(a)
		}
	}
	return f, nil
}

func (f *File) List(ctx context.Context) ([]Application, error) { return f.mem.List(ctx) }

func (f *File) Get(ctx context.Context, name string) (Application, error) {
	return f.mem.Get(ctx, name)
}

func (f *File) Put(_ context.Context, app Application) error {
	if err := app.validate(); err != nil {
		return err
	}
	return f.mutate(func(m *Memory) error {
		m.put(app)
		return nil
	})
}

func (f *File) Remove(_ context.Context, name string) error {
	return f.mutate(func(m *Memory) error { return m.remove(name) })
}

func (f *File) Close() error { return nil }

// mutate aplica fn sobre una copia, persiste y solo entonces publica el cambio.
// Si la escritura falla el estado en memoria queda como estaba.
func (f *File) mutate(fn func(*Memory) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.mem.mu.RLock()
	next := NewMemory()
	for _, a := range f.mem.snapshot() {
		next.put(a)
	}
	f.mem.mu.RUnlock()

	if err := fn(next); err != nil {
		return err
	}
	b, err := yaml.Marshal(fileDoc{Applications: next.snapshot()})
	if err != nil {
		return fmt.Errorf("registry: marshal: %w", err)
	}
	if err := atomicwrite.WriteFile(f.path, b, 0o600); err != nil {
		return fmt.Errorf("registry: %w", err)
	}

	f.mem.mu.Lock()
	f.mem.order, f.mem.apps = next.order, next.apps
	f.mem.mu.Unlock()
	return nil
}

var _ Repository = (*File)(nil)
var _ Repository = (*Memory)(nil)
