// Package registry guarda las aplicaciones monitoreadas y su lista de nodos.
//
// Drivers:
//   - memory: solo proceso, se pierde al reiniciar
//   - file: YAML en disco con escritura atómica
//   - redis: compartido entre instancias del collector
//
// Toda lectura devuelve una copia: una agregación en curso nunca ve una
// lista de nodos mutada por un registro o remoción concurrente.
package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dropDatabas3/collector/internal/collector"
)

// ErrNotFound se retorna cuando la aplicación no está registrada.
var ErrNotFound = errors.New("registry: application not found")

// ErrInvalidApplication se retorna al guardar una aplicación sin nombre o sin nodos.
var ErrInvalidApplication = errors.New("registry: invalid application")

// Application es una aplicación registrada. El primer nodo es representativo
// para artefactos de configuración (web.xml, pom.xml).
type Application struct {
	Name  string              `json:"name" yaml:"name"`
	Nodes []collector.NodeURL `json:"nodes" yaml:"nodes"`
}

// Clone devuelve una copia independiente.
func (a Application) Clone() Application {
	nodes := make([]collector.NodeURL, len(a.Nodes))
	copy(nodes, a.Nodes)
	return Application{Name: a.Name, Nodes: nodes}
}

// NodeStrings devuelve las URLs como strings (logs, DTOs).
func (a Application) NodeStrings() []string {
	out := make([]string, len(a.Nodes))
	for i, n := range a.Nodes {
		out[i] = n.String()
	}
	return out
}

func (a Application) validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidApplication)
	}
	if len(a.Nodes) == 0 {
		return fmt.Errorf("%w: %q has no nodes", ErrInvalidApplication, a.Name)
	}
	for _, n := range a.Nodes {
		if n.IsZero() {
			return fmt.Errorf("%w: %q has an empty node", ErrInvalidApplication, a.Name)
		}
	}
	return nil
}

// Repository es el registro de aplicaciones.
type Repository interface {
	// List devuelve las aplicaciones en orden de registro.
	List(ctx context.Context) ([]Application, error)

	// Get devuelve una aplicación o ErrNotFound.
	Get(ctx context.Context, name string) (Application, error)

	// Put agrega o reemplaza por completo la lista de nodos de app.
	// Un reemplazo conserva la posición original en el orden de registro.
	Put(ctx context.Context, app Application) error

	// Remove elimina la aplicación. ErrNotFound si no existía.
	Remove(ctx context.Context, name string) error

	// Close libera recursos del driver.
	Close() error
}

// Config selecciona y configura el driver.
type Config struct {
	Driver string // memory | file | redis
	File   string
	Redis  RedisConfig
}

// RedisConfig configura el driver redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Open crea el Repository según cfg.Driver.
func Open(ctx context.Context, cfg Config) (Repository, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "memory":
		return NewMemory(), nil
	case "file":
		return OpenFile(cfg.File)
	case "redis":
		return OpenRedis(ctx, cfg.Redis)
	default:
		return nil, fmt.Errorf("registry: unknown driver %q", cfg.Driver)
	}
}
