// Package runtimeinfo guarda la información de runtime por nodo de cada aplicación.
// Una aplicación está "disponible" cuando tiene una entrada en este store.
package runtimeinfo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dropDatabas3/collector/internal/cache"
	"github.com/dropDatabas3/collector/internal/collector"
)

const keyPrefix = "runtime:"

// Store persiste []collector.RuntimeInfo como JSON sobre un cache.Client.
type Store struct {
	c   cache.Client
	ttl time.Duration
}

// New crea el store. ttl 0 = sin expiración.
func New(c cache.Client, ttl time.Duration) *Store {
	return &Store{c: c, ttl: ttl}
}

// Get devuelve la info por nodo (en orden de nodos). ok=false si no hay datos.
func (s *Store) Get(ctx context.Context, app string) (infos []collector.RuntimeInfo, ok bool, err error) {
	b, err := s.c.Get(ctx, keyPrefix+app)
	if cache.IsNotFound(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("runtimeinfo: get %q: %w", app, err)
	}
	if err := json.Unmarshal(b, &infos); err != nil {
		return nil, false, fmt.Errorf("runtimeinfo: decode %q: %w", app, err)
	}
	return infos, true, nil
}

// Put reemplaza la info de app.
func (s *Store) Put(ctx context.Context, app string, infos []collector.RuntimeInfo) error {
	if infos == nil {
		infos = []collector.RuntimeInfo{}
	}
	b, err := json.Marshal(infos)
	if err != nil {
		return fmt.Errorf("runtimeinfo: encode %q: %w", app, err)
	}
	if err := s.c.Set(ctx, keyPrefix+app, b, s.ttl); err != nil {
		return fmt.Errorf("runtimeinfo: put %q: %w", app, err)
	}
	return nil
}

// Delete elimina la info de app.
func (s *Store) Delete(ctx context.Context, app string) error {
	if err := s.c.Delete(ctx, keyPrefix+app); err != nil {
		return fmt.Errorf("runtimeinfo: delete %q: %w", app, err)
	}
	return nil
}

// Has reporta si app tiene datos. Un error del cache cuenta como "no disponible".
func (s *Store) Has(ctx context.Context, app string) bool {
	ok, err := s.c.Exists(ctx, keyPrefix+app)
	return err == nil && ok
}
