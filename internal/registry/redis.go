package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dropDatabas3/collector/internal/collector"
)

// Redis guarda el registro en Redis:
//
//	<prefix>:apps  hash  name -> JSON con la lista de nodos
//	<prefix>:order zset  name -> secuencia de registro
//	<prefix>:seq   contador de la secuencia
type Redis struct {
	rdb    *redis.Client
	prefix string
}

// OpenRedis conecta y verifica con PING.
func OpenRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	addr := cfg.Addr
	if addr == "" {
		addr = "localhost:6379"
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Password, DB: cfg.DB})

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("registry: redis ping failed: %w", err)
	}
	return NewRedis(rdb, cfg.Prefix), nil
}

// NewRedis envuelve un cliente existente.
func NewRedis(rdb *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "collector"
	}
	return &Redis{rdb: rdb, prefix: prefix}
}

func (r *Redis) appsKey() string  { return r.prefix + ":apps" }
func (r *Redis) orderKey() string { return r.prefix + ":order" }
func (r *Redis) seqKey() string   { return r.prefix + ":seq" }

func (r *Redis) List(ctx context.Context) ([]Application, error) {
	names, err := r.rdb.ZRange(ctx, r.orderKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}
	if len(names) == 0 {
		return []Application{}, nil
	}
	vals, err := r.rdb.HMGet(ctx, r.appsKey(), names...).Result()
	if err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}
	out := make([]Application, 0, len(names))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			// orden sin hash: remoción a medio aplicar por otra instancia
			continue
		}
		a, err := decodeApp(names[i], s)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *Redis) Get(ctx context.Context, name string) (Application, error) {
	s, err := r.rdb.HGet(ctx, r.appsKey(), name).Result()
	if errors.Is(err, redis.Nil) {
		return Application{}, ErrNotFound
	}
	if err != nil {
		return Application{}, fmt.Errorf("registry: %w", err)
	}
	return decodeApp(name, s)
}

func (r *Redis) Put(ctx context.Context, app Application) error {
	if err := app.validate(); err != nil {
		return err
	}
	b, err := json.Marshal(app.Nodes)
	if err != nil {
		return fmt.Errorf("registry: %w", err)
	}
	seq, err := r.rdb.Incr(ctx, r.seqKey()).Result()
	if err != nil {
		return fmt.Errorf("registry: %w", err)
	}
	_, err = r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, r.appsKey(), app.Name, string(b))
		// NX: un reemplazo conserva su posición
		p.ZAddNX(ctx, r.orderKey(), redis.Z{Score: float64(seq), Member: app.Name})
		return nil
	})
	if err != nil {
		return fmt.Errorf("registry: %w", err)
	}
	return nil
}

func (r *Redis) Remove(ctx context.Context, name string) error {
	var del *redis.IntCmd
	_, err := r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		del = p.HDel(ctx, r.appsKey(), name)
		p.ZRem(ctx, r.orderKey(), name)
		return nil
	})
	if err != nil {
		return fmt.Errorf("registry: %w", err)
	}
	if del.Val() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Redis) Close() error { return r.rdb.Close() }

func decodeApp(name, raw string) (Application, error) {
	var nodes []collector.NodeURL
	if err := json.Unmarshal([]byte(raw), &nodes); err != nil {
		return Application{}, fmt.Errorf("registry: decode %q: %w", name, err)
	}
	return Application{Name: name, Nodes: nodes}, nil
}

var _ Repository = (*Redis)(nil)
