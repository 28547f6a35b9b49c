package collector

import (
	"context"

	"golang.org/x/sync/errgroup"

	domain "github.com/dropDatabas3/collector/internal/collector"
)

// fanOut llama a call por cada nodo y devuelve los resultados en orden de nodos.
// Con limit <= 1 es secuencial y no contacta nodos después del primer error.
// Con limit > 1 corre hasta limit llamadas a la vez; el primer error cancela el resto.
func fanOut[T any](ctx context.Context, limit int, nodes []domain.NodeURL, call func(context.Context, domain.NodeURL) (T, error)) ([]T, error) {
	out := make([]T, len(nodes))
	if limit <= 1 || len(nodes) <= 1 {
		for i, n := range nodes {
			v, err := call(ctx, n)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, n := range nodes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			v, err := call(gctx, n)
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
