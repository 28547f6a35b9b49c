package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	domain "github.com/dropDatabas3/collector/internal/collector"
	"github.com/dropDatabas3/collector/internal/registry"
)

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type brokenRegistry struct{ registry.Repository }

func (brokenRegistry) List(context.Context) ([]registry.Application, error) {
	return nil, errors.New("disk gone")
}

func TestCheckReady(t *testing.T) {
	reg := registry.NewMemory()
	require.NoError(t, reg.Put(context.Background(), registry.Application{
		Name:  "shop",
		Nodes: []domain.NodeURL{domain.MustParseNodeURL("http://a:8080/monitoring")},
	}))

	res := NewHealthService(Deps{
		Registry:  reg,
		Cache:     pingFunc(func(context.Context) error { return nil }),
		CacheKind: "memory",
		Version:   "1.2.3",
	}).Check(context.Background())

	require.Equal(t, "ready", res.Status)
	require.Equal(t, 1, res.Applications)
	require.Equal(t, "ok", res.Components["registry"].Status)
	require.Equal(t, "memory cache only", res.Components["cache"].Message)
	require.Equal(t, "1.2.3", res.Version)
}

func TestCheckDegradedWhenCacheDown(t *testing.T) {
	res := NewHealthService(Deps{
		Registry: registry.NewMemory(),
		Cache:    pingFunc(func(context.Context) error { return errors.New("refused") }),
	}).Check(context.Background())

	require.Equal(t, "degraded", res.Status)
	require.Equal(t, "error", res.Components["cache"].Status)
	require.Contains(t, res.Components["cache"].Message, "refused")
}

func TestCheckUnavailableWhenRegistryFails(t *testing.T) {
	res := NewHealthService(Deps{Registry: brokenRegistry{}}).Check(context.Background())
	require.Equal(t, "unavailable", res.Status)
	require.Equal(t, "disabled", res.Components["cache"].Status)

	res = NewHealthService(Deps{}).Check(context.Background())
	require.Equal(t, "unavailable", res.Status)
}
