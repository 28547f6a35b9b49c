package runtimeinfo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/collector/internal/cache"
	"github.com/dropDatabas3/collector/internal/collector"
)

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New(cache.NewMemory("test"), 0)

	_, ok, err := s.Get(ctx, "shop")
	require.NoError(t, err)
	require.False(t, ok)
	require.False(t, s.Has(ctx, "shop"))

	in := []collector.RuntimeInfo{{Host: "a", SessionCount: 3}, {Host: "b", SessionCount: 1}}
	require.NoError(t, s.Put(ctx, "shop", in))
	require.True(t, s.Has(ctx, "shop"))

	out, ok, err := s.Get(ctx, "shop")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, out, 2)
	require.Equal(t, "b", out[1].Host)

	require.NoError(t, s.Delete(ctx, "shop"))
	require.False(t, s.Has(ctx, "shop"))
}

func TestStoreEmptyListStillAvailable(t *testing.T) {
	ctx := context.Background()
	s := New(cache.NewMemory(""), 0)
	require.NoError(t, s.Put(ctx, "shop", nil))
	out, ok, err := s.Get(ctx, "shop")
	require.NoError(t, err)
	require.True(t, ok)
	require.Empty(t, out)
}
