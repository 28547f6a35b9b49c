package collector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	domain "github.com/dropDatabas3/collector/internal/collector"
	"github.com/dropDatabas3/collector/internal/registry"
)

func (e *env) addKnown(t *testing.T, name string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.reg.Put(ctx, registry.Application{
		Name:  name,
		Nodes: []domain.NodeURL{domain.MustParseNodeURL("http://" + name + ":8080/monitoring")},
	}))
	require.NoError(t, e.runtime.Put(ctx, name, []domain.RuntimeInfo{{Host: name}}))
}

func (e *env) forget(t *testing.T, name string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.reg.Remove(ctx, name))
	require.NoError(t, e.runtime.Delete(ctx, name))
}

func TestSelectorStickyRouting(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, 1)
	e.addKnown(t, "A")
	e.addKnown(t, "B")
	sel := e.svcs.Selector
	tokens := &memTokens{}

	// explícito y conocido: se elige y se persiste
	app, ok, err := sel.Select(ctx, "B", tokens)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "B", app.Name)
	require.Equal(t, "B", tokens.value)
	require.Equal(t, domain.StickyValidity, tokens.validity)

	// sin parámetro: el token manda
	app, ok, err = sel.Select(ctx, "", tokens)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "B", app.Name)

	// B se remueve: se borra el token y se cae a la primera conocida
	e.forget(t, "B")
	app, ok, err = sel.Select(ctx, "", tokens)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "A", app.Name)
	require.Equal(t, 1, tokens.cleared)
	require.False(t, tokens.present)

	// registro vacío: ninguna
	e.forget(t, "A")
	_, ok, err = sel.Select(ctx, "", tokens)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSelectorUnknownExplicitNameFallsBackToToken(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, 1)
	e.addKnown(t, "A")
	e.addKnown(t, "B")
	tokens := &memTokens{value: "B", present: true}

	app, ok, err := e.svcs.Selector.Select(ctx, "ghost", tokens)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "B", app.Name)
	require.Equal(t, "B", tokens.value, "token untouched")
	require.Zero(t, tokens.cleared)
}

func TestSelectorExplicitNameRequiresRuntimeData(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, 1)
	e.addKnown(t, "warm")
	require.NoError(t, e.reg.Put(ctx, registry.Application{
		Name:  "cold",
		Nodes: []domain.NodeURL{domain.MustParseNodeURL("http://cold:8080")},
	}))
	tokens := &memTokens{}

	app, ok, err := e.svcs.Selector.Select(ctx, "cold", tokens)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "warm", app.Name, "registered but without data is not known")
	require.False(t, tokens.present)
}

func TestSelectorDefaultIsFirstRegisteredEvenWithoutData(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, 1)
	require.NoError(t, e.reg.Put(ctx, registry.Application{
		Name:  "cold",
		Nodes: []domain.NodeURL{domain.MustParseNodeURL("http://cold:8080")},
	}))
	e.addKnown(t, "warm")
	tokens := &memTokens{value: "cold", present: true}

	app, ok, err := e.svcs.Selector.Select(ctx, "", tokens)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "cold", app.Name)
	require.False(t, e.runtime.Has(ctx, app.Name))
	require.Equal(t, 1, tokens.cleared, "token sin datos se borra")
}
