package collector

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	domain "github.com/dropDatabas3/collector/internal/collector"
	httperrors "github.com/dropDatabas3/collector/internal/http/errors"
)

func TestRegistrationRejectsNonHTTPScheme(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, 1)

	_, err := e.svcs.Registration.Register(ctx, "shop", "ftp://x")
	require.Error(t, err)
	require.Equal(t, "INVALID_URL_FORMAT", httperrors.FromError(err).Code)

	apps, err := e.reg.List(ctx)
	require.NoError(t, err)
	require.Empty(t, apps, "registry unchanged")
}

func TestRegistrationMissingFields(t *testing.T) {
	e := newEnv(t, 1)
	_, err := e.svcs.Registration.Register(context.Background(), " ", "http://a")
	require.Equal(t, "MISSING_FIELDS", httperrors.FromError(err).Code)
	_, err = e.svcs.Registration.Register(context.Background(), "shop", "")
	require.Equal(t, "MISSING_FIELDS", httperrors.FromError(err).Code)
}

func TestRegistrationAcceptsCommaSeparatedNodes(t *testing.T) {
	ctx := context.Background()
	a, b := newFakeNode(t, "a"), newFakeNode(t, "b")
	e := newEnv(t, 1)

	app, err := e.svcs.Registration.Register(ctx, "shop", a.srv.URL+", "+b.srv.URL)
	require.NoError(t, err)
	require.Equal(t, []string{a.srv.URL + "/monitoring", b.srv.URL + "/monitoring"}, app.NodeStrings())

	stored, err := e.reg.Get(ctx, "shop")
	require.NoError(t, err)
	require.Equal(t, app.NodeStrings(), stored.NodeStrings())

	infos, ok, err := e.runtime.Get(ctx, "shop")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, infos, 2)
}

func TestRegistrationFailsIfAnyNodeIsDown(t *testing.T) {
	ctx := context.Background()
	a, b := newFakeNode(t, "a"), newFakeNode(t, "b")
	b.setFail(true)
	e := newEnv(t, 1)

	_, err := e.svcs.Registration.Register(ctx, "shop", strings.Join([]string{a.srv.URL, b.srv.URL}, ","))
	require.Error(t, err)
	require.True(t, domain.IsFetchError(err))

	apps, _ := e.reg.List(ctx)
	require.Empty(t, apps)
	require.False(t, e.runtime.Has(ctx, "shop"))
}

func TestBootstrapAndWarmUp(t *testing.T) {
	ctx := context.Background()
	a, b := newFakeNode(t, "a"), newFakeNode(t, "b")
	b.setFail(true)
	e := newEnv(t, 1)

	err := e.svcs.Registration.Bootstrap(ctx, []StaticApplication{
		{Name: "shop", URLs: []string{a.srv.URL}},
		{Name: "billing", URLs: []string{b.srv.URL}},
	})
	require.NoError(t, err)
	require.Empty(t, a.Calls(), "bootstrap does not contact nodes")

	// re-bootstrap no pisa lo existente
	require.NoError(t, e.svcs.Registration.Bootstrap(ctx, []StaticApplication{{Name: "shop", URLs: []string{b.srv.URL}}}))
	shop, err := e.reg.Get(ctx, "shop")
	require.NoError(t, err)
	require.Equal(t, []string{a.srv.URL + "/monitoring"}, shop.NodeStrings())

	n, err := e.svcs.Registration.WarmUp(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.True(t, e.runtime.Has(ctx, "shop"))
	require.False(t, e.runtime.Has(ctx, "billing"))
}
