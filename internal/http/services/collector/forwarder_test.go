package collector

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	domain "github.com/dropDatabas3/collector/internal/collector"
	httperrors "github.com/dropDatabas3/collector/internal/http/errors"
	"github.com/dropDatabas3/collector/internal/registry"
)

func (e *env) register(t *testing.T, name string, nodes ...*fakeNode) Target {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.reg.Put(ctx, registry.Application{Name: name, Nodes: urlsOf(nodes...)}))
	require.NoError(t, e.runtime.Put(ctx, name, []domain.RuntimeInfo{{Host: "stale"}}))
	return Target{Application: name, Nodes: urlsOf(nodes...)}
}

func TestForwarderFailFastWithoutRefresh(t *testing.T) {
	n1, n2, n3 := newFakeNode(t, "n1"), newFakeNode(t, "n2"), newFakeNode(t, "n3")
	n2.setFail(true)
	e := newEnv(t, 3)
	target := e.register(t, "shop", n1, n2, n3)

	_, err := e.svcs.Forwarder.Execute(context.Background(), target, ActionRequest{Action: domain.ActionGC})
	require.Error(t, err)
	require.True(t, domain.IsFetchError(err))
	require.Contains(t, err.Error(), "n2 is down")

	require.Len(t, n1.Calls(), 1)
	require.Equal(t, "gc", n1.Calls()[0].Get("action"))
	require.Len(t, n2.Calls(), 1)
	require.Empty(t, n3.Calls(), "node 3 never contacted")

	infos, ok, err := e.runtime.Get(context.Background(), "shop")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "stale", infos[0].Host, "no refresh after a failed broadcast")
}

func TestForwarderBroadcastThenRefresh(t *testing.T) {
	n1, n2 := newFakeNode(t, "n1"), newFakeNode(t, "n2")
	e := newEnv(t, 1)
	target := e.register(t, "shop", n1, n2)

	out, err := e.svcs.Forwarder.Execute(context.Background(), target, ActionRequest{
		Action:    domain.ActionInvalidateSessions,
		SessionID: "",
	})
	require.NoError(t, err)
	require.Equal(t, "invalidate_sessions done on n1\ninvalidate_sessions done on n2", out.Message)
	require.False(t, out.Removed)

	for _, n := range []*fakeNode{n1, n2} {
		calls := n.Calls()
		require.Len(t, calls, 2)
		require.Equal(t, "invalidate_sessions", calls[0].Get("action"))
		require.False(t, calls[0].Has("sessionId"))
		require.Equal(t, "runtime", calls[1].Get("part"), "refresh happens after the broadcast")
	}

	infos, _, err := e.runtime.Get(context.Background(), "shop")
	require.NoError(t, err)
	require.Equal(t, "n1", infos[0].Host)
	require.Equal(t, "n2", infos[1].Host)
}

func TestForwarderInvalidateSessionRequiresID(t *testing.T) {
	n1 := newFakeNode(t, "n1")
	e := newEnv(t, 1)
	target := e.register(t, "shop", n1)

	_, err := e.svcs.Forwarder.Execute(context.Background(), target, ActionRequest{Action: domain.ActionInvalidateSession})
	require.Error(t, err)
	require.Equal(t, "INVALID_PARAMETER", httperrors.FromError(err).Code)
	require.True(t, errors.Is(err, domain.ErrSessionIDRequired))
	require.Empty(t, n1.Calls())

	_, err = e.svcs.Forwarder.Execute(context.Background(), target, ActionRequest{Action: domain.ActionInvalidateSession, SessionID: "abc"})
	require.NoError(t, err)
	require.Equal(t, "abc", n1.Calls()[0].Get("sessionId"))
}

func TestForwarderClearCounterIsLocal(t *testing.T) {
	n1 := newFakeNode(t, "n1")
	e := newEnv(t, 1)
	target := e.register(t, "shop", n1)
	e.counters.Add("shop", domain.CounterRequests, 5)
	e.counters.Add("shop", domain.CounterNodeCalls, 9)

	out, err := e.svcs.Forwarder.Execute(context.Background(), target, ActionRequest{Action: domain.ActionClearCounter, Counter: domain.CounterRequests})
	require.NoError(t, err)
	require.Contains(t, out.Message, domain.CounterRequests)
	require.Empty(t, n1.Calls(), "clear_counter never reaches nodes")

	snap := e.counters.Snapshot("shop")
	_, still := snap[domain.CounterRequests]
	require.False(t, still)
	require.EqualValues(t, 9, snap[domain.CounterNodeCalls])
}

func TestForwarderRemoveApplication(t *testing.T) {
	n1 := newFakeNode(t, "n1")
	e := newEnv(t, 1)
	target := e.register(t, "shop", n1)

	out, err := e.svcs.Forwarder.Execute(context.Background(), target, ActionRequest{Action: domain.ActionRemoveApplication})
	require.NoError(t, err)
	require.True(t, out.Removed)
	require.Empty(t, n1.Calls())

	_, err = e.reg.Get(context.Background(), "shop")
	require.ErrorIs(t, err, registry.ErrNotFound)
	require.False(t, e.runtime.Has(context.Background(), "shop"))

	_, err = e.svcs.Forwarder.Execute(context.Background(), target, ActionRequest{Action: domain.ActionRemoveApplication})
	require.Equal(t, "NOT_FOUND", httperrors.FromError(err).Code)
}
