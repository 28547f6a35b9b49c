package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAction_EveryActionHasScope(t *testing.T) {
	for _, a := range AllActions() {
		assert.NotZero(t, a.Scope(), "action %s has no scope", a)
	}
}

func TestAction_Scopes(t *testing.T) {
	assert.Equal(t, ScopeBroadcast, ActionGC.Scope())
	assert.Equal(t, ScopeBroadcast, ActionInvalidateSession.Scope())
	assert.Equal(t, ScopeBroadcast, ActionInvalidateSessions.Scope())
	assert.Equal(t, ScopeBroadcast, ActionHeapDump.Scope())
	assert.Equal(t, ScopeLocal, ActionClearCounter.Scope())
	assert.Equal(t, ScopeRegistry, ActionRemoveApplication.Scope())
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction("GC")
	require.NoError(t, err)
	assert.Equal(t, ActionGC, a)

	a, err = ParseAction(" Remove_Application ")
	require.NoError(t, err)
	assert.Equal(t, ActionRemoveApplication, a)

	_, err = ParseAction("reboot")
	assert.ErrorIs(t, err, ErrUnknownAction)

	_, err = ParseAction("")
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestParsePart(t *testing.T) {
	assert.Equal(t, PartSessions, ParsePart("sessions"))
	assert.Equal(t, PartHeapHistogram, ParsePart("HEAPHISTO"))
	assert.Equal(t, PartWebXML, ParsePart("web.xml"))
	assert.Equal(t, PartCurrentRequests, ParsePart("currentrequests"))
	assert.Equal(t, PartDefault, ParsePart(""))
	assert.Equal(t, PartDefault, ParsePart("graph"))
	assert.Equal(t, PartDefault, ParsePart("runtime"), "runtime is collector-internal")
	assert.True(t, PartPomXML.IsRawConfig())
	assert.False(t, PartSessions.IsRawConfig())
}
