package collector

import (
	"fmt"
	"strings"
)

// Action es una operación mutante pedida por el cliente.
type Action string

const (
	ActionGC                 Action = "gc"
	ActionInvalidateSession  Action = "invalidate_session"
	ActionInvalidateSessions Action = "invalidate_sessions"
	ActionHeapDump           Action = "heap_dump"
	ActionClearCounter       Action = "clear_counter"
	ActionRemoveApplication  Action = "remove_application"
)

// Scope clasifica dónde se ejecuta una acción.
type Scope int

const (
	// ScopeBroadcast se envía a todos los nodos de la aplicación.
	ScopeBroadcast Scope = iota + 1
	// ScopeLocal se ejecuta una vez contra los contadores del collector.
	ScopeLocal
	// ScopeRegistry modifica el registro de aplicaciones; no toca nodos.
	ScopeRegistry
)

func (s Scope) String() string {
	switch s {
	case ScopeBroadcast:
		return "broadcast"
	case ScopeLocal:
		return "local"
	case ScopeRegistry:
		return "registry"
	}
	return "unknown"
}

// AllActions lista la taxonomía completa, en orden estable.
func AllActions() []Action {
	return []Action{
		ActionGC,
		ActionInvalidateSession,
		ActionInvalidateSessions,
		ActionHeapDump,
		ActionClearCounter,
		ActionRemoveApplication,
	}
}

// ParseAction es case-insensitive. Un valor vacío no es una acción.
func ParseAction(s string) (Action, error) {
	s = strings.TrimSpace(s)
	for _, a := range AllActions() {
		if strings.EqualFold(s, string(a)) {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// Scope devuelve la clasificación de la acción.
// Toda acción nueva debe agregarse acá; el test de la taxonomía falla si falta.
func (a Action) Scope() Scope {
	switch a {
	case ActionGC, ActionInvalidateSession, ActionInvalidateSessions, ActionHeapDump:
		return ScopeBroadcast
	case ActionClearCounter:
		return ScopeLocal
	case ActionRemoveApplication:
		return ScopeRegistry
	}
	return 0
}

// NeedsSessionID reporta si la acción requiere el parámetro sessionId.
func (a Action) NeedsSessionID() bool {
	return a == ActionInvalidateSession
}

func (a Action) String() string { return string(a) }
