// Package audit registra los eventos que cambian el estado del collector:
// altas y bajas de aplicaciones y acciones difundidas a los nodos.
// Van a un logger propio ("audit") para poder rutearlos aparte.
package audit

import (
	"context"
	"time"

	"github.com/dropDatabas3/collector/internal/observability/logger"
)

// Event identifica el tipo de evento auditado.
type Event string

const (
	ApplicationRegistered Event = "application.registered"
	ApplicationRemoved    Event = "application.removed"
	ActionBroadcast       Event = "action.broadcast"
	CountersCleared       Event = "counters.cleared"
)

// Log escribe el evento con los campos del logger del contexto (request_id, etc).
func Log(ctx context.Context, event Event, fields ...logger.Field) {
	fields = append(fields,
		logger.String("event", string(event)),
		logger.String("ts", time.Now().UTC().Format(time.RFC3339Nano)),
	)
	logger.From(ctx).Named("audit").Info(string(event), fields...)
}
