package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dropDatabas3/collector/internal/observability/logger"
)

func TestLog(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ctx := logger.ToContext(context.Background(), zap.New(core).With(logger.RequestID("r1")))

	Log(ctx, ApplicationRemoved, logger.Application("shop"))

	entries := logs.All()
	require.Len(t, entries, 1)
	e := entries[0]
	require.Equal(t, "audit", e.LoggerName)
	require.Equal(t, "application.removed", e.Message)
	fields := e.ContextMap()
	require.Equal(t, "r1", fields["request_id"])
	require.Equal(t, "shop", fields["application"])
	require.Equal(t, "application.removed", fields["event"])
	require.NotEmpty(t, fields["ts"])
}
