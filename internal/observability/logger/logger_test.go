package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	require.Equal(t, zapcore.WarnLevel, parseLevel(" warn "))
	require.Equal(t, zapcore.InfoLevel, parseLevel(""))
	require.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestFromContext(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	restore := Replace(zap.New(core))
	defer restore()

	ctx := With(context.Background(), Application("shop"))
	From(ctx).Info("hello", Node("http://a:8080"))
	From(context.Background()).Info("singleton")

	entries := logs.All()
	require.Len(t, entries, 2)
	require.Equal(t, "shop", entries[0].ContextMap()["application"])
	require.Equal(t, "http://a:8080", entries[0].ContextMap()["node"])
	_, ok := entries[1].ContextMap()["application"]
	require.False(t, ok)
}
