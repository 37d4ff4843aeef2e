package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	appctx "onboarding/internal/core/context"
)

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	l, err := New(Config{Level: "loud", OutputPaths: []string{"stderr"}})
	require.NoError(t, err)
	assert.True(t, l.Desugar().Core().Enabled(zap.InfoLevel))
	assert.False(t, l.Desugar().Core().Enabled(zap.DebugLevel))
}

func TestWithContext_AddsTraceAndSession(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{zap.New(core).Sugar()}

	ctx := appctx.WithTrace(context.Background(), &appctx.TraceContext{
		TraceID:   "t-1",
		RequestID: "r-1",
		Route:     "POST /api/v1/wizard/navigate",
	})
	ctx = appctx.WithSession(ctx, &appctx.SessionContext{SessionID: "s-1"})
	ctx = WithLogger(ctx, l)

	Info(ctx, "navigated", "section", "funding")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "t-1", fields["trace_id"])
	assert.Equal(t, "r-1", fields["request_id"])
	assert.Equal(t, "POST /api/v1/wizard/navigate", fields["route"])
	assert.Equal(t, "s-1", fields["session_id"])
	assert.Equal(t, "funding", fields["section"])
}

func TestFromContext_DefaultsWhenMissing(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
}

func TestWithContext_SessionOutsideRequest(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	ctx := WithLogger(context.Background(), &Logger{zap.New(core).Sugar()})

	Info(appctx.ForSession(ctx, "s-9"), "wizard session closed")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "s-9", fields["session_id"])
	assert.NotContains(t, fields, "trace_id")
}

func TestNew_Encoding(t *testing.T) {
	for _, enc := range []string{EncodingJSON, EncodingConsole, "", "xml"} {
		l, err := New(Config{Level: "debug", Encoding: enc, OutputPaths: []string{"stderr"}})
		require.NoError(t, err, enc)
		assert.True(t, l.Desugar().Core().Enabled(zap.DebugLevel), enc)
	}
}
